package shell

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/shlex"

	"blinkdemo-go/errcode"
	"blinkdemo-go/x/fmtx"
)

const DefaultPrompt = "uart:~$ "

// maxLine bounds the line buffer; further bytes are discarded.
const maxLine = 128

// Handler runs a command. args excludes the command name. The return value
// is the command status; 0 is success.
type Handler func(w io.Writer, args []string) int

type Command struct {
	Name    string
	Help    string
	Handler Handler
}

type Config struct {
	Prompt string
	Echo   bool
}

// Shell is a line-oriented debug shell.
type Shell struct {
	cfg Config

	mu   sync.RWMutex
	cmds map[string]Command
}

func New(cfg Config) *Shell {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	s := &Shell{cfg: cfg, cmds: map[string]Command{}}
	_ = s.Register(Command{Name: "help", Help: "list commands", Handler: s.help})
	return s
}

// Register adds a command. Names must be unique and non-empty.
func (s *Shell) Register(c Command) error {
	if c.Name == "" || c.Handler == nil || strings.ContainsAny(c.Name, " \t") {
		return errcode.InvalidParams
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.cmds[c.Name]; dup {
		return &errcode.E{C: errcode.InvalidParams, Op: "register", Msg: "duplicate command " + c.Name}
	}
	s.cmds[c.Name] = c
	return nil
}

// Lookup returns the registered command called name.
func (s *Shell) Lookup(name string) (Command, error) {
	s.mu.RLock()
	c, ok := s.cmds[name]
	s.mu.RUnlock()
	if !ok {
		return Command{}, &errcode.E{C: errcode.UnknownCommand, Op: "exec", Msg: name}
	}
	return c, nil
}

// Exec tokenises and runs one line, returning the command status. A line
// shlex cannot split (an unbalanced quote) falls back to whitespace fields.
func (s *Shell) Exec(w io.Writer, line string) int {
	argv, err := shlex.Split(line)
	if err != nil {
		argv = strings.Fields(line)
	}
	if len(argv) == 0 {
		return 0
	}
	c, err := s.Lookup(argv[0])
	if err != nil {
		fmtx.Fprintf(w, "%s: command not found\n", argv[0])
		return 1
	}
	return c.Handler(w, argv[1:])
}

func (s *Shell) help(w io.Writer, _ []string) int {
	s.mu.RLock()
	names := make([]string, 0, len(s.cmds))
	width := 0
	for n := range s.cmds {
		names = append(names, n)
		if len(n) > width {
			width = len(n)
		}
	}
	s.mu.RUnlock()
	sort.Strings(names)

	io.WriteString(w, "Available commands:\n")
	for _, n := range names {
		s.mu.RLock()
		c := s.cmds[n]
		s.mu.RUnlock()
		io.WriteString(w, "  "+n+strings.Repeat(" ", width-len(n))+"  : "+c.Help+"\n")
	}
	return 0
}

// Serve runs the read-eval loop on rw until ctx is cancelled or the reader
// fails. io.EOF ends the session cleanly.
func (s *Shell) Serve(ctx context.Context, rw io.ReadWriter) error {
	type chunk struct {
		b   []byte
		err error
	}
	in := make(chan chunk, 1)
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := rw.Read(buf)
			c := chunk{b: append([]byte(nil), buf[:n]...), err: err}
			select {
			case in <- c:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	io.WriteString(rw, s.cfg.Prompt)
	line := make([]byte, 0, maxLine)
	lastCR := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-in:
			for _, b := range c.b {
				switch b {
				case '\r', '\n':
					if b == '\n' && lastCR {
						lastCR = false
						continue
					}
					lastCR = b == '\r'
					if s.cfg.Echo {
						io.WriteString(rw, "\r\n")
					}
					s.Exec(rw, string(line))
					line = line[:0]
					io.WriteString(rw, s.cfg.Prompt)
					continue
				case 0x08, 0x7f:
					if len(line) > 0 {
						line = line[:len(line)-1]
						if s.cfg.Echo {
							io.WriteString(rw, "\b \b")
						}
					}
				default:
					if b < 0x20 || len(line) >= maxLine {
						break
					}
					line = append(line, b)
					if s.cfg.Echo {
						rw.Write([]byte{b})
					}
				}
				lastCR = false
			}
			if c.err != nil {
				if errors.Is(c.err, io.EOF) {
					return nil
				}
				return c.err
			}
		}
	}
}
