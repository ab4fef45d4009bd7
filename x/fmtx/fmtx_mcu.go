//go:build rp2040 || rp2350

package fmtx

import (
	"io"

	"blinkdemo-go/x/conv"
)

// DefaultOutput is used by Print/Printf on MCU builds.
// Set this from the platform bootstrap (e.g. a UART writer).
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// --- Public API (signatures match fmt) ---

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Printf(format string, a ...any) (int, error) {
	return Fprintf(DefaultOutput, format, a...)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	var b builder
	b.format(format, a...)
	return w.Write(b.buf)
}

func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

func Sprint(a ...any) string {
	var b builder
	for i, v := range a {
		if i > 0 {
			b.byte(' ')
		}
		b.any(v, 'v')
	}
	return string(b.buf)
}

func Fprint(w io.Writer, a ...any) (int, error) {
	return w.Write([]byte(Sprint(a...)))
}

func Print(a ...any) (int, error) { return Fprint(DefaultOutput, a...) }

// --- Internals: tiny formatter subset ---
// Supports: %s %q %d %v %t %%. Unknown verbs are written literally.

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct {
	buf []byte
	num [20]byte
}

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) any(v any, verb rune) {
	switch x := v.(type) {
	case string:
		if verb == 'q' {
			b.quote(x)
		} else {
			b.str(x)
		}
	case []byte:
		b.str(string(x))
	case error:
		b.str(x.Error())
	case bool:
		if x {
			b.str("true")
		} else {
			b.str("false")
		}
	case int:
		b.buf = append(b.buf, conv.Itoa(b.num[:], int64(x))...)
	case int8:
		b.buf = append(b.buf, conv.Itoa(b.num[:], int64(x))...)
	case int16:
		b.buf = append(b.buf, conv.Itoa(b.num[:], int64(x))...)
	case int32:
		b.buf = append(b.buf, conv.Itoa(b.num[:], int64(x))...)
	case int64:
		b.buf = append(b.buf, conv.Itoa(b.num[:], x)...)
	case uint:
		b.buf = append(b.buf, conv.Utoa(b.num[:], uint64(x))...)
	case uint8:
		b.buf = append(b.buf, conv.Utoa(b.num[:], uint64(x))...)
	case uint16:
		b.buf = append(b.buf, conv.Utoa(b.num[:], uint64(x))...)
	case uint32:
		b.buf = append(b.buf, conv.Utoa(b.num[:], uint64(x))...)
	case uint64:
		b.buf = append(b.buf, conv.Utoa(b.num[:], x)...)
	case interface{ String() string }:
		b.str(x.String())
	default:
		b.str("<unk>")
	}
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.byte(c)
			continue
		}
		i++
		verb := rune(format[i])
		if verb == '%' {
			b.byte('%')
			continue
		}
		if ai >= len(args) {
			b.str("%!")
			b.byte(byte(verb))
			continue
		}
		arg := args[ai]
		ai++
		switch verb {
		case 's', 'q', 'd', 'v', 't':
			b.any(arg, verb)
		default:
			b.byte('%')
			b.byte(byte(verb))
		}
	}
}

func (b *builder) quote(s string) {
	b.byte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			b.byte('\\')
			b.byte(s[i])
		case '\n':
			b.str(`\n`)
		case '\r':
			b.str(`\r`)
		case '\t':
			b.str(`\t`)
		default:
			b.byte(s[i])
		}
	}
	b.byte('"')
}
