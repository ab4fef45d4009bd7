package config

import (
	"context"

	"github.com/valyala/fastjson"

	"blinkdemo-go/bus"
	"blinkdemo-go/errcode"
	"blinkdemo-go/types"
	"blinkdemo-go/x/mathx"
	"blinkdemo-go/x/strx"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

const (
	DefaultPeriodMS = 1000
	MinPeriodMS     = 50
	MaxPeriodMS     = 60000

	DefaultBaud = 115200
	MinBaud     = 1200
	MaxBaud     = 921600

	DefaultPrompt = "uart:~$ "
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Load decodes the embedded config of device into a typed Config with
// defaults filled in and numeric values clamped to their valid ranges.
func Load(device string) (types.Config, error) {
	var cfg types.Config
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return cfg, &errcode.E{C: errcode.InvalidConfig, Op: "config.load", Msg: "no embedded config for device: " + device}
	}
	var p fastjson.Parser
	v, err := p.ParseBytes(raw)
	if err != nil {
		return cfg, errcode.Wrap(errcode.InvalidConfig, "config.load", err)
	}
	for _, f := range []struct {
		path []string
		want fastjson.Type
	}{
		{[]string{"blink", "led"}, fastjson.TypeString},
		{[]string{"blink", "period_ms"}, fastjson.TypeNumber},
		{[]string{"shell", "prompt"}, fastjson.TypeString},
		{[]string{"console", "baud"}, fastjson.TypeNumber},
	} {
		if x := v.Get(f.path...); x != nil && x.Type() != f.want {
			return cfg, &errcode.E{C: errcode.InvalidConfig, Op: "config.load", Msg: "wrong type for " + f.path[0] + "." + f.path[1]}
		}
	}

	cfg.Blink.LED = string(v.GetStringBytes("blink", "led"))
	cfg.Blink.PeriodMS = v.GetInt("blink", "period_ms")
	cfg.Shell.Prompt = string(v.GetStringBytes("shell", "prompt"))
	cfg.Shell.Echo = v.GetBool("shell", "echo")
	cfg.Console.Baud = v.GetInt("console", "baud")
	return Normalise(cfg), nil
}

// Normalise fills zero values with defaults and clamps the rest.
func Normalise(cfg types.Config) types.Config {
	cfg.Blink.LED = strx.Coalesce(cfg.Blink.LED, "led0")
	if cfg.Blink.PeriodMS <= 0 {
		cfg.Blink.PeriodMS = DefaultPeriodMS
	}
	cfg.Blink.PeriodMS = mathx.Clamp(cfg.Blink.PeriodMS, MinPeriodMS, MaxPeriodMS)

	cfg.Shell.Prompt = strx.Coalesce(cfg.Shell.Prompt, DefaultPrompt)

	if cfg.Console.Baud <= 0 {
		cfg.Console.Baud = DefaultBaud
	}
	cfg.Console.Baud = mathx.Clamp(cfg.Console.Baud, MinBaud, MaxBaud)
	return cfg
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Publish reads the device config from embedded data and publishes each
// top-level section as a retained message on config/<section>.
func (s *ConfigService) Publish(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.publish", Msg: "missing device ID in context"}
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.publish", Msg: "no embedded config for device: " + device}
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(raw)
	if err != nil {
		return errcode.Wrap(errcode.InvalidConfig, "config.publish", err)
	}
	obj, err := v.Object()
	if err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.publish", Msg: "embedded config is not a JSON object"}
	}

	obj.Visit(func(k []byte, sec *fastjson.Value) {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, string(k)), toAny(sec), true))
	})
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		_ = s.Publish(ctx, conn)
	}()
}

// toAny converts a parsed value to the loose bus form: objects become
// map[string]any, arrays []any, numbers float64.
func toAny(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		m := make(map[string]any, o.Len())
		o.Visit(func(k []byte, x *fastjson.Value) { m[string(k)] = toAny(x) })
		return m
	case fastjson.TypeArray:
		xs, _ := v.Array()
		out := make([]any, 0, len(xs))
		for _, x := range xs {
			out = append(out, toAny(x))
		}
		return out
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
