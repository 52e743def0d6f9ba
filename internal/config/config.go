package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Config struct {
	Addr         string
	AllowOrigins []string
	LogLevel     zerolog.Level
	LogFormat    string
	WSBufferSize int
	InitialText  string

	// AllowCredentials lets browsers send cookies cross-origin, which
	// rules out the "*" origin.
	AllowCredentials bool
}

func Default() Config {
	return Config{
		Addr:             ":3000",
		AllowOrigins:     []string{"http://localhost:5173"},
		LogLevel:         zerolog.InfoLevel,
		LogFormat:        FormatConsole,
		WSBufferSize:     1024,
		AllowCredentials: true,
	}
}

// Load reads the CHESSNOTE_* environment variables over the defaults.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("CHESSNOTE_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CHESSNOTE_ALLOW_ORIGINS"); ok && v != "" {
		cfg.AllowOrigins = cfg.AllowOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}
	if v, ok := lookup("CHESSNOTE_ALLOW_CREDENTIALS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalidConfig, "CHESSNOTE_ALLOW_CREDENTIALS %q", v)
		}
		cfg.AllowCredentials = b
	}
	if v, ok := lookup("CHESSNOTE_LOG_LEVEL"); ok && v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalidConfig, "CHESSNOTE_LOG_LEVEL %q", v)
		}
		cfg.LogLevel = level
	}
	if v, ok := lookup("CHESSNOTE_LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := lookup("CHESSNOTE_WS_BUFFER"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalidConfig, "CHESSNOTE_WS_BUFFER %q", v)
		}
		cfg.WSBufferSize = n
	}
	if v, ok := lookup("CHESSNOTE_INITIAL_TEXT"); ok {
		cfg.InitialText = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.Wrap(ErrInvalidConfig, "empty listen address")
	}
	if len(c.AllowOrigins) == 0 {
		return errors.Wrap(ErrInvalidConfig, "no allowed origins")
	}
	for _, o := range c.AllowOrigins {
		if o == "*" {
			if len(c.AllowOrigins) > 1 {
				return errors.Wrap(ErrInvalidConfig, `origin "*" mixed with other origins`)
			}
			if c.AllowCredentials {
				return errors.Wrap(ErrInvalidConfig, `origin "*" with credentials allowed`)
			}
			continue
		}
		if !validOrigin(o) {
			return errors.Wrapf(ErrInvalidConfig, "origin %q", o)
		}
	}
	if c.LogFormat != FormatConsole && c.LogFormat != FormatJSON {
		return errors.Wrapf(ErrInvalidConfig, "log format %q", c.LogFormat)
	}
	if c.WSBufferSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "websocket buffer size %d", c.WSBufferSize)
	}
	return nil
}

// validOrigin accepts scheme://host[:port], with an optional "*." subdomain
// wildcard in front of the host.
func validOrigin(origin string) bool {
	origin = strings.Replace(origin, "://*.", "://", 1)
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" || strings.Contains(u.Host, "*") {
		return false
	}
	return (u.Path == "" || u.Path == "/") && u.RawQuery == "" && u.Fragment == ""
}
