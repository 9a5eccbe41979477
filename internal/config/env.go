package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/h19term/internal/serial"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "H19TERM_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg from the process environment.
func ApplyEnv(cfg *Config) error {
	return ApplyEnvFrom(cfg, os.LookupEnv)
}

// ApplyEnvFrom overrides cfg using lookup. Recognised variables are
// H19TERM_PORT, H19TERM_BAUD, H19TERM_COLOUR and H19TERM_LOG_LEVEL.
func ApplyEnvFrom(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		cfg.Serial.Port = v
	}
	if v, ok := lookup(EnvPrefix + "BAUD"); ok && v != "" {
		rate, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || !serial.ValidBaud(rate) {
			return fmt.Errorf("%w: %sBAUD=%q", ErrInvalidEnv, EnvPrefix, v)
		}
		cfg.Serial.Baud = rate
	}
	if v, ok := lookup(EnvPrefix + "COLOUR"); ok && v != "" {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || i < 0 || i >= len(cfg.Display.Palette) {
			return fmt.Errorf("%w: %sCOLOUR=%q", ErrInvalidEnv, EnvPrefix, v)
		}
		cfg.Display.Colour = i
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}
