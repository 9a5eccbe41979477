package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/h19term/internal/serial"
)

// FileName is the default settings file name in the home directory.
const FileName = ".h19term.toml"

// Config is the complete settings value. It is owned by the process and
// handed to components at construction.
type Config struct {
	Serial   SerialConfig   `toml:"serial"`
	Display  DisplayConfig  `toml:"display"`
	Keyboard KeyboardConfig `toml:"keyboard"`
	Bell     BellConfig     `toml:"bell"`
	Log      LogConfig      `toml:"log"`
	Transfer TransferConfig `toml:"transfer"`
	AutoDate AutoDateConfig `toml:"autodate"`
}

// SerialConfig selects the line.
type SerialConfig struct {
	Port string `toml:"port"`
	Baud int    `toml:"baud"`
}

// DisplayConfig selects the text colour.
type DisplayConfig struct {
	// Colour indexes Palette.
	Colour int `toml:"colour"`
	// Palette holds RRGGBB hex colours.
	Palette []string `toml:"palette"`
	// HelpFile replaces the built-in command key help when set.
	HelpFile string `toml:"help_file"`
}

// KeyboardConfig tunes the auto-repeat limiter.
type KeyboardConfig struct {
	RepeatIntervalMS int `toml:"repeat_interval_ms"`
	RepeatThreshold  int `toml:"repeat_threshold"`
}

// BellConfig selects the bell sound. An empty Sound plays a generated tone.
type BellConfig struct {
	Sound   string `toml:"sound"`
	Enabled bool   `toml:"enabled"`
}

// LogConfig controls the debug log and the serial activity log.
type LogConfig struct {
	Level        string `toml:"level"`
	DebugFile    string `toml:"debug_file"`
	ActivityFile string `toml:"activity_file"`
}

// TransferConfig controls the block-transfer sender.
type TransferConfig struct {
	UploadFile string `toml:"upload_file"`
}

// AutoDateConfig controls answering date prompts while the host boots.
type AutoDateConfig struct {
	CPM            bool   `toml:"cpm"`
	HDOS           bool   `toml:"hdos"`
	CPMDatePrompt  string `toml:"cpm_date_prompt"`
	CPMTimePrompt  string `toml:"cpm_time_prompt"`
	HDOSDatePrompt string `toml:"hdos_date_pattern"`
}

// DefaultPalette is white, green, yellow, blue, cyan, magenta, red.
var DefaultPalette = []string{"FFFFFF", "00AA00", "FFA400", "0000AA", "00AAAA", "AA00AA", "AA0000"}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Serial: SerialConfig{
			Port: "/dev/ttyUSB0",
			Baud: serial.DefaultBaud,
		},
		Display: DisplayConfig{
			Palette: append([]string(nil), DefaultPalette...),
		},
		Keyboard: KeyboardConfig{
			RepeatIntervalMS: 90,
			RepeatThreshold:  20,
		},
		Bell: BellConfig{Enabled: true},
		Log: LogConfig{
			Level:        "info",
			DebugFile:    "h19term-debug.log",
			ActivityFile: "h19term.log",
		},
		AutoDate: AutoDateConfig{
			CPMDatePrompt:  "Enter today's date (MM/DD/YY): ",
			CPMTimePrompt:  "Enter the time (HH:MM:SS): ",
			HDOSDatePrompt: `^Date.(\d\d-\w\w\w-\d\d)?.`,
		},
	}
}

// DefaultPath returns ~/.h19term.toml, or the file name alone when the
// home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// RepeatInterval returns the key repeat interval.
func (c *Config) RepeatInterval() time.Duration {
	return time.Duration(c.Keyboard.RepeatIntervalMS) * time.Millisecond
}

// Validate checks the settings the terminal cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Serial.Port) == "" {
		return ErrInvalidPort
	}
	if !serial.ValidBaud(c.Serial.Baud) {
		return fmt.Errorf("%w: %d", ErrInvalidBaud, c.Serial.Baud)
	}
	if len(c.Display.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidColour)
	}
	for i, hex := range c.Display.Palette {
		if err := checkColour(hex); err != nil {
			return fmt.Errorf("palette entry %d: %w", i, err)
		}
	}
	if c.Display.Colour < 0 || c.Display.Colour >= len(c.Display.Palette) {
		return fmt.Errorf("%w: index %d", ErrInvalidColour, c.Display.Colour)
	}
	return nil
}

// checkColour accepts an RRGGBB hex colour, with or without a leading '#'.
func checkColour(hex string) error {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if _, err := colorful.Hex(hex); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColour, hex)
	}
	return nil
}

// fillDefaults replaces zero values left by a partial file.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Serial.Port == "" {
		c.Serial.Port = d.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = d.Serial.Baud
	}
	if len(c.Display.Palette) == 0 {
		c.Display.Palette = d.Display.Palette
	}
	if c.Keyboard.RepeatIntervalMS <= 0 {
		c.Keyboard.RepeatIntervalMS = d.Keyboard.RepeatIntervalMS
	}
	if c.Keyboard.RepeatThreshold <= 0 {
		c.Keyboard.RepeatThreshold = d.Keyboard.RepeatThreshold
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.DebugFile == "" {
		c.Log.DebugFile = d.Log.DebugFile
	}
	if c.Log.ActivityFile == "" {
		c.Log.ActivityFile = d.Log.ActivityFile
	}
	if c.AutoDate.CPMDatePrompt == "" {
		c.AutoDate.CPMDatePrompt = d.AutoDate.CPMDatePrompt
	}
	if c.AutoDate.CPMTimePrompt == "" {
		c.AutoDate.CPMTimePrompt = d.AutoDate.CPMTimePrompt
	}
	if c.AutoDate.HDOSDatePrompt == "" {
		c.AutoDate.HDOSDatePrompt = d.AutoDate.HDOSDatePrompt
	}
}
