package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/h19term/internal/notify"
	"github.com/dshills/h19term/internal/serial"
)

// Store owns the settings file. Reads return the in-memory value; every
// setter writes the whole file back before returning.
type Store struct {
	mu       sync.RWMutex
	path     string
	cfg      Config
	notifier *notify.Notifier
}

// Load reads path into a Store. A missing file yields the defaults and is
// created on the first change.
func Load(path string) (*Store, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg}, nil
}

// NewStore wraps an already-built Config. Nothing is read from path.
func NewStore(path string, cfg Config) *Store {
	cfg.fillDefaults()
	return &Store{path: path, cfg: cfg}
}

// ReadFile parses a settings file, filling defaults for missing keys.
func ReadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := Parse(path, data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Parse decodes TOML data into cfg. path is only used in errors.
func Parse(path string, data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		pe := &ParseError{Path: path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}
	return nil
}

// SetNotifier publishes setting changes to n.
func (s *Store) SetNotifier(n *notify.Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Config returns a copy of the current settings.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.cfg
	c.Display.Palette = append([]string(nil), s.cfg.Display.Palette...)
	return c
}

// BaudRate returns the persisted line rate.
func (s *Store) BaudRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Serial.Baud
}

// SetBaudRate persists rate. Rates outside the baud table are rejected.
func (s *Store) SetBaudRate(rate int) error {
	if !serial.ValidBaud(rate) {
		return fmt.Errorf("%w: %d", ErrInvalidBaud, rate)
	}
	return s.update(notify.TopicBaud, rate, func(c *Config) { c.Serial.Baud = rate })
}

// Colour returns the persisted palette index.
func (s *Store) Colour() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Display.Colour
}

// SetColour persists a palette index.
func (s *Store) SetColour(index int) error {
	s.mu.RLock()
	n := len(s.cfg.Display.Palette)
	s.mu.RUnlock()
	if index < 0 || index >= n {
		return fmt.Errorf("%w: index %d", ErrInvalidColour, index)
	}
	return s.update(notify.TopicColour, index, func(c *Config) { c.Display.Colour = index })
}

// NextColour advances to the next palette entry, wrapping at the end.
func (s *Store) NextColour() (int, error) {
	s.mu.RLock()
	next := (s.cfg.Display.Colour + 1) % len(s.cfg.Display.Palette)
	s.mu.RUnlock()
	return next, s.SetColour(next)
}

// Reload re-reads the file and publishes the colour if it changed.
func (s *Store) Reload() error {
	cfg, err := ReadFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	changed := cfg.Display.Colour != s.cfg.Display.Colour
	s.cfg = cfg
	n := s.notifier
	s.mu.Unlock()
	if changed {
		n.Publish(notify.TopicColour, cfg.Display.Colour, "config")
	}
	return nil
}

func (s *Store) update(topic string, value any, apply func(*Config)) error {
	s.mu.Lock()
	prev := s.cfg
	apply(&s.cfg)
	if err := writeFile(s.path, &s.cfg); err != nil {
		s.cfg = prev
		s.mu.Unlock()
		return err
	}
	n := s.notifier
	s.mu.Unlock()
	n.Publish(topic, value, "config")
	return nil
}

// writeFile replaces path atomically with cfg.
func writeFile(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".h19term-*.toml")
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("save settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("save settings: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
