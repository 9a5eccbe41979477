// Package bell is the terminal's bell device. It plays a WAV file, or a
// short generated tone when no file is configured, through the system
// speaker. When no audio device is available it falls back to a caller
// supplied function, normally the console beep.
package bell

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const (
	sampleRate = beep.SampleRate(44100)

	// ToneFrequency and ToneDuration describe the generated bell.
	ToneFrequency = 1000.0
	ToneDuration  = 150 * time.Millisecond
)

// ErrUnavailable is returned by Init when no sound can be played.
var ErrUnavailable = errors.New("bell sound unavailable")

// Logger is the logging surface the bell uses.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// player abstracts the speaker so tests can capture what is played.
type player interface {
	Init() error
	Play(s beep.Streamer)
	Clear()
}

type speakerPlayer struct{}

func (speakerPlayer) Init() error {
	return speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond))
}

func (speakerPlayer) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerPlayer) Clear()               { speaker.Clear() }

// Options configure a Bell.
type Options struct {
	// Sound is a WAV file. Empty selects the generated tone.
	Sound string

	// Fallback rings when the speaker cannot be used. May be nil.
	Fallback func()

	Logger Logger
}

// Bell plays the bell sound. Ring never blocks on audio.
type Bell struct {
	mu       sync.Mutex
	opts     Options
	player   player
	sound    *beep.Buffer
	current  *beep.Ctrl
	ready    bool
	disabled bool
}

// New creates a bell. Call Init before Ring to use the speaker.
func New(opts Options) *Bell {
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Bell{opts: opts, player: speakerPlayer{}}
}

// Init opens the speaker and loads the sound. When it fails the bell
// still works through the fallback; the error is reported so the caller
// can show a notice.
func (b *Bell) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ready {
		return nil
	}
	if err := b.player.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	b.ready = true

	if b.opts.Sound == "" {
		return nil
	}
	buf, err := loadWAV(b.opts.Sound)
	if err != nil {
		b.opts.Logger.Warn("bell: using tone, cannot load %s: %v", b.opts.Sound, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	b.sound = buf
	return nil
}

// SetEnabled turns the bell on or off. A disabled bell is silent.
func (b *Bell) SetEnabled(on bool) {
	b.mu.Lock()
	b.disabled = !on
	b.mu.Unlock()
}

// Ring starts the bell sound, cutting off one still playing.
func (b *Bell) Ring() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disabled {
		return
	}
	if !b.ready {
		if b.opts.Fallback != nil {
			b.opts.Fallback()
		}
		return
	}

	b.stopLocked()
	var s beep.Streamer
	if b.sound != nil {
		s = b.sound.Streamer(0, b.sound.Len())
	} else {
		s = newTone(ToneFrequency, ToneDuration, sampleRate)
	}
	b.current = &beep.Ctrl{Streamer: s}
	b.player.Play(b.current)
}

// Stop silences the bell.
func (b *Bell) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *Bell) stopLocked() {
	if b.current == nil {
		return
	}
	speaker.Lock()
	b.current.Paused = true
	b.current.Streamer = nil
	speaker.Unlock()
	b.current = nil
}

// Close stops playback and releases the speaker.
func (b *Bell) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return
	}
	b.stopLocked()
	b.player.Clear()
	b.ready = false
}

// loadWAV decodes path into memory at the speaker's sample rate.
func loadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != sampleRate {
		src = beep.Resample(4, format.SampleRate, sampleRate, s)
	}
	format.SampleRate = sampleRate
	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}
