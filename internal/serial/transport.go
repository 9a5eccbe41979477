package serial

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// WaitForever makes Read block until a byte arrives.
	WaitForever time.Duration = -1

	// NoWait makes Read return immediately with zero or one byte.
	NoWait time.Duration = 0

	// EchoTimeout bounds each read of the backspace echo probe.
	EchoTimeout = 10 * time.Millisecond
)

const (
	bs    = 0x08
	space = 0x20
)

// Logger is the logging surface the transport needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// BaudSetting persists the line rate whenever it changes.
type BaudSetting interface {
	SetBaudRate(rate int) error
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Options configures a Transport.
type Options struct {
	// Baud is the rate the port was opened at.
	Baud int

	// Settings receives every baud change. Optional.
	Settings BaudSetting

	// Logger receives I/O failures. Optional.
	Logger Logger
}

// Transport is the I/O discipline between the emulator and a Port.
// It is owned by the main loop; only the offline flag may be flipped
// from elsewhere.
type Transport struct {
	port     Port
	settings BaudSetting
	log      Logger

	offline atomic.Bool
	baud    int

	logMu    sync.Mutex
	activity io.Writer
}

// NewTransport wraps port with the terminal's I/O discipline.
func NewTransport(port Port, opts Options) *Transport {
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Baud == 0 {
		opts.Baud = DefaultBaud
	}
	return &Transport{
		port:     port,
		settings: opts.Settings,
		log:      opts.Logger,
		baud:     opts.Baud,
	}
}

// Name returns the underlying device name.
func (t *Transport) Name() string {
	return t.port.Name()
}

// Offline reports whether I/O is suppressed.
func (t *Transport) Offline() bool {
	return t.offline.Load()
}

// SetOffline suppresses or resumes I/O without closing the device.
func (t *Transport) SetOffline(offline bool) {
	t.offline.Store(offline)
}

// ToggleOffline flips the offline state and returns the new value.
func (t *Transport) ToggleOffline() bool {
	for {
		old := t.offline.Load()
		if t.offline.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// SetActivityLog starts appending traffic to w, or stops when w is nil.
func (t *Transport) SetActivityLog(w io.Writer) {
	t.logMu.Lock()
	defer t.logMu.Unlock()
	t.activity = w
}

// ActivityLogging reports whether an activity log is attached.
func (t *Transport) ActivityLogging() bool {
	t.logMu.Lock()
	defer t.logMu.Unlock()
	return t.activity != nil
}

// Write drains pending output and sends p. It is a no-op while offline.
// Failures are logged and returned but are never fatal.
func (t *Transport) Write(p []byte) error {
	if t.offline.Load() || len(p) == 0 {
		return nil
	}

	if err := t.port.Drain(); err != nil {
		t.log.Warn("drain %s: %v", t.port.Name(), err)
	}

	t.record(p, true)

	if _, err := t.port.Write(p); err != nil {
		t.log.Warn("write %s: %v", t.port.Name(), err)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// WriteByte sends a single byte.
func (t *Transport) WriteByte(b byte) error {
	return t.Write([]byte{b})
}

// Read returns one inbound byte masked to 7 bits. See WaitForever and
// NoWait for the timeout sentinels. ok is false for an empty read, while
// offline, and on device errors.
func (t *Transport) Read(timeout time.Duration) (b byte, ok bool) {
	b, ok = t.ReadRaw(timeout)
	return b & 0x7F, ok
}

// ReadRaw is Read without the 7-bit mask, for binary transfers.
func (t *Transport) ReadRaw(timeout time.Duration) (byte, bool) {
	if t.offline.Load() {
		return 0, false
	}

	b, ok, err := t.port.ReadTimeout(timeout)
	if err != nil {
		t.log.Warn("read %s: %v", t.port.Name(), err)
		return 0, false
	}
	if ok {
		t.record([]byte{b}, false)
	}
	return b, ok
}

// Baud returns the current line rate.
func (t *Transport) Baud() int {
	return t.baud
}

// SetBaud applies rate to the live device and persists it.
func (t *Transport) SetBaud(rate int) error {
	if !ValidBaud(rate) {
		return fmt.Errorf("%w: %d", ErrUnsupportedBaud, rate)
	}
	if err := t.port.SetBaud(rate); err != nil {
		t.log.Warn("set baud %d on %s: %v", rate, t.port.Name(), err)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	t.baud = rate
	t.log.Debug("baud rate now %d", rate)

	if t.settings != nil {
		if err := t.settings.SetBaudRate(rate); err != nil {
			t.log.Warn("persist baud %d: %v", rate, err)
		}
	}
	return nil
}

// SendBreak asserts a line break unless offline.
func (t *Transport) SendBreak() error {
	if t.offline.Load() {
		return nil
	}
	if err := t.port.SendBreak(); err != nil {
		t.log.Warn("break %s: %v", t.port.Name(), err)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Close closes the device.
func (t *Transport) Close() error {
	return t.port.Close()
}

// record appends traffic to the activity log. Outbound bytes are
// bracketed so the two directions can be told apart.
func (t *Transport) record(p []byte, outbound bool) {
	t.logMu.Lock()
	defer t.logMu.Unlock()

	if t.activity == nil {
		return
	}

	var err error
	if outbound {
		_, err = fmt.Fprintf(t.activity, "<%s>", p)
	} else {
		_, err = t.activity.Write(p)
	}
	if err != nil {
		t.log.Warn("activity log: %v", err)
	}
}
