package terminal

import (
	"github.com/dshills/h19term/internal/serial"
)

// Control bytes handled outside escape sequences.
const (
	nul = 0x00
	bel = 0x07
	bs  = 0x08
	ht  = 0x09
	lf  = 0x0A
	cr  = 0x0D
	esc = 0x1B
	del = 0x7F
)

// Host receives the interpreter's outbound effects.
type Host interface {
	// Reply sends bytes back to the remote host (position reports,
	// identify responses).
	Reply(p []byte)

	// SetBaud switches the line to rate.
	SetBaud(rate int)

	// Bell rings the bell device.
	Bell()
}

// Logger is the logging surface the interpreter uses for dropped input.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

type interpState int

const (
	stateGround interpState = iota
	stateEscape
	stateNativeArgs
	stateCSI
)

// maxSequence bounds an ANSI parameter string. Anything longer is not a
// sequence this terminal understands.
const maxSequence = 32

// Interpreter consumes inbound bytes and applies them to a Screen.
type Interpreter struct {
	screen *Screen
	host   Host
	logger Logger

	state interpState

	// native command awaiting argument bytes
	pending *nativeCommand
	args    []byte

	// ANSI bytes between '[' and the command byte
	seq []byte

	dropped int
}

// NewInterpreter creates an interpreter writing to screen and host.
func NewInterpreter(screen *Screen, host Host) *Interpreter {
	return &Interpreter{
		screen: screen,
		host:   host,
		logger: nopLogger{},
		args:   make([]byte, 0, 2),
		seq:    make([]byte, 0, maxSequence),
	}
}

// SetLogger sets the logger for dropped sequences.
func (in *Interpreter) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	in.logger = l
}

// Screen returns the screen the interpreter writes to.
func (in *Interpreter) Screen() *Screen {
	return in.screen
}

// Dropped returns the number of sequences discarded as malformed or
// unsupported.
func (in *Interpreter) Dropped() int {
	return in.dropped
}

// InSequence reports whether an escape sequence is partially received.
func (in *Interpreter) InSequence() bool {
	return in.state != stateGround
}

// Parse feeds every byte of data.
func (in *Interpreter) Parse(data []byte) {
	for _, b := range data {
		in.Feed(b)
	}
}

// Write implements io.Writer over Parse.
func (in *Interpreter) Write(p []byte) (int, error) {
	in.Parse(p)
	return len(p), nil
}

// Feed processes one inbound byte. Bytes are masked to 7 bits.
func (in *Interpreter) Feed(b byte) {
	b &= 0x7F
	switch in.state {
	case stateGround:
		in.ground(b)
	case stateEscape:
		in.escape(b)
	case stateNativeArgs:
		in.nativeArg(b)
	case stateCSI:
		in.csi(b)
	}
}

// Reset returns the terminal to power-up state and abandons any partial
// sequence.
func (in *Interpreter) Reset() {
	in.toGround()
	in.screen.Reset()
}

func (in *Interpreter) ground(b byte) {
	s := in.screen
	switch {
	case b == esc:
		in.state = stateEscape
	case b >= 0x20 && b < del:
		s.Put(b)
	case b == bel:
		in.host.Bell()
	case b == bs:
		s.Backspace()
	case b == ht:
		s.Tab()
	case b == lf:
		s.LineFeed()
	case b == cr:
		s.CarriageReturn()
	case b == nul, b == del:
		// ignored
	}
}

func (in *Interpreter) escape(b byte) {
	if in.screen.Has(ModeANSI) {
		in.ansiEscape(b)
		return
	}
	in.nativeEscape(b)
}

func (in *Interpreter) toGround() {
	in.state = stateGround
	in.pending = nil
	in.args = in.args[:0]
	in.seq = in.seq[:0]
}

// drop discards the sequence in progress.
func (in *Interpreter) drop(reason string, b byte) {
	in.dropped++
	in.logger.Debug("dropped sequence (%s) at 0x%02X", reason, b)
	in.toGround()
}

// positionReport sends the cursor position in the active personality's
// form: native ESC Y col row, ANSI ESC [ col ; row R, both biased by 32.
func (in *Interpreter) positionReport() {
	c := in.screen.Cursor()
	row, col := byte(c.Row+32), byte(c.Col+32)
	if in.screen.Has(ModeANSI) {
		in.host.Reply([]byte{esc, '[', col, ';', row, 'R'})
		return
	}
	in.host.Reply([]byte{esc, 'Y', col, row})
}

func (in *Interpreter) setBaudIndex(i int, b byte) {
	rate, ok := serial.BaudAt(i)
	if !ok {
		in.drop("baud index", b)
		return
	}
	in.host.SetBaud(rate)
}

// setModeDigit applies one set/reset mode digit. Non-digits are ignored.
func (in *Interpreter) setModeDigit(d byte, on bool) bool {
	m, ok := ModeForDigit(d)
	if !ok {
		return false
	}
	in.screen.SetMode(m, on)
	return true
}
