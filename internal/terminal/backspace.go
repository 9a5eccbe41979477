package terminal

import "github.com/dshills/h19term/internal/serial"

// ApplyEcho applies the outcome of a backspace echo probe. A full
// BS SP BS echo erases the cell left of the cursor; an echo that starts
// with BS and then deviates only moves the cursor left. A stray byte
// that arrived in place of the echo is interpreted like any other
// inbound byte, since it may start an escape sequence.
func (in *Interpreter) ApplyEcho(e serial.Echo) {
	switch e.Result {
	case serial.EchoErase:
		in.screen.Backspace()
	case serial.EchoPartial:
		in.screen.CursorBackward(1)
	}
	if e.Stray {
		in.Feed(e.Byte)
	}
}
