package terminal

// nativeCommand is one entry of the native command table. args is the
// number of argument bytes that follow the command byte.
type nativeCommand struct {
	args int
	run  func(in *Interpreter, args []byte)
}

func screenOp(f func(*Screen)) nativeCommand {
	return nativeCommand{run: func(in *Interpreter, _ []byte) { f(in.screen) }}
}

func modeOp(m Mode, on bool) nativeCommand {
	return nativeCommand{run: func(in *Interpreter, _ []byte) { in.screen.SetMode(m, on) }}
}

// nop is a command that is recognised and has no effect.
var nop = nativeCommand{run: func(*Interpreter, []byte) {}}

// nativeCommands maps the byte after ESC to its operation.
var nativeCommands = map[byte]nativeCommand{
	// cursor
	'A': screenOp(func(s *Screen) { s.CursorUp(1) }),
	'B': screenOp(func(s *Screen) { s.CursorDown(1) }),
	'C': screenOp(func(s *Screen) { s.CursorForward(1) }),
	'D': screenOp(func(s *Screen) { s.CursorBackward(1) }),
	'H': screenOp((*Screen).Home),
	'I': screenOp((*Screen).ReverseLineFeed),
	'Y': {args: 2, run: func(in *Interpreter, a []byte) {
		in.screen.SetCursor(int(a[0])-32, int(a[1])-32)
	}},
	'j': screenOp((*Screen).SaveCursor),
	'k': screenOp((*Screen).RestoreCursor),
	'n': {run: func(in *Interpreter, _ []byte) { in.positionReport() }},

	// erasing and editing
	'E': screenOp((*Screen).ClearDisplay),
	'b': screenOp((*Screen).EraseToBeginningOfDisplay),
	'J': screenOp((*Screen).EraseToEndOfPage),
	'l': screenOp((*Screen).EraseLine),
	'o': screenOp((*Screen).EraseToBeginningOfLine),
	'K': screenOp((*Screen).EraseToEndOfLine),
	'L': screenOp((*Screen).InsertLine),
	'M': screenOp((*Screen).DeleteLine),
	'N': screenOp((*Screen).DeleteChar),
	'@': modeOp(ModeInsert, true),
	'O': modeOp(ModeInsert, false),

	// modes
	'F':  modeOp(ModeGraphics, true),
	'G':  modeOp(ModeGraphics, false),
	'p':  modeOp(ModeReverseVideo, true),
	'q':  modeOp(ModeReverseVideo, false),
	't':  modeOp(ModeKeypadShifted, true),
	'u':  modeOp(ModeKeypadShifted, false),
	'=':  modeOp(ModeKeypadAlternate, true),
	'>':  modeOp(ModeKeypadAlternate, false),
	'v':  modeOp(ModeWrapAtEndOfLine, true),
	'w':  modeOp(ModeWrapAtEndOfLine, false),
	'[':  modeOp(ModeHoldScreen, true),
	'\\': modeOp(ModeHoldScreen, false),
	'{':  modeOp(ModeKeyboardDisabled, false),
	'}':  modeOp(ModeKeyboardDisabled, true),
	'<':  modeOp(ModeANSI, true),
	'x':  {args: 1, run: func(in *Interpreter, a []byte) { in.nativeMode(a[0], true) }},
	'y':  {args: 1, run: func(in *Interpreter, a []byte) { in.nativeMode(a[0], false) }},

	// line and configuration
	'r': {args: 1, run: func(in *Interpreter, a []byte) { in.setBaudIndex(int(a[0])-'A', a[0]) }},
	'z': {run: func(in *Interpreter, _ []byte) { in.Reset() }},
	'Z': {run: func(in *Interpreter, _ []byte) { in.host.Reply([]byte{esc, '/', 'K'}) }},

	// transmit page and transmit 25th line
	'#': nop,
	']': nop,
}

func (in *Interpreter) nativeEscape(b byte) {
	cmd, ok := nativeCommands[b]
	if !ok {
		in.drop("native command", b)
		return
	}
	if cmd.args == 0 {
		in.toGround()
		cmd.run(in, nil)
		return
	}
	in.pending = &cmd
	in.args = in.args[:0]
	in.state = stateNativeArgs
}

func (in *Interpreter) nativeArg(b byte) {
	in.args = append(in.args, b)
	if len(in.args) < in.pending.args {
		return
	}
	cmd := in.pending
	args := append([]byte(nil), in.args...)
	in.toGround()
	cmd.run(in, args)
}

func (in *Interpreter) nativeMode(d byte, on bool) {
	if !in.setModeDigit(d, on) {
		in.dropped++
		in.logger.Debug("dropped mode digit 0x%02X", d)
	}
}
