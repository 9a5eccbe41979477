package terminal

import (
	"bytes"
	"strconv"

	"github.com/dshills/h19term/internal/serial"
)

const (
	// ansiCommandBytes terminate an ANSI sequence.
	ansiCommandBytes = "ABCDHJKLMNPfhlmnpqrsuz"

	// ansiRejectBytes abort an ANSI sequence with no effect.
	ansiRejectBytes = "<@!$%^&*+-"
)

// csiParams is the parameter string of one ANSI sequence.
type csiParams struct {
	prefix byte // '>' or '?', 0 if none
	body   []byte
	values []int
	given  []bool
}

func parseCSI(seq []byte) (csiParams, bool) {
	var p csiParams
	if len(seq) > 0 && (seq[0] == '>' || seq[0] == '?') {
		p.prefix = seq[0]
		seq = seq[1:]
	}
	p.body = seq
	if len(seq) == 0 {
		return p, true
	}
	for _, field := range bytes.Split(seq, []byte{';'}) {
		if len(field) == 0 {
			p.values = append(p.values, 0)
			p.given = append(p.given, false)
			continue
		}
		n, err := strconv.Atoi(string(field))
		if err != nil || n < 0 {
			return p, false
		}
		p.values = append(p.values, n)
		p.given = append(p.given, true)
	}
	return p, true
}

// get returns parameter i, or def when it is missing.
func (p csiParams) get(i, def int) int {
	if i >= len(p.values) || !p.given[i] {
		return def
	}
	return p.values[i]
}

// count returns parameter i as a repeat count: missing or zero is one.
func (p csiParams) count(i int) int {
	return max(p.get(i, 1), 1)
}

// position converts a 1-based wire coordinate to a 0-based one.
func (p csiParams) position(i int) int {
	v := p.get(i, 1)
	if v > 0 {
		v--
	}
	return v
}

// ansiHandler runs one command. It returns false when the parameters are
// not ones this terminal supports, which drops the sequence.
type ansiHandler func(in *Interpreter, p csiParams) bool

var ansiCommands = map[byte]ansiHandler{
	'A': func(in *Interpreter, p csiParams) bool { in.screen.CursorUp(p.count(0)); return true },
	'B': func(in *Interpreter, p csiParams) bool { in.screen.CursorDown(p.count(0)); return true },
	'C': func(in *Interpreter, p csiParams) bool { in.screen.CursorForward(p.count(0)); return true },
	'D': func(in *Interpreter, p csiParams) bool { in.screen.CursorBackward(p.count(0)); return true },
	'H': ansiPosition,
	'f': ansiPosition,
	'J': ansiEraseDisplay,
	'K': ansiEraseLine,
	'L': func(in *Interpreter, p csiParams) bool {
		repeat(in.rowsBelow(p.count(0)), in.screen.InsertLine)
		return true
	},
	'M': func(in *Interpreter, p csiParams) bool {
		repeat(in.rowsBelow(p.count(0)), in.screen.DeleteLine)
		return true
	},
	'P': func(in *Interpreter, p csiParams) bool {
		repeat(in.colsRight(p.count(0)), in.screen.DeleteChar)
		return true
	},
	'h': func(in *Interpreter, p csiParams) bool { return in.ansiMode(p, true) },
	'l': func(in *Interpreter, p csiParams) bool { return in.ansiMode(p, false) },
	'm': ansiGraphicRendition,
	'n': func(in *Interpreter, p csiParams) bool {
		if p.get(0, 6) != 6 {
			return false
		}
		in.positionReport()
		return true
	},
	'r': ansiBaud,
	's': func(in *Interpreter, _ csiParams) bool { in.screen.SaveCursor(); return true },
	'u': func(in *Interpreter, _ csiParams) bool { in.screen.RestoreCursor(); return true },
	'z': func(in *Interpreter, _ csiParams) bool { in.Reset(); return true },

	// transmit page and transmit 25th line
	'p': func(*Interpreter, csiParams) bool { return true },
	'q': func(*Interpreter, csiParams) bool { return true },
}

// ansiEscape handles the byte after ESC in the ANSI personality.
func (in *Interpreter) ansiEscape(b byte) {
	s := in.screen
	switch b {
	case '[':
		in.seq = in.seq[:0]
		in.state = stateCSI
		return
	case 'M':
		s.ReverseLineFeed()
	case '=':
		s.SetMode(ModeKeypadAlternate, true)
	case '>':
		s.SetMode(ModeKeypadAlternate, false)
	default:
		in.drop("ansi escape", b)
		return
	}
	in.toGround()
}

// csi accumulates one byte of an ANSI sequence.
func (in *Interpreter) csi(b byte) {
	switch {
	case bytes.IndexByte([]byte(ansiRejectBytes), b) >= 0:
		in.drop("rejected byte", b)
	case b == esc:
		in.drop("escape inside sequence", b)
		in.state = stateEscape
	case b < 0x20 || b == del:
		in.drop("control inside sequence", b)
		in.ground(b)
	case bytes.IndexByte([]byte(ansiCommandBytes), b) >= 0:
		in.dispatchCSI(b)
	case b >= 0x40:
		in.drop("unsupported command", b)
	case len(in.seq) >= maxSequence:
		in.drop("sequence too long", b)
	default:
		in.seq = append(in.seq, b)
	}
}

func (in *Interpreter) dispatchCSI(b byte) {
	p, ok := parseCSI(in.seq)
	handler := ansiCommands[b]
	if !ok || handler == nil {
		in.drop("ansi parameters", b)
		return
	}
	if !handler(in, p) {
		in.drop("ansi parameters", b)
		return
	}
	in.toGround()
}

func ansiPosition(in *Interpreter, p csiParams) bool {
	if p.prefix != 0 {
		return false
	}
	if len(p.values) == 0 {
		in.screen.Home()
		return true
	}
	in.screen.SetCursor(p.position(0), p.position(1))
	return true
}

func ansiEraseDisplay(in *Interpreter, p csiParams) bool {
	if p.prefix != 0 {
		return false
	}
	switch p.get(0, 0) {
	case 0:
		in.screen.EraseToEndOfPage()
	case 1:
		in.screen.EraseToBeginningOfDisplay()
	case 2:
		in.screen.ClearDisplay()
	default:
		return false
	}
	return true
}

func ansiEraseLine(in *Interpreter, p csiParams) bool {
	if p.prefix != 0 {
		return false
	}
	switch p.get(0, 0) {
	case 0:
		in.screen.EraseToEndOfLine()
	case 1:
		in.screen.EraseToBeginningOfLine()
	case 2:
		in.screen.EraseLine()
	default:
		return false
	}
	return true
}

// ansiMode handles h (set) and l (reset). With '>' every digit selects a
// terminal mode; with '?' the parameters are 2 (ANSI personality) and
// 7 (wrap at end of line); without a prefix 2 is keyboard lock and 4 is
// insert mode. Nothing is applied unless every parameter is supported.
func (in *Interpreter) ansiMode(p csiParams, on bool) bool {
	var modes []Mode
	switch p.prefix {
	case '>':
		for _, d := range p.body {
			if d == ';' {
				continue
			}
			m, ok := ModeForDigit(d)
			if !ok {
				return false
			}
			modes = append(modes, m)
		}
	case '?':
		for i := range p.values {
			switch p.get(i, -1) {
			case 2:
				modes = append(modes, ModeANSI)
			case 7:
				modes = append(modes, ModeWrapAtEndOfLine)
			default:
				return false
			}
		}
	default:
		switch p.get(0, -1) {
		case 2:
			modes = append(modes, ModeKeyboardDisabled)
		case 4:
			modes = append(modes, ModeInsert)
		default:
			return false
		}
	}
	if len(modes) == 0 {
		return false
	}
	for _, m := range modes {
		in.screen.SetMode(m, on)
	}
	return true
}

// ansiGraphicRendition handles m: 0 normal, 7 reverse, 10 graphics on,
// 11 graphics off.
func ansiGraphicRendition(in *Interpreter, p csiParams) bool {
	if p.prefix != 0 {
		return false
	}
	type change struct {
		mode Mode
		on   bool
	}
	changes := []change{{ModeReverseVideo, false}}
	if len(p.values) > 0 {
		changes = changes[:0]
	}
	for i := range p.values {
		switch p.get(i, 0) {
		case 0:
			changes = append(changes, change{ModeReverseVideo, false})
		case 7:
			changes = append(changes, change{ModeReverseVideo, true})
		case 10:
			changes = append(changes, change{ModeGraphics, true})
		case 11:
			changes = append(changes, change{ModeGraphics, false})
		default:
			return false
		}
	}
	for _, c := range changes {
		in.screen.SetMode(c.mode, c.on)
	}
	return true
}

// ansiBaud handles r: one or two digits giving a 1-based index into the
// baud table.
func ansiBaud(in *Interpreter, p csiParams) bool {
	if p.prefix != 0 || len(p.body) == 0 || len(p.body) > 2 || len(p.values) != 1 || !p.given[0] {
		return false
	}
	rate, ok := serial.BaudAt(p.values[0] - 1)
	if !ok {
		return false
	}
	in.host.SetBaud(rate)
	return true
}

// rowsBelow limits a line count to the rows from the cursor to the
// bottom of the data area. Repeating past that changes nothing.
func (in *Interpreter) rowsBelow(n int) int {
	row := in.screen.Cursor().Row
	if row == StatusRow {
		return min(n, 1)
	}
	return min(n, lastDataRow-row+1)
}

// colsRight limits a character count to the columns from the cursor to
// the end of the row.
func (in *Interpreter) colsRight(n int) int {
	return min(n, Cols-in.screen.Cursor().Col)
}

func repeat(n int, f func()) {
	for range n {
		f()
	}
}
