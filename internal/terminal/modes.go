package terminal

import "strings"

// Mode is a set of terminal mode flags.
type Mode uint32

const (
	ModeANSI Mode = 1 << iota
	ModeInsert
	ModeGraphics
	ModeReverseVideo
	ModeAutoLinefeed
	ModeAutoCarriageReturn
	ModeWrapAtEndOfLine
	ModeKeypadShifted
	ModeKeypadAlternate
	ModeEnable25thLine
	ModeHoldScreen
	ModeNoKeyClick
	ModeBlockCursor
	ModeCursorOff
	ModeKeyboardDisabled
)

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeANSI, "ansi"},
	{ModeInsert, "insert"},
	{ModeGraphics, "graphics"},
	{ModeReverseVideo, "reverse"},
	{ModeAutoLinefeed, "auto-lf"},
	{ModeAutoCarriageReturn, "auto-cr"},
	{ModeWrapAtEndOfLine, "wrap"},
	{ModeKeypadShifted, "keypad-shifted"},
	{ModeKeypadAlternate, "keypad-alternate"},
	{ModeEnable25thLine, "25th-line"},
	{ModeHoldScreen, "hold"},
	{ModeNoKeyClick, "no-click"},
	{ModeBlockCursor, "block-cursor"},
	{ModeCursorOff, "cursor-off"},
	{ModeKeyboardDisabled, "keyboard-disabled"},
}

// Has reports whether every flag in m2 is set in m.
func (m Mode) Has(m2 Mode) bool {
	return m&m2 == m2
}

// String lists the set flags, e.g. "ansi|wrap".
func (m Mode) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, mn := range modeNames {
		if m&mn.mode != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "|")
}

// modeDigits maps the digit argument of the set/reset mode commands
// (native ESC x / ESC y, ANSI ESC [ > Ps h / l) to a flag.
var modeDigits = map[byte]Mode{
	'1': ModeEnable25thLine,
	'2': ModeNoKeyClick,
	'3': ModeHoldScreen,
	'4': ModeBlockCursor,
	'5': ModeCursorOff,
	'6': ModeKeypadShifted,
	'7': ModeKeypadAlternate,
	'8': ModeAutoLinefeed,
	'9': ModeAutoCarriageReturn,
}

// ModeForDigit returns the flag selected by a set/reset mode digit.
func ModeForDigit(d byte) (Mode, bool) {
	m, ok := modeDigits[d]
	return m, ok
}

// CursorShape is how the display should draw the cursor.
type CursorShape int

const (
	CursorUnderline CursorShape = iota
	CursorBlock
	CursorHidden
)

// String returns the shape name.
func (c CursorShape) String() string {
	switch c {
	case CursorUnderline:
		return "underline"
	case CursorBlock:
		return "block"
	case CursorHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Personality is the protocol personality selected by ModeANSI.
type Personality int

const (
	Native Personality = iota
	ANSI
)

// String returns the status-line label of the personality.
func (p Personality) String() string {
	if p == ANSI {
		return "ANSI"
	}
	return "HEATH"
}
