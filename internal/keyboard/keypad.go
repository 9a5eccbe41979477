package keyboard

// keypadEntry holds the five encodings of one keypad key.
type keypadEntry struct {
	plain           string
	nativeAlternate string
	ansiAlternate   string
	nativeShifted   string
	ansiShifted     string
}

// keypad is the keypad encoding table. Shifted keys send the editing
// commands printed on the keycaps.
var keypad = map[Key]keypadEntry{
	KeyPad0:     {"0", "\x1b?p", "\x1bOp", "0", "0"},
	KeyPad1:     {"1", "\x1b?q", "\x1bOq", "\x1bL", "\x1b[L"},
	KeyPad2:     {"2", "\x1b?r", "\x1bOr", "\x1bB", "\x1b[B"},
	KeyPad3:     {"3", "\x1b?s", "\x1bOs", "\x1bM", "\x1b[M"},
	KeyPad4:     {"4", "\x1b?t", "\x1bOt", "\x1bD", "\x1b[D"},
	KeyPad5:     {"5", "\x1b?u", "\x1bOu", "\x1bH", "\x1b[H"},
	KeyPad6:     {"6", "\x1b?v", "\x1bOv", "\x1bC", "\x1b[C"},
	KeyPad7:     {"7", "\x1b?w", "\x1bOw", "\x1bO", "\x1b[4l"},
	KeyPad8:     {"8", "\x1b?x", "\x1bOx", "\x1bA", "\x1b[A"},
	KeyPad9:     {"9", "\x1b?y", "\x1bOy", "\x1bN", "\x1b[P"},
	KeyPadDot:   {".", "\x1b?n", "\x1bOn", ".", "."},
	KeyPadEnter: {"\r", "\x1b?M", "\x1bOM", "\r", "\r"},
}

// functionKeys maps function and colour keys to the letter sent after
// ESC (native) or ESC O (ANSI).
var functionKeys = map[Key]byte{
	KeyF1:    'S',
	KeyF2:    'T',
	KeyF3:    'U',
	KeyF4:    'V',
	KeyF5:    'W',
	KeyBlue:  'P',
	KeyRed:   'Q',
	KeyWhite: 'R',
}
