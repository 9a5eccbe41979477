package keyboard

import "fmt"

// Key is a physical key identity. Values 0-255 are byte keys.
type Key int

// MaxByteKey is the largest key that is sent verbatim.
const MaxByteKey Key = 255

// Special keys.
const (
	KeyF1 Key = iota + 256
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyBlue
	KeyRed
	KeyWhite
	KeyShiftKeypad
	KeyErase
	KeyOffline

	KeyPad0
	KeyPad1
	KeyPad2
	KeyPad3
	KeyPad4
	KeyPad5
	KeyPad6
	KeyPad7
	KeyPad8
	KeyPad9
	KeyPadDot
	KeyPadEnter

	// keyLast is one past the last defined special key.
	keyLast
)

var keyNames = map[Key]string{
	KeyF1:          "F1",
	KeyF2:          "F2",
	KeyF3:          "F3",
	KeyF4:          "F4",
	KeyF5:          "F5",
	KeyBlue:        "Blue",
	KeyRed:         "Red",
	KeyWhite:       "White",
	KeyShiftKeypad: "ShiftKeypad",
	KeyErase:       "Erase",
	KeyOffline:     "Offline",
	KeyPad0:        "Pad0",
	KeyPad1:        "Pad1",
	KeyPad2:        "Pad2",
	KeyPad3:        "Pad3",
	KeyPad4:        "Pad4",
	KeyPad5:        "Pad5",
	KeyPad6:        "Pad6",
	KeyPad7:        "Pad7",
	KeyPad8:        "Pad8",
	KeyPad9:        "Pad9",
	KeyPadDot:      "PadDot",
	KeyPadEnter:    "PadEnter",
}

// IsByte reports whether k is a plain byte key.
func (k Key) IsByte() bool {
	return k >= 0 && k <= MaxByteKey
}

// String returns a readable key name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	switch {
	case k >= 0x20 && k < 0x7F:
		return fmt.Sprintf("'%c'", rune(k))
	case k >= 0 && k < 0x20:
		return fmt.Sprintf("Ctrl-%c", rune(k+'@'))
	case k.IsByte():
		return fmt.Sprintf("0x%02X", int(k))
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}
