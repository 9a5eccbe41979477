package display

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/h19term/internal/keyboard"
)

// specialKeys maps console keys to terminal keys. The cursor and editing
// block stands in for the numeric keypad; F6-F8 are the colour keys and
// F9-F12 are shift-keypad, keypad enter, erase and offline.
var specialKeys = map[tcell.Key]keyboard.Key{
	tcell.KeyF1:  keyboard.KeyF1,
	tcell.KeyF2:  keyboard.KeyF2,
	tcell.KeyF3:  keyboard.KeyF3,
	tcell.KeyF4:  keyboard.KeyF4,
	tcell.KeyF5:  keyboard.KeyF5,
	tcell.KeyF6:  keyboard.KeyBlue,
	tcell.KeyF7:  keyboard.KeyRed,
	tcell.KeyF8:  keyboard.KeyWhite,
	tcell.KeyF9:  keyboard.KeyShiftKeypad,
	tcell.KeyF10: keyboard.KeyPadEnter,
	tcell.KeyF11: keyboard.KeyErase,
	tcell.KeyF12: keyboard.KeyOffline,

	tcell.KeyInsert: keyboard.KeyPad0,
	tcell.KeyEnd:    keyboard.KeyPad1,
	tcell.KeyDown:   keyboard.KeyPad2,
	tcell.KeyPgDn:   keyboard.KeyPad3,
	tcell.KeyLeft:   keyboard.KeyPad4,
	tcell.KeyClear:  keyboard.KeyPad5,
	tcell.KeyRight:  keyboard.KeyPad6,
	tcell.KeyHome:   keyboard.KeyPad7,
	tcell.KeyUp:     keyboard.KeyPad8,
	tcell.KeyPgUp:   keyboard.KeyPad9,
	tcell.KeyDelete: keyboard.KeyPadDot,
}

// KeyFor converts a tcell key event. ok is false for keys the terminal
// has no equivalent of; the caller rings the bell for those.
func KeyFor(ev *tcell.EventKey) (keyboard.Key, bool) {
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			switch {
			case r >= 'a' && r <= 'z':
				return keyboard.Key(r - 'a' + 1), true
			case r >= '@' && r <= '_':
				return keyboard.Key(r - '@'), true
			}
		}
		if r < 0 || r > 0x7F {
			return 0, false
		}
		return keyboard.Key(r), true
	case k < 0x80:
		// control keys carry their ASCII code
		return keyboard.Key(k), true
	}
	key, ok := specialKeys[k]
	return key, ok
}
