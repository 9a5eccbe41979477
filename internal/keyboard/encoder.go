package keyboard

// Action is what the caller must do with an encoded key.
type Action int

const (
	// ActionSend means write Result.Bytes to the host.
	ActionSend Action = iota

	// ActionToggleShift means flip keypad shifted mode.
	ActionToggleShift

	// ActionErase means erase to end of page locally.
	ActionErase

	// ActionToggleOffline means flip the offline state.
	ActionToggleOffline

	// ActionBell means the key has no encoding; ring the bell.
	ActionBell
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionSend:
		return "send"
	case ActionToggleShift:
		return "toggle-shift"
	case ActionErase:
		return "erase"
	case ActionToggleOffline:
		return "toggle-offline"
	case ActionBell:
		return "bell"
	default:
		return "unknown"
	}
}

// State is the part of the terminal mode that affects key encoding.
type State struct {
	ANSI      bool
	Shifted   bool
	Alternate bool
}

// Result is an encoded key.
type Result struct {
	Action Action
	Bytes  []byte
}

// Encode returns the bytes key sends in state st, or the local action it
// triggers instead.
func Encode(key Key, st State) Result {
	switch key {
	case KeyShiftKeypad:
		return Result{Action: ActionToggleShift}
	case KeyErase:
		return Result{Action: ActionErase}
	case KeyOffline:
		return Result{Action: ActionToggleOffline}
	}

	if letter, ok := functionKeys[key]; ok {
		if st.ANSI {
			return send(0x1b, 'O', letter)
		}
		return send(0x1b, letter)
	}

	if e, ok := keypad[key]; ok {
		return sendString(keypadBytes(e, st))
	}

	if key.IsByte() {
		return send(byte(key))
	}
	return Result{Action: ActionBell}
}

func keypadBytes(e keypadEntry, st State) string {
	switch {
	case st.Shifted && st.ANSI:
		return e.ansiShifted
	case st.Shifted:
		return e.nativeShifted
	case st.Alternate && st.ANSI:
		return e.ansiAlternate
	case st.Alternate:
		return e.nativeAlternate
	default:
		return e.plain
	}
}

func send(b ...byte) Result {
	return Result{Action: ActionSend, Bytes: b}
}

func sendString(s string) Result {
	return Result{Action: ActionSend, Bytes: []byte(s)}
}
