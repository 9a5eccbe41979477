// Package keyboard turns physical key identities into the bytes the
// terminal sends to the host.
//
// A Key below 256 is a plain byte and is sent as is. Keys from 256 up are
// special: the function keys, the colour keys, the numeric keypad and the
// three local keys (shift keypad, erase, offline) that never reach the
// wire. The Encoder picks a keypad variant from the active personality
// and keypad modes; shifted takes precedence over alternate.
//
// The Limiter drops auto-repeated keys that arrive faster than the host
// can take them.
package keyboard
