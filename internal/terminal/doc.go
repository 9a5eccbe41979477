// Package terminal implements the H19 emulation core: the screen buffer
// and the escape sequence interpreter.
//
// # Screen
//
// The Screen holds 25 rows of 80 cells. Rows 0 through 23 are the data
// area and scroll as a region; row 24 is the status (25th) line and never
// scrolls. The cursor, the saved cursor and every mode flag live on the
// Screen, and all editing primitives clamp rather than wrap.
//
// Writing at column 79 follows the terminal's end-of-line policy: with
// wrap disabled the character lands in column 79 and the cursor stays
// there (discard at end of line); with wrap enabled the cursor advances
// to column 0 of the next row.
//
// # Interpreter
//
// The Interpreter consumes inbound bytes one at a time. In the native
// personality ESC is followed by a single command byte (plus argument
// bytes for a few commands). In the ANSI personality ESC '[' starts a
// parameterized sequence terminated by a command byte. Both personalities
// dispatch through tables keyed by command byte.
//
// Malformed or unsupported sequences are dropped without touching the
// screen. Sequence state survives between calls, so a sequence split
// across reads completes when the rest of it arrives.
//
// # Usage
//
//	screen := terminal.NewScreen(notifier)
//	interp := terminal.NewInterpreter(screen, host)
//	interp.Parse(data)
package terminal
