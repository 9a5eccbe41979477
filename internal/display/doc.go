// Package display draws the terminal on the host console with tcell.
//
// The layout matches the hardware: 24 data rows and the 25th (status)
// row of the emulated screen, a rule on row 25, and the emulator's own
// status line on row 26. The host console must be at least 27x80.
//
// Key events from tcell are converted to keyboard.Key identities here so
// the rest of the program never sees tcell types.
package display
