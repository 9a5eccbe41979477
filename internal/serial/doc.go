// Package serial provides the byte transport between the terminal and the
// remote host.
//
// The package is split in two layers:
//
//   - Port: the raw device. On Linux it is a termios-configured character
//     device opened non-blocking and polled for timed reads.
//   - Transport: the discipline the emulator relies on. It suppresses I/O
//     while offline, drains before every write, masks inbound bytes to
//     7 bits, appends to an optional activity log and applies baud changes
//     to the live device.
//
// # Reads
//
// Transport.Read takes a timeout. WaitForever blocks until a byte arrives,
// NoWait returns immediately with zero or one byte and any positive duration
// bounds the wait. Device errors are logged and reported as an empty read;
// they never reach the main loop.
//
// # Backspace echo
//
// ProbeBackspace implements the echo probe used for the physical backspace
// key: one BS goes out and up to three short reads look for the host's
// "BS SP BS" echo. The caller decides what to do with the screen.
package serial
