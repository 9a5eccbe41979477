// Package config holds h19term's settings and persists them.
//
// Settings live in a single TOML file (~/.h19term.toml by default):
//
//	[serial]
//	port = "/dev/ttyUSB0"
//	baud = 9600
//
//	[display]
//	colour = 0
//	palette = ["FFFFFF", "00AA00", "FFA400", "0000AA", "00AAAA", "AA00AA", "AA0000"]
//
//	[keyboard]
//	repeat_interval_ms = 90
//	repeat_threshold = 20
//
// The Store is the persisted-settings capability: every change to the
// baud rate, port or colour is written back to the file immediately.
// Environment variables (H19TERM_PORT, H19TERM_BAUD, H19TERM_COLOUR,
// H19TERM_LOG_LEVEL) override the file at load time, and a Watcher
// reports external edits so the display colour can follow them.
package config
