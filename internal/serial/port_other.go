//go:build !linux

package serial

import "fmt"

// Open is only implemented for Linux termios devices.
func Open(path string, baud int) (Port, error) {
	return nil, fmt.Errorf("%w: %s: serial devices are not supported on this platform", ErrTransportUnavailable, path)
}
