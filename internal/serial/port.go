package serial

import "time"

// Port is a raw byte channel to the remote host.
type Port interface {
	// ReadTimeout waits up to timeout for one byte. A negative timeout waits
	// forever and zero polls. ok is false when nothing arrived in time.
	ReadTimeout(timeout time.Duration) (b byte, ok bool, err error)

	// Write sends p to the device.
	Write(p []byte) (int, error)

	// Drain blocks until previously written output has been transmitted.
	Drain() error

	// SetBaud reconfigures the line rate without reopening the device.
	SetBaud(rate int) error

	// SendBreak asserts a line break.
	SendBreak() error

	// Name returns the device path.
	Name() string

	// Close releases the device.
	Close() error
}
