package serial

import "errors"

// Sentinel errors for the serial package.
var (
	// ErrTransportUnavailable is returned when the device cannot be opened or configured.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrIO wraps a transient device read or write failure.
	ErrIO = errors.New("transport I/O error")

	// ErrUnsupportedBaud is returned for a rate that is not in BaudRates.
	ErrUnsupportedBaud = errors.New("unsupported baud rate")

	// ErrPortClosed is returned when operations are attempted on a closed port.
	ErrPortClosed = errors.New("port is closed")
)
