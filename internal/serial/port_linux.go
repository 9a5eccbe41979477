//go:build linux

package serial

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// standardSpeeds maps table rates to their termios speed codes. Rates
// without a code use BOTHER with an explicit speed.
var standardSpeeds = map[int]uint32{
	110:   unix.B110,
	150:   unix.B150,
	300:   unix.B300,
	600:   unix.B600,
	1200:  unix.B1200,
	1800:  unix.B1800,
	2400:  unix.B2400,
	4800:  unix.B4800,
	9600:  unix.B9600,
	19200: unix.B19200,
	38400: unix.B38400,
}

// ttyPort implements Port on a Linux character device.
type ttyPort struct {
	mu     sync.Mutex
	fd     int
	path   string
	closed bool
	buf    [1]byte
}

// Open opens and configures the serial device at path for raw 8N1 I/O
// with XON/XOFF flow control at the given rate.
func Open(path string, baud int) (Port, error) {
	if !ValidBaud(baud) {
		return nil, fmt.Errorf("%w: %s: %w %d", ErrTransportUnavailable, path, ErrUnsupportedBaud, baud)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransportUnavailable, path, err)
	}

	p := &ttyPort{fd: fd, path: path}
	if err := p.configure(baud); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: %w", ErrTransportUnavailable, path, err)
	}
	return p, nil
}

func (p *ttyPort) configure(baud int) error {
	t, err := unix.IoctlGetTermios(p.fd, unix.TCGETS2)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL
	t.Iflag |= unix.IXON | unix.IXOFF
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	setSpeed(t, baud)

	return unix.IoctlSetTermios(p.fd, unix.TCSETS2, t)
}

func setSpeed(t *unix.Termios, baud int) {
	t.Cflag &^= unix.CBAUD
	if code, ok := standardSpeeds[baud]; ok {
		t.Cflag |= code
	} else {
		t.Cflag |= unix.BOTHER
	}
	t.Ispeed = uint32(baud)
	t.Ospeed = uint32(baud)
}

func (p *ttyPort) Name() string {
	return p.path
}

func (p *ttyPort) ReadTimeout(timeout time.Duration) (byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, false, ErrPortClosed
	}

	ready, err := p.poll(unix.POLLIN, timeout)
	if err != nil || !ready {
		return 0, false, err
	}

	n, err := unix.Read(p.fd, p.buf[:])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return p.buf[0], true, nil
}

func (p *ttyPort) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	written := 0
	for written < len(data) {
		n, err := unix.Write(p.fd, data[written:])
		if n > 0 {
			written += n
		}
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				if _, perr := p.poll(unix.POLLOUT, -1); perr != nil {
					return written, perr
				}
				continue
			}
			return written, err
		}
	}
	return written, nil
}

// poll waits for events on the descriptor. Interrupted waits are retried.
func (p *ttyPort) poll(events int16, timeout time.Duration) (bool, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
		if timeout > 0 && ms == 0 {
			ms = 1
		}
	}

	fds := []unix.PollFd{{Fd: int32(p.fd), Events: events}}
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0 && fds[0].Revents&events != 0, nil
	}
}

func (p *ttyPort) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	// TCSBRK with a non-zero argument is tcdrain.
	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 1)
}

func (p *ttyPort) SetBaud(rate int) error {
	if !ValidBaud(rate) {
		return fmt.Errorf("%w: %d", ErrUnsupportedBaud, rate)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}

	t, err := unix.IoctlGetTermios(p.fd, unix.TCGETS2)
	if err != nil {
		return err
	}
	setSpeed(t, rate)
	return unix.IoctlSetTermios(p.fd, unix.TCSETS2, t)
}

func (p *ttyPort) SendBreak() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 0)
}

func (p *ttyPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return unix.Close(p.fd)
}
