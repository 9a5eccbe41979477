package xmodem

import (
	"errors"
	"fmt"
)

// ErrProtocol is the root of every transfer failure. A failed transfer
// aborts only itself.
var ErrProtocol = errors.New("transfer protocol error")

// Specific transfer failures. All of them match ErrProtocol with errors.Is.
var (
	ErrHandshakeTimeout = fmt.Errorf("%w: receiver never sent NAK", ErrProtocol)
	ErrReplyTimeout     = fmt.Errorf("%w: no reply to block", ErrProtocol)
	ErrUnexpectedReply  = fmt.Errorf("%w: unexpected reply", ErrProtocol)
	ErrTooManyRetries   = fmt.Errorf("%w: too many retransmissions", ErrProtocol)
	ErrCancelled        = fmt.Errorf("%w: transfer cancelled", ErrProtocol)
)

// TransferError records where a transfer failed.
type TransferError struct {
	Session string // session identifier
	State   State  // state the sender was in
	Block   int    // 1-based block count, 0 before the first block
	Reply   byte   // offending reply byte, if any
	Err     error  // underlying error
}

func (e *TransferError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("xmodem %s: %s", e.Session, e.State)
	if e.Block > 0 {
		msg += fmt.Sprintf(" block %d", e.Block)
	}
	if errors.Is(e.Err, ErrUnexpectedReply) {
		msg += fmt.Sprintf(" reply 0x%02X", e.Reply)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransferError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
