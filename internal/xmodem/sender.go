package xmodem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// State is a sender state.
type State int

const (
	StateIdle State = iota
	StateWaitForNAK
	StateSendBlock
	StateAwaitReply
	StateDone
	StateAborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitForNAK:
		return "wait-for-nak"
	case StateSendBlock:
		return "send-block"
	case StateAwaitReply:
		return "await-reply"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Channel is the byte link a transfer runs over. serial.Transport
// satisfies it.
type Channel interface {
	// ReadRaw waits up to timeout for one unmasked byte.
	ReadRaw(timeout time.Duration) (byte, bool)

	// Write sends p.
	Write(p []byte) error
}

// Logger is the logging surface the sender needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Progress is reported after every acknowledged block.
type Progress struct {
	Session string
	Blocks  int
	Bytes   int64
}

// Options configures a Sender.
type Options struct {
	// HandshakeTimeout bounds each wait for the initial NAK (default 1s).
	HandshakeTimeout time.Duration

	// HandshakeAttempts bounds the number of NAK waits (default 60).
	HandshakeAttempts int

	// ReplyTimeout bounds the wait for a block reply (default 10s).
	ReplyTimeout time.Duration

	// MaxRetries bounds consecutive NAKs for one block (default 10).
	MaxRetries int

	// Logger receives transfer events. Optional.
	Logger Logger

	// OnProgress is called after every acknowledged block. Optional.
	OnProgress func(Progress)
}

func (o *Options) applyDefaults() {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = time.Second
	}
	if o.HandshakeAttempts <= 0 {
		o.HandshakeAttempts = 60
	}
	if o.ReplyTimeout <= 0 {
		o.ReplyTimeout = 10 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 10
	}
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
}

// Result summarizes a finished transfer.
type Result struct {
	Session  string
	Blocks   int
	Bytes    int64
	Retries  int
	Duration time.Duration
}

// Sender sends files over a Channel.
type Sender struct {
	ch   Channel
	opts Options
}

// NewSender creates a sender on ch.
func NewSender(ch Channel, opts Options) *Sender {
	opts.applyDefaults()
	return &Sender{ch: ch, opts: opts}
}

// SendFile opens path and sends it.
func (s *Sender) SendFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return s.Send(ctx, f)
}

// Send runs one transfer of r to completion or abort. It blocks; the
// caller must not interleave other traffic on the channel.
func (s *Sender) Send(ctx context.Context, r io.Reader) (Result, error) {
	sess := &session{
		id:    uuid.New().String(),
		r:     r,
		seq:   1,
		state: StateIdle,
		start: time.Now(),
	}
	s.opts.Logger.Info("xmodem %s: waiting for receiver", sess.id)

	err := s.run(ctx, sess)
	res := Result{
		Session:  sess.id,
		Blocks:   sess.blocks,
		Bytes:    sess.bytes,
		Retries:  sess.retries,
		Duration: time.Since(sess.start),
	}
	if err != nil {
		sess.state = StateAborted
		s.opts.Logger.Warn("%v", err)
		return res, err
	}

	sess.state = StateDone
	s.opts.Logger.Info("xmodem %s: sent %d blocks (%d bytes) in %s", sess.id, res.Blocks, res.Bytes, res.Duration.Round(time.Millisecond))
	return res, nil
}

// session is the state of one transfer.
type session struct {
	id      string
	r       io.Reader
	seq     byte
	block   Block
	state   State
	blocks  int
	bytes   int64
	retries int
	start   time.Time
	buf     [BlockSize]byte
}

func (s *Sender) run(ctx context.Context, sess *session) error {
	sess.state = StateWaitForNAK
	if err := s.awaitNAK(ctx, sess); err != nil {
		return err
	}

	for {
		n, last, err := sess.next()
		if err != nil {
			return s.fail(sess, 0, fmt.Errorf("read source: %w", err))
		}
		if n == 0 {
			break
		}
		if err := s.sendBlock(ctx, sess, n); err != nil {
			return err
		}
		if last {
			break
		}
	}

	return s.finish(sess)
}

// next fills the block buffer from the source. last is set when the source
// ran out inside this block.
func (sess *session) next() (n int, last bool, err error) {
	n, err = io.ReadFull(sess.r, sess.buf[:])
	switch {
	case errors.Is(err, io.EOF):
		return 0, true, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		err = nil
		last = true
	case err != nil:
		return 0, false, err
	}
	sess.block = NewBlock(sess.seq, sess.buf[:n])
	return n, last, nil
}

func (s *Sender) awaitNAK(ctx context.Context, sess *session) error {
	for attempt := 0; attempt < s.opts.HandshakeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return s.fail(sess, 0, fmt.Errorf("%w: %w", ErrCancelled, err))
		}
		c, ok := s.ch.ReadRaw(s.opts.HandshakeTimeout)
		if !ok {
			continue
		}
		switch c {
		case NAK:
			return nil
		case CAN:
			return s.fail(sess, 0, ErrCancelled)
		}
	}
	return s.fail(sess, 0, ErrHandshakeTimeout)
}

func (s *Sender) sendBlock(ctx context.Context, sess *session, n int) error {
	frame := sess.block.Frame()
	retries := 0

	for {
		if err := ctx.Err(); err != nil {
			return s.fail(sess, 0, fmt.Errorf("%w: %w", ErrCancelled, err))
		}

		sess.state = StateSendBlock
		if err := s.ch.Write(frame); err != nil {
			return s.fail(sess, 0, err)
		}

		sess.state = StateAwaitReply
		c, ok := s.ch.ReadRaw(s.opts.ReplyTimeout)
		if !ok {
			return s.fail(sess, 0, ErrReplyTimeout)
		}

		switch c {
		case ACK:
			sess.blocks++
			sess.bytes += int64(n)
			sess.seq++
			if s.opts.OnProgress != nil {
				s.opts.OnProgress(Progress{Session: sess.id, Blocks: sess.blocks, Bytes: sess.bytes})
			}
			return nil
		case NAK:
			retries++
			sess.retries++
			if retries > s.opts.MaxRetries {
				return s.fail(sess, 0, ErrTooManyRetries)
			}
		case CAN:
			return s.fail(sess, 0, ErrCancelled)
		default:
			return s.fail(sess, c, ErrUnexpectedReply)
		}
	}
}

// finish sends EOT. The receiver's answer is logged but does not change
// the outcome.
func (s *Sender) finish(sess *session) error {
	if err := s.ch.Write([]byte{EOT}); err != nil {
		return s.fail(sess, 0, err)
	}
	if c, ok := s.ch.ReadRaw(s.opts.HandshakeTimeout); !ok || c != ACK {
		s.opts.Logger.Warn("xmodem %s: EOT not acknowledged", sess.id)
	}
	return nil
}

func (s *Sender) fail(sess *session, reply byte, err error) error {
	block := sess.blocks + 1
	if sess.state == StateWaitForNAK {
		block = 0
	}
	return &TransferError{
		Session: sess.id,
		State:   sess.state,
		Block:   block,
		Reply:   reply,
		Err:     err,
	}
}
