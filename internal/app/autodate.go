package app

import (
	"fmt"
	"regexp"
	"time"

	"github.com/dshills/h19term/internal/config"
)

// Auto-date limits.
const (
	// autoDateLines is how many inbound lines after a reset are watched.
	autoDateLines = 50

	// maxPromptLen bounds the buffered line.
	maxPromptLen = 128
)

// AutoDate answers the date and time prompts CP/M and HDOS print while
// booting, using the local clock.
type AutoDate struct {
	cpm      bool
	hdos     bool
	cpmDate  string
	cpmTime  string
	hdosDate *regexp.Regexp
	lines    int
	buf      []byte
	now      func() time.Time
}

// NewAutoDate creates a responder from cfg. The HDOS prompt is a regular
// expression and must compile.
func NewAutoDate(cfg config.AutoDateConfig) (*AutoDate, error) {
	a := &AutoDate{
		cpm:     cfg.CPM,
		hdos:    cfg.HDOS,
		cpmDate: cfg.CPMDatePrompt,
		cpmTime: cfg.CPMTimePrompt,
		now:     time.Now,
		buf:     make([]byte, 0, maxPromptLen),
	}
	if cfg.HDOS {
		re, err := regexp.Compile(cfg.HDOSDatePrompt)
		if err != nil {
			return nil, fmt.Errorf("hdos date prompt: %w", err)
		}
		a.hdosDate = re
	}
	return a, nil
}

// Enabled reports whether any prompt is watched.
func (a *AutoDate) Enabled() bool {
	return a.cpm || a.hdos
}

// Reset starts watching again, as after a terminal reset.
func (a *AutoDate) Reset() {
	a.lines = 0
	a.buf = a.buf[:0]
}

// Observe records one inbound byte and returns the reply to send when
// the line so far is a date or time prompt.
func (a *AutoDate) Observe(b byte) []byte {
	if !a.Enabled() || a.lines >= autoDateLines {
		return nil
	}
	if b == '\n' {
		a.lines++
		a.buf = a.buf[:0]
		return nil
	}
	if len(a.buf) >= maxPromptLen {
		return nil
	}
	a.buf = append(a.buf, b)

	now := a.now()
	var reply string
	switch {
	case a.cpm && string(a.buf) == a.cpmDate:
		reply = now.Format("01/02/06")
	case a.cpm && string(a.buf) == a.cpmTime:
		reply = now.Format("15:04:05")
	case a.hdos && a.hdosDate.Match(a.buf):
		reply = now.Format("02-Jan-06")
	default:
		return nil
	}
	a.buf = a.buf[:0]
	return []byte(reply + "\r")
}
