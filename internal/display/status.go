package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/h19term/internal/notify"
)

// Status line timing.
const (
	BeepFlash      = 200 * time.Millisecond
	NoticeDuration = 3 * time.Second
)

// StatusLine tracks what the emulator's status line shows. It learns
// about changes only through notifications.
type StatusLine struct {
	mu sync.Mutex

	port        string
	baud        int
	offline     bool
	shifted     bool
	alternate   bool
	personality string
	logging     bool

	beepUntil   time.Time
	notice      string
	noticeUntil time.Time

	now  func() time.Time
	subs []*notify.Subscription
}

// NewStatusLine creates a status line for port at baud and subscribes it
// to n.
func NewStatusLine(n *notify.Notifier, port string, baud int) *StatusLine {
	s := &StatusLine{
		port:        port,
		baud:        baud,
		personality: "HEATH",
		now:         time.Now,
	}
	if n == nil {
		return s
	}
	for _, topic := range []string{"mode", "keypad", "line", "log", notify.TopicBell, notify.TopicNotice, notify.TopicReset} {
		s.subs = append(s.subs, n.SubscribeTopic(topic, s.apply))
	}
	return s
}

// Close unsubscribes from the notifier.
func (s *StatusLine) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}

func (s *StatusLine) apply(c notify.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.Topic {
	case notify.TopicPersonality:
		if v, ok := c.Value.(string); ok {
			s.personality = v
		}
	case notify.TopicKeypadShifted:
		s.shifted = c.Bool()
	case notify.TopicKeypadAlternate:
		s.alternate = c.Bool()
	case notify.TopicBaud:
		if v, ok := c.Value.(int); ok {
			s.baud = v
		}
	case notify.TopicOffline:
		s.offline = c.Bool()
	case notify.TopicLogging:
		s.logging = c.Bool()
	case notify.TopicBell:
		s.beepUntil = s.now().Add(BeepFlash)
	case notify.TopicNotice:
		if v, ok := c.Value.(string); ok {
			s.notice = v
			s.noticeUntil = s.now().Add(NoticeDuration)
		}
	case notify.TopicReset:
		s.shifted = false
		s.alternate = false
		s.personality = "HEATH"
	}
}

// Beeping reports whether the bell flash is showing.
func (s *StatusLine) Beeping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Before(s.beepUntil)
}

// Text returns the 80-column status line:
//
//	Port: /dev/ttyUSB0  | B 9600  | Keypad: [S-A] HEATH | Ctrl-A Z: HELP | LOG: off
func (s *StatusLine) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	port := s.port
	if s.offline {
		port = "Offline"
	}
	keypad := [3]byte{' ', '-', ' '}
	if s.shifted {
		keypad[0] = 'S'
	}
	if s.alternate {
		keypad[2] = 'A'
	}
	middle := "Ctrl-A Z: HELP"
	if s.notice != "" && now.Before(s.noticeUntil) {
		middle = s.notice
	}
	log := "off"
	if s.logging {
		log = "on "
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Port: %-13.13s| B %-6d| Keypad: [%s] %-5s | %-14.14s | LOG: %s", port, s.baud, keypad[:], s.personality, middle, log)
	line := b.String()
	if now.Before(s.beepUntil) {
		line = fmt.Sprintf("%-*s%s", beepColumn, line[:min(len(line), beepColumn)], "BEEP")
	}
	if len(line) > 80 {
		line = line[:80]
	}
	return line
}
