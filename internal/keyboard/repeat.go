package keyboard

import "time"

// Default repeat limits: about ten characters per second once a key has
// repeated twenty times.
const (
	DefaultRepeatInterval  = 90 * time.Millisecond
	DefaultRepeatThreshold = 20
)

// Limiter drops auto-repeated keys. Once the same key has arrived more
// than Threshold times in a row, further repeats closer together than
// Interval are dropped until the gap opens up again.
type Limiter struct {
	Interval  time.Duration
	Threshold int

	now      func() time.Time
	last     Key
	haveLast bool
	count    int
	lastTime time.Time
}

// NewLimiter creates a limiter. Zero arguments select the defaults.
func NewLimiter(interval time.Duration, threshold int) *Limiter {
	if interval <= 0 {
		interval = DefaultRepeatInterval
	}
	if threshold <= 0 {
		threshold = DefaultRepeatThreshold
	}
	return &Limiter{Interval: interval, Threshold: threshold, now: time.Now}
}

// Allow reports whether key should be processed.
func (l *Limiter) Allow(key Key) bool {
	now := l.now()
	if l.haveLast && key == l.last {
		l.count++
	} else {
		l.count = 0
	}
	l.last, l.haveLast = key, true

	if now.Sub(l.lastTime) < l.Interval && l.count > l.Threshold {
		return false
	}
	l.lastTime = now
	return true
}
