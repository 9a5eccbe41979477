// Package notify delivers terminal status changes to observers.
//
// The emulation core publishes a Change whenever something shown on the
// status line moves: personality, keypad modes, baud rate, offline state,
// logging, the bell flash. Renderers subscribe to the topics they draw
// instead of the core writing to fixed screen positions.
package notify

import (
	"sort"
	"sync"
)

// Status topics. Topics are dot-separated; subscribing to a parent
// ("keypad") also receives its children ("keypad.shifted").
const (
	TopicPersonality     = "mode.personality"
	TopicCursor          = "mode.cursor"
	TopicKeypadShifted   = "keypad.shifted"
	TopicKeypadAlternate = "keypad.alternate"
	TopicBaud            = "line.baud"
	TopicOffline         = "line.offline"
	TopicLogging         = "log.enabled"
	TopicBell            = "bell"
	TopicNotice          = "notice"
	TopicColour          = "display.colour"
	TopicReset           = "reset"
)

// Change is one status change.
type Change struct {
	// Topic names what changed.
	Topic string

	// Value is the new value (bool, int or string depending on topic).
	Value any

	// Source identifies the publisher.
	Source string
}

// Bool returns the value as a bool, false if it is not one.
func (c Change) Bool() bool {
	v, _ := c.Value.(bool)
	return v
}

// Observer is called for each delivered change.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	topic    string
	observer Observer
}

// Notifier fans changes out to observers. Delivery is synchronous on the
// publishing goroutine, in subscription order.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]entry
	nextID    uint64
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{observers: make(map[uint64]entry)}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeTopic("", observer)
}

// SubscribeTopic registers an observer for topic and its children.
func (n *Notifier) SubscribeTopic(topic string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = entry{topic: topic, observer: observer}

	return &Subscription{id: id, notifier: n}
}

// Notify delivers change to all matching observers. A nil Notifier
// discards it.
func (n *Notifier) Notify(change Change) {
	if n == nil {
		return
	}

	n.mu.RLock()
	ids := make([]uint64, 0, len(n.observers))
	for id, e := range n.observers {
		if matches(e.topic, change.Topic) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.observers[id].observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// Publish is shorthand for Notify with a topic and value.
func (n *Notifier) Publish(topic string, value any, source string) {
	n.Notify(Change{Topic: topic, Value: value, Source: source})
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// matches reports whether a subscription on topic receives change.
// e.g. "keypad" matches "keypad.shifted".
func matches(topic, change string) bool {
	if topic == "" || topic == change {
		return true
	}
	return len(change) > len(topic) && change[:len(topic)] == topic && change[len(topic)] == '.'
}

// Batch collects changes and delivers them together, so a multi-field
// update such as a terminal reset reaches observers as one step.
type Batch struct {
	notifier *Notifier
	changes  []Change
}

// NewBatch starts a batch on n.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add queues a change. A later change to the same topic replaces the
// earlier one.
func (b *Batch) Add(topic string, value any, source string) {
	for i := range b.changes {
		if b.changes[i].Topic == topic {
			b.changes[i].Value = value
			b.changes[i].Source = source
			return
		}
	}
	b.changes = append(b.changes, Change{Topic: topic, Value: value, Source: source})
}

// Len returns the number of queued changes.
func (b *Batch) Len() int {
	return len(b.changes)
}

// Commit delivers the queued changes in order and empties the batch.
func (b *Batch) Commit() {
	changes := b.changes
	b.changes = nil
	for _, c := range changes {
		b.notifier.Notify(c)
	}
}
