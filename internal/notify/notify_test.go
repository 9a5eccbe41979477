package notify

import "testing"

func TestSubscribeReceivesAll(t *testing.T) {
	n := New()

	var got []string
	n.Subscribe(func(c Change) { got = append(got, c.Topic) })

	n.Publish(TopicBaud, 9600, "test")
	n.Publish(TopicOffline, true, "test")

	if len(got) != 2 || got[0] != TopicBaud || got[1] != TopicOffline {
		t.Errorf("got %v", got)
	}
}

func TestSubscribeTopicMatchesChildren(t *testing.T) {
	n := New()

	var keypad, baud int
	n.SubscribeTopic("keypad", func(Change) { keypad++ })
	n.SubscribeTopic(TopicBaud, func(Change) { baud++ })

	n.Publish(TopicKeypadShifted, true, "test")
	n.Publish(TopicKeypadAlternate, false, "test")
	n.Publish("keypadx", 1, "test")
	n.Publish(TopicBaud, 300, "test")

	if keypad != 2 {
		t.Errorf("keypad observer called %d times, want 2", keypad)
	}
	if baud != 1 {
		t.Errorf("baud observer called %d times, want 1", baud)
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()

	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	n.Publish(TopicBell, true, "test")
	sub.Unsubscribe()
	n.Publish(TopicBell, false, "test")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDeliveryOrder(t *testing.T) {
	n := New()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.Publish(TopicReset, true, "test")

	for i, v := range order {
		if v != i {
			t.Fatalf("delivery order = %v", order)
		}
	}
}

func TestNilNotifierDiscards(t *testing.T) {
	var n *Notifier
	n.Publish(TopicBaud, 1200, "test")
}

func TestBatchCoalesces(t *testing.T) {
	n := New()

	var got []Change
	n.Subscribe(func(c Change) { got = append(got, c) })

	b := n.NewBatch()
	b.Add(TopicKeypadShifted, true, "a")
	b.Add(TopicPersonality, "ansi", "a")
	b.Add(TopicKeypadShifted, false, "b")

	if len(got) != 0 {
		t.Fatal("batch delivered before Commit")
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}

	b.Commit()
	if len(got) != 2 {
		t.Fatalf("delivered %d changes, want 2", len(got))
	}
	if got[0].Topic != TopicKeypadShifted || got[0].Bool() || got[0].Source != "b" {
		t.Errorf("first change = %+v", got[0])
	}
	if b.Len() != 0 {
		t.Error("batch not emptied by Commit")
	}
}
