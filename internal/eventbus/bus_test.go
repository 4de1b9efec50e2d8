package eventbus

import (
	"testing"
	"time"
)

func TestFanout(t *testing.T) {
	b := New()
	ch1, unsub1 := b.Subscribe(4)
	ch2, unsub2 := b.Subscribe(4)
	defer unsub1()
	defer unsub2()

	b.Publish(Event{Type: "action.executed", Data: 1})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case e := <-ch:
			if e.Type != "action.executed" {
				t.Fatalf("sub %d: type = %q", i, e.Type)
			}
			if e.Time.IsZero() {
				t.Fatalf("sub %d: publish did not stamp time", i)
			}
		default:
			t.Fatalf("sub %d: no event delivered", i)
		}
	}
}

func TestSlowSubscriberDrops(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1)
	defer unsub()

	b.Publish(Event{Type: "a"})
	b.Publish(Event{Type: "b"}) // buffer full, dropped

	if e := <-ch; e.Type != "a" {
		t.Fatalf("got %q, want first event", e.Type)
	}
	select {
	case e := <-ch:
		t.Fatalf("unexpected second event %q", e.Type)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1)
	unsub()
	unsub() // idempotent

	b.Publish(Event{Type: "x", Time: time.Now()})
	select {
	case e := <-ch:
		t.Fatalf("delivered after unsubscribe: %q", e.Type)
	default:
	}
}
