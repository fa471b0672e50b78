package events

import (
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers")
	}
	ch := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	b.Unsubscribe(ch)
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBus()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Kind: KindCreated, ID: "n1"})

	select {
	case ev := <-ch:
		if ev.Kind != KindCreated || ev.ID != "n1" {
			t.Errorf("got %+v, want created n1", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBus()
	defer b.Close()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish(Event{Kind: KindDeleted, ID: "x"})

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.ID != "x" {
				t.Errorf("subscriber %d got %+v", i, ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}

func TestPublishNoteChangeMapsKinds(t *testing.T) {
	b := NewBus()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishNoteChange("created", "a")
	b.PublishNoteChange("bogus", "b")
	b.PublishNoteChange("deleted", "c")

	want := []Event{
		{Kind: KindCreated, ID: "a"},
		{Kind: KindDeleted, ID: "c"},
	}
	for _, w := range want {
		select {
		case ev := <-ch:
			if ev != w {
				t.Errorf("got %+v, want %+v", ev, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %+v", w)
		}
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBus()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill the buffer (capacity 64) and then some; must not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Kind: KindUpdated, ID: "flood"})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after close")
	}

	// Safe no-ops after close.
	b.Publish(Event{Kind: KindUpdated, ID: "late"})
	b.Unsubscribe(ch)
	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}
