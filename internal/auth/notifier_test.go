package auth

import (
	"testing"
	"time"
)

func TestSessionNotifier_DeliversInOrder(t *testing.T) {
	n := NewSessionNotifier()
	defer n.Close()

	ch, cancel := n.Subscribe()
	defer cancel()

	n.Publish(SessionEvent{Type: EventLogin, UserID: 1})
	n.Publish(SessionEvent{Type: EventPasswordChange, UserID: 1})
	n.Publish(SessionEvent{Type: EventLogout, UserID: 1})

	want := []string{EventLogin, EventPasswordChange, EventLogout}
	for i, expected := range want {
		select {
		case got := <-ch:
			if got.Type != expected {
				t.Fatalf("event %d: got %q, want %q", i, got.Type, expected)
			}
			if got.At.IsZero() {
				t.Errorf("event %d: timestamp not set", i)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestSessionNotifier_CancelStopsDelivery(t *testing.T) {
	n := NewSessionNotifier()
	defer n.Close()

	ch, cancel := n.Subscribe()
	cancel()
	cancel() // second cancel must be a no-op

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}

func TestSessionNotifier_LastTracksMostRecent(t *testing.T) {
	n := NewSessionNotifier()
	defer n.Close()

	if n.Last() != nil {
		t.Fatal("expected no last event before first publish")
	}

	ch, cancel := n.Subscribe()
	defer cancel()

	n.Publish(SessionEvent{Type: EventLogin, UserID: 7})
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	last := n.Last()
	if last == nil || last.Type != EventLogin || last.UserID != 7 {
		t.Fatalf("unexpected last event: %+v", last)
	}
}

func TestSessionNotifier_MultipleSubscribers(t *testing.T) {
	n := NewSessionNotifier()
	defer n.Close()

	a, cancelA := n.Subscribe()
	defer cancelA()
	b, cancelB := n.Subscribe()
	defer cancelB()

	n.Publish(SessionEvent{Type: EventLogout, UserID: 3})

	for name, ch := range map[string]<-chan SessionEvent{"a": a, "b": b} {
		select {
		case got := <-ch:
			if got.UserID != 3 {
				t.Errorf("subscriber %s: got user %d, want 3", name, got.UserID)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("subscriber %s: timed out", name)
		}
	}
}
