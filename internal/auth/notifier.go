package auth

import (
	"sync"
	"time"
)

// Session event types published by the API layer.
const (
	EventLogin          = "login"
	EventLogout         = "logout"
	EventPasswordChange = "password_change"
)

// SessionEvent describes one auth-state change for a user.
type SessionEvent struct {
	Type   string    `json:"type"`
	UserID uint      `json:"user_id"`
	At     time.Time `json:"at"`
}

// SessionNotifier is an in-process observable for auth-state changes.
// Events are dispatched by a single goroutine, so subscribers always see
// them in arrival order and never concurrently.
type SessionNotifier struct {
	mu     sync.RWMutex
	subs   map[int]chan SessionEvent
	nextID int
	last   *SessionEvent
	events chan SessionEvent
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

// NewSessionNotifier builds the notifier and starts its dispatch loop.
func NewSessionNotifier() *SessionNotifier {
	n := &SessionNotifier{
		subs:   make(map[int]chan SessionEvent),
		events: make(chan SessionEvent, 64),
		done:   make(chan struct{}),
	}
	n.wg.Add(1)
	go n.dispatchLoop()
	return n
}

// Subscribe registers a listener. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once.
func (n *SessionNotifier) Subscribe() (<-chan SessionEvent, func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	ch := make(chan SessionEvent, 16)
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			if sub, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(sub)
			}
			n.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish enqueues an event for ordered delivery. Events published after
// Close are dropped.
func (n *SessionNotifier) Publish(event SessionEvent) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	select {
	case n.events <- event:
	case <-n.done:
	}
}

// Last returns the most recently dispatched event, or nil before the first.
func (n *SessionNotifier) Last() *SessionEvent {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.last == nil {
		return nil
	}
	event := *n.last
	return &event
}

// Close stops the dispatch loop and closes all subscriber channels.
func (n *SessionNotifier) Close() {
	n.closed.Do(func() {
		close(n.done)
	})
	n.wg.Wait()
}

func (n *SessionNotifier) dispatchLoop() {
	defer n.wg.Done()
	for {
		select {
		case <-n.done:
			n.mu.Lock()
			for id, ch := range n.subs {
				delete(n.subs, id)
				close(ch)
			}
			n.mu.Unlock()
			return
		case event := <-n.events:
			n.mu.Lock()
			last := event
			n.last = &last
			channels := make([]chan SessionEvent, 0, len(n.subs))
			for _, ch := range n.subs {
				channels = append(channels, ch)
			}
			n.mu.Unlock()

			for _, ch := range channels {
				// A slow consumer loses the event rather than stalling
				// delivery for everyone else.
				select {
				case ch <- event:
				default:
				}
			}
		}
	}
}
