// Package notifier fans out re-render pings to SSE streams.
package notifier

import "sync"

// Notifier pings subscribed streams. Each listener belongs to a topic,
// normally a dashboard session ID, so one session's change re-renders only
// that session's open tabs.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]string
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]string),
	}
}

// Subscribe returns a channel that receives a ping whenever topic is
// notified. The caller must call Unsubscribe.
func (n *Notifier) Subscribe(topic string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = topic
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Notify pings the listeners of topic. It never blocks: a listener with a
// pending ping already owes a render.
func (n *Notifier) Notify(topic string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, t := range n.listeners {
		if t != topic {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
