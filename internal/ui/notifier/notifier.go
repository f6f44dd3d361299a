// Package notifier provides a simple broadcast mechanism for view updates.
package notifier

import "sync"

// All subscribes to changes of every view.
const All = ""

// Notifier broadcasts update pings to listeners of a view.
// Listeners receive an empty struct when the view changed and should
// re-read the store; pings are coalesced, never queued.
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

// Subscribe returns a channel pinged whenever viewID changes, or whenever
// any view changes when viewID is All.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe(viewID string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = viewID
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
// Unsubscribing an unknown channel is a no-op.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Broadcast pings the listeners of viewID and the All listeners.
// Non-blocking: a listener with a pending ping is skipped.
func (n *Notifier) Broadcast(viewID string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, want := range n.listeners {
		if want != All && want != viewID {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of active listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
