package service

import (
	"sync"

	"github.com/example/buildpcbs/internal/logging"
	"github.com/example/buildpcbs/internal/menu"
	"github.com/example/buildpcbs/internal/protocol"
)

const subscriberBuffer = 64

// Broadcaster fans menu activations out to every subscribed frontend
// connection. Each subscriber sees events in activation order; a subscriber
// whose buffer is full misses the event rather than blocking the menu.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan protocol.Event
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan protocol.Event)}
}

// Subscribe registers a new listener. The returned function removes it and
// closes the channel.
func (b *Broadcaster) Subscribe() (<-chan protocol.Event, func()) {
	ch := make(chan protocol.Event, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers reports the number of attached listeners.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Emit implements menu.Emitter.
func (b *Broadcaster) Emit(id menu.ActionID) {
	ev := protocol.Event{Action: string(id)}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.subs) == 0 {
		logging.Debugf("menu action %s with no frontend subscribed", id)
		return
	}
	for subID, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			logging.Warnf("subscriber %d is full; dropped action %s", subID, id)
		}
	}
}
