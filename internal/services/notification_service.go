package services

import (
	"slices"
	"sync"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

// Listener receives the full ride list after every change. The slice is the
// listener's own copy.
type Listener func(rides []entities.Ride)

// ChangeNotifier fans a ride list out to registered listeners and replays the
// latest list to each new listener.
//
// Go Learning Note — Replay-Latest Subscriptions:
// A listener that registers late still needs the current state, not just the
// next change. Keeping the last published value and handing it to every new
// listener immediately means a websocket client that connects mid-day renders
// the current rides without a separate "fetch" request.
//
// Listeners run synchronously, in subscription order, while the notifier
// lock is held. They must return quickly and must not register or remove listeners;
// sinks that do I/O hand the list to their own goroutine.
type ChangeNotifier struct {
	mu        sync.Mutex
	latest    []entities.Ride
	listeners []subscription
	nextID    uint64
}

type subscription struct {
	id uint64
	l  Listener
}

func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{latest: []entities.Ride{}}
}

// Subscribe registers l, calls it once with the latest list and returns a
// function that removes it. Calling the returned function twice is safe.
func (n *ChangeNotifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.listeners = append(n.listeners, subscription{id: id, l: l})
	l(entities.CloneRides(n.latest))

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			n.listeners = slices.DeleteFunc(n.listeners, func(s subscription) bool { return s.id == id })
			n.mu.Unlock()
		})
	}
}

// Publish records rides as the latest list and delivers it to every listener.
func (n *ChangeNotifier) Publish(rides []entities.Ride) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.latest = entities.CloneRides(rides)
	for _, s := range n.listeners {
		s.l(entities.CloneRides(rides))
	}
}

// Latest returns a copy of the last published list.
func (n *ChangeNotifier) Latest() []entities.Ride {
	n.mu.Lock()
	defer n.mu.Unlock()
	return entities.CloneRides(n.latest)
}

// Listeners reports how many listeners are registered.
func (n *ChangeNotifier) Listeners() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
