// Package pointer fans terminal pointer presses out to interested widgets.
//
// A widget that needs to react to presses anywhere on screen, such as a
// picker that closes when the user clicks away, subscribes for as long as it
// is mounted and releases the subscription on teardown.
package pointer

import (
	"sort"
	"sync"
)

// Button identifies which button was pressed.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event is a single pointer press in terminal cell coordinates.
type Event struct {
	X, Y   int
	Button Button
}

// Rect is a screen region in cells. The zero Rect contains nothing.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Handler receives pointer events.
type Handler func(Event)

// Bus delivers pointer events to every live subscription.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers h and returns the function that removes it. The
// release function is safe to call any number of times.
func (b *Bus) Subscribe(h Handler) (release func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to all subscribers in subscription order. Handlers
// run on the caller's goroutine.
func (b *Bus) Dispatch(ev Event) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
