// Package selection tracks the committed movie and the picker's open state.
package selection

import (
	"sync"

	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/pointer"
)

// State is the picker state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Region reports the screen area the picker currently owns.
type Region func() pointer.Rect

// Controller owns {selected, query, open}. Opening always clears the query;
// selecting always closes the picker and clears the query. Selecting never
// fetches anything.
type Controller struct {
	mu       sync.Mutex
	state    State
	selected *movie.Summary
	query    string

	region  Region
	release func()
}

// New returns a closed controller with nothing selected.
func New() *Controller {
	return &Controller{}
}

// Open moves Closed to Open and resets the query.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open()
}

func (c *Controller) open() {
	c.state = Open
	c.query = ""
}

// Close moves Open to Closed. The selection and query are left alone.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Closed
}

// Toggle opens a closed picker or closes an open one.
func (c *Controller) Toggle() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Open {
		c.state = Closed
	} else {
		c.open()
	}
	return c.state
}

// Select commits m, closes the picker and clears the query.
func (c *Controller) Select(m movie.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel := m
	c.selected = &sel
	c.state = Closed
	c.query = ""
}

// SetQuery updates the filter input. It is ignored while closed.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Open {
		return
	}
	c.query = q
}

// Query is the live filter input.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// IsOpen reports whether the picker is open.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Open
}

// State returns the current picker state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selected returns the committed movie, if any.
func (c *Controller) Selected() (movie.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return movie.Summary{}, false
	}
	return *c.selected, true
}

// Label is the text shown by a closed picker.
func (c *Controller) Label(placeholder string) string {
	if m, ok := c.Selected(); ok {
		return m.Title
	}
	return placeholder
}

// Mount subscribes to bus so that presses outside region close an open
// picker. It is a no-op while already mounted.
func (c *Controller) Mount(bus *pointer.Bus, region Region) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.release != nil || bus == nil {
		return
	}
	c.region = region
	c.release = bus.Subscribe(c.onPress)
}

// Unmount releases the bus subscription. It is a no-op when not mounted.
func (c *Controller) Unmount() {
	c.mu.Lock()
	release := c.release
	c.release = nil
	c.region = nil
	c.mu.Unlock()
	if release != nil {
		release()
	}
}

// Mounted reports whether the controller holds a bus subscription.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.release != nil
}

// region is evaluated without holding the lock so it may consult widgets that
// read the controller.
func (c *Controller) onPress(ev pointer.Event) {
	c.mu.Lock()
	if c.state != Open {
		c.mu.Unlock()
		return
	}
	region := c.region
	c.mu.Unlock()

	if region != nil && region().Contains(ev.X, ev.Y) {
		return
	}

	c.mu.Lock()
	c.state = Closed
	c.mu.Unlock()
}
