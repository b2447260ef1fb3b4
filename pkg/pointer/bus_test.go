package pointer

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 2}
	tests := []struct {
		x, y int
		want bool
	}{
		{2, 3, true},
		{5, 4, true},
		{6, 4, false},
		{5, 5, false},
		{1, 3, false},
		{2, 2, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Fatalf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if (Rect{}).Contains(0, 0) {
		t.Fatalf("zero rect should contain nothing")
	}
	if !(Rect{}).Empty() {
		t.Fatalf("zero rect should be empty")
	}
}

func TestSubscribeDispatchRelease(t *testing.T) {
	bus := NewBus()
	var got []Event
	release := bus.Subscribe(func(ev Event) { got = append(got, ev) })
	if bus.Len() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", bus.Len())
	}

	bus.Dispatch(Event{X: 1, Y: 2, Button: ButtonLeft})
	if len(got) != 1 || got[0].X != 1 || got[0].Y != 2 {
		t.Fatalf("unexpected events %+v", got)
	}

	release()
	release()
	if bus.Len() != 0 {
		t.Fatalf("expected no subscribers after release, got %d", bus.Len())
	}
	bus.Dispatch(Event{})
	if len(got) != 1 {
		t.Fatalf("released handler still received events")
	}
}

func TestReleaseOnlyRemovesOwnSubscription(t *testing.T) {
	bus := NewBus()
	var a, b int
	releaseA := bus.Subscribe(func(Event) { a++ })
	bus.Subscribe(func(Event) { b++ })

	releaseA()
	releaseA()
	bus.Dispatch(Event{})
	if a != 0 || b != 1 {
		t.Fatalf("expected a=0 b=1, got a=%d b=%d", a, b)
	}
}

func TestDispatchOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Subscribe(func(Event) { order = append(order, i) })
	}
	bus.Dispatch(Event{})
	for i, v := range order {
		if v != i {
			t.Fatalf("expected subscription order, got %v", order)
		}
	}
}

func TestHandlerMayReleaseDuringDispatch(t *testing.T) {
	bus := NewBus()
	var release func()
	calls := 0
	release = bus.Subscribe(func(Event) {
		calls++
		release()
	})
	bus.Dispatch(Event{})
	bus.Dispatch(Event{})
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}
