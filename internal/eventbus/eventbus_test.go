package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish("hello")
	v := <-ch
	if v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestBusDropsWhenSubscriberStalls(t *testing.T) {
	bus := NewWithBuffer(4)
	ch := bus.Subscribe()
	// Publish past the channel buffer without reading; the bus must not
	// block and the overflow is dropped.
	for i := 0; i < 100; i++ {
		bus.Publish(i)
	}
	bus.Close()
	n := 0
	for range ch {
		n++
	}
	if n != 4 {
		t.Fatalf("expected the buffered 4 events, got %d", n)
	}
}

func TestNewWithBufferFloor(t *testing.T) {
	bus := NewWithBuffer(0)
	ch := bus.Subscribe()
	bus.Publish("only")
	bus.Close()
	n := 0
	for range ch {
		n++
	}
	if n != 1 {
		t.Fatalf("expected a floor of one buffered event, got %d", n)
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
