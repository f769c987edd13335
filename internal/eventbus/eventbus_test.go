package eventbus

import (
	"testing"
	"time"
)

func TestPublishFansOut(t *testing.T) {
	b := New[int]()
	defer b.Close()
	a := b.Subscribe()
	c := b.Subscribe()
	b.Publish(42)
	for _, ch := range []<-chan int{a, c} {
		select {
		case v := <-ch:
			if v != 42 {
				t.Fatalf("got %d", v)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber did not receive event")
		}
	}
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := New[int]()
	defer b.Close()
	_ = b.Subscribe() // never drained
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New[string]()
	defer b.Close()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after unsubscribe")
	}
	b.Publish("after") // must not panic
}

func TestCloseStopsDelivery(t *testing.T) {
	b := New[int]()
	ch := b.Subscribe()
	b.Close()
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed")
	}
	b.Publish(1) // must not panic
	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("subscribing after close should return a closed channel")
	}
}
