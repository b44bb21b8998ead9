package transport

import (
	"sync"
	"testing"
	"time"
)

func TestBoundedDispatcherRunsHandler(t *testing.T) {
	d := NewBoundedDispatcher(2, 8, 0, 0)
	defer d.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	var got []byte
	dropped := d.Dispatch("topic-1", func(payload []byte) {
		got = payload
		wg.Done()
	}, []byte("hello"))
	if dropped {
		t.Fatalf("expected dispatch to be accepted")
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("handler did not run in time")
	}
	if string(got) != "hello" {
		t.Fatalf("unexpected payload: %q", got)
	}
}

func TestBoundedDispatcherDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	d := NewBoundedDispatcher(1, 1, 0, 0)
	defer func() {
		close(block)
		d.Close()
	}()

	d.Dispatch("topic-1", func([]byte) { <-block }, nil)
	time.Sleep(10 * time.Millisecond) // let the sole worker pick it up

	d.Dispatch("topic-1", func([]byte) {}, nil) // fills the queue
	dropped := d.Dispatch("topic-1", func([]byte) {}, nil)
	if !dropped {
		t.Fatalf("expected third dispatch to be dropped")
	}
}
