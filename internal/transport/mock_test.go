package transport

import (
	"context"
	"testing"
)

func TestMockTransportPublishSubscribe(t *testing.T) {
	tr := NewMockTransport()
	ctx := context.Background()
	if err := tr.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !tr.IsConnected() {
		t.Fatalf("expected connected state after Connect")
	}

	var received []byte
	unsub, err := tr.Subscribe("topic-1", func(payload []byte) {
		received = payload
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	if err := tr.Publish(ctx, "topic-1", []byte("hello")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if string(received) != "hello" {
		t.Fatalf("expected handler to receive payload, got %q", received)
	}
}

func TestMockTransportPublishWithNoSubscriberFails(t *testing.T) {
	tr := NewMockTransport()
	if err := tr.Publish(context.Background(), "topic-1", []byte("x")); err != ErrPublish {
		t.Fatalf("expected ErrPublish, got %v", err)
	}
}

func TestMockTransportUnsubscribeStopsDelivery(t *testing.T) {
	tr := NewMockTransport()
	calls := 0
	unsub, err := tr.Subscribe("topic-1", func(payload []byte) { calls++ })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	unsub()
	_ = tr.Publish(context.Background(), "topic-1", []byte("x"))
	if calls != 0 {
		t.Fatalf("expected no delivery after unsubscribe, got %d calls", calls)
	}
}

func TestMockTransportQueryHistory(t *testing.T) {
	tr := NewMockTransport()
	ctx := context.Background()
	_, _ = tr.Subscribe("topic-1", func([]byte) {})
	_ = tr.Publish(ctx, "topic-1", []byte("m1"))
	_ = tr.Publish(ctx, "topic-1", []byte("m2"))

	result, err := tr.QueryHistory(ctx, "topic-1", HistoryQuery{})
	if err != nil {
		t.Fatalf("query history: %v", err)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
}

func TestReliableSendRetriesThenExhausts(t *testing.T) {
	tr := NewMockTransport() // no subscriber -> Publish always fails
	cfg := RetryConfig{Base: 1, Cap: 2, MaxRetries: 2}
	err := ReliableSend(context.Background(), tr, "topic-1", []byte("x"), cfg)
	if err == nil {
		t.Fatalf("expected ReliableSend to fail")
	}
	se, ok := err.(*SendExhaustedError)
	if !ok {
		t.Fatalf("expected *SendExhaustedError, got %T", err)
	}
	if se.Attempts != cfg.MaxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", cfg.MaxRetries+1, se.Attempts)
	}
}

func TestReliableSendSucceedsWithoutRetry(t *testing.T) {
	tr := NewMockTransport()
	_, _ = tr.Subscribe("topic-1", func([]byte) {})
	err := ReliableSend(context.Background(), tr, "topic-1", []byte("x"), DefaultRetryConfig)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}
