// Package transport defines the narrow contract the chat engine uses
// over a pub/sub overlay — publish, subscribe, and bounded historical
// query (Store) — independent of any specific network. mock.go in this
// package provides an in-process reference adapter for tests;
// internal/transport/waku provides a real adapter over go-waku.
package transport

import (
	"context"
	"errors"
	"time"
)

// ConnectionState mirrors the adapter's view of its own transport
// session.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

var (
	// ErrPublish is returned when no peer accepted a published message.
	ErrPublish = errors.New("transport: publish failed, no peer accepted the message")
	// ErrSendExhausted is what the reliable-send wrapper's
	// *SendExhaustedError unwraps to once the retry budget is
	// exhausted; the last underlying error is in that error's Last
	// field.
	ErrSendExhausted = errors.New("transport: send retries exhausted")
	// ErrConnectTimeout is returned when Connect does not reach
	// StateConnected within its deadline.
	ErrConnectTimeout = errors.New("transport: connect did not complete within deadline")
)

// HistoryQuery bounds a Store query.
type HistoryQuery struct {
	StartTime time.Time
	EndTime   time.Time
	PageSize  int
	Cursor    string
}

// HistoryResult is one page of a Store query; historical retention is
// transport-defined and best-effort, so callers should not assume a
// full page means more data remains, nor that an empty NextCursor
// means none does.
type HistoryResult struct {
	Messages   [][]byte
	NextCursor string
}

// Handler is invoked for every message delivered on a subscribed
// content topic. It is invoked on the transport's own goroutine:
// implementations that do expensive work must offload to a bounded
// worker rather than block the caller (see BoundedDispatcher).
type Handler func(payload []byte)

// StateChangeHandler observes transport connection-state transitions.
type StateChangeHandler func(state ConnectionState)

// Unsubscribe cancels a subscription or a state-change registration.
type Unsubscribe func()

// Transport is the contract the chat engine consumes. A compliant
// adapter may be built over any pub/sub with at-most-once or
// at-least-once delivery — the dedupe cache handles duplicates.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
	State() ConnectionState

	// Publish fails with ErrPublish if no peer accepted the message;
	// partial failures among multiple peers are logged, not surfaced.
	Publish(ctx context.Context, contentTopic string, payload []byte) error

	// Subscribe registers handler for contentTopic and returns a
	// token that unregisters it.
	Subscribe(contentTopic string, handler Handler) (Unsubscribe, error)

	// QueryHistory may return fewer than PageSize messages.
	QueryHistory(ctx context.Context, contentTopic string, q HistoryQuery) (HistoryResult, error)

	OnConnectionStateChange(handler StateChangeHandler) Unsubscribe
}
