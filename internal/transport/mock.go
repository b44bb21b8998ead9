package transport

import (
	"context"
	"sort"
	"sync"
	"time"

	"wakuchat/core/internal/metrics"
)

// MockTransport is an in-process reference adapter: publishes fan out
// synchronously to every live subscriber on the same content topic,
// and a bounded in-memory log backs QueryHistory. It is meant for
// tests and local development, not for production deployment.
type MockTransport struct {
	mu            sync.Mutex
	state         ConnectionState
	subscribers   map[string]map[int]Handler
	nextSubID     int
	log           map[string][]loggedMessage
	stateHandlers map[int]StateChangeHandler
	nextStateID   int
}

type loggedMessage struct {
	payload []byte
	at      time.Time
}

// NewMockTransport creates a disconnected mock adapter.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		subscribers:   make(map[string]map[int]Handler),
		log:           make(map[string][]loggedMessage),
		stateHandlers: make(map[int]StateChangeHandler),
	}
}

func (m *MockTransport) Connect(ctx context.Context) error {
	m.setState(StateConnecting)
	m.setState(StateConnected)
	return nil
}

func (m *MockTransport) Disconnect(ctx context.Context) error {
	m.setState(StateDisconnected)
	return nil
}

func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateConnected
}

func (m *MockTransport) State() ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockTransport) setState(s ConnectionState) {
	m.mu.Lock()
	m.state = s
	handlers := make([]StateChangeHandler, 0, len(m.stateHandlers))
	for _, h := range m.stateHandlers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()
	for _, h := range handlers {
		h(s)
	}
}

func (m *MockTransport) Publish(ctx context.Context, contentTopic string, payload []byte) error {
	m.mu.Lock()
	m.log[contentTopic] = append(m.log[contentTopic], loggedMessage{payload: append([]byte(nil), payload...), at: time.Now()})
	handlers := make([]Handler, 0, len(m.subscribers[contentTopic]))
	for _, h := range m.subscribers[contentTopic] {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	if len(handlers) == 0 {
		// No subscriber accepted the message; in a real overlay this
		// would mean no peer was reachable.
		metrics.TransportPublishOutcomes.WithLabelValues("failure").Inc()
		return ErrPublish
	}
	for _, h := range handlers {
		h(payload)
	}
	metrics.TransportPublishOutcomes.WithLabelValues("success").Inc()
	return nil
}

func (m *MockTransport) Subscribe(contentTopic string, handler Handler) (Unsubscribe, error) {
	m.mu.Lock()
	if m.subscribers[contentTopic] == nil {
		m.subscribers[contentTopic] = make(map[int]Handler)
	}
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[contentTopic][id] = handler
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers[contentTopic], id)
		m.mu.Unlock()
	}, nil
}

func (m *MockTransport) QueryHistory(ctx context.Context, contentTopic string, q HistoryQuery) (HistoryResult, error) {
	m.mu.Lock()
	entries := append([]loggedMessage(nil), m.log[contentTopic]...)
	m.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })

	var filtered [][]byte
	for _, e := range entries {
		if !q.StartTime.IsZero() && e.at.Before(q.StartTime) {
			continue
		}
		if !q.EndTime.IsZero() && e.at.After(q.EndTime) {
			continue
		}
		filtered = append(filtered, e.payload)
	}

	pageSize := q.PageSize
	if pageSize <= 0 || pageSize > len(filtered) {
		pageSize = len(filtered)
	}
	return HistoryResult{Messages: filtered[:pageSize]}, nil
}

func (m *MockTransport) OnConnectionStateChange(handler StateChangeHandler) Unsubscribe {
	m.mu.Lock()
	id := m.nextStateID
	m.nextStateID++
	m.stateHandlers[id] = handler
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.stateHandlers, id)
		m.mu.Unlock()
	}
}
