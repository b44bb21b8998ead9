package chatclient

import "wakuchat/core/internal/transport"

// Subscribe registers handler for every delivered (or revoked)
// message on conversationID. Multiple handlers on the same
// conversation share a single underlying transport subscription; the
// returned Unsubscribe only tears that down once the last handler has
// left.
func (c *Client) Subscribe(conversationID string, handler func(Message)) (transport.Unsubscribe, error) {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry, ok := c.subs[conversationID]
	if !ok {
		entry = &subscriptionEntry{handlers: make(map[int]func(Message))}
		topic := topicForConversation(conv)
		unsub, subErr := c.transport.Subscribe(topic, func(payload []byte) {
			c.onEnvelope(conversationID, payload)
		})
		if subErr != nil {
			c.mu.Unlock()
			return nil, subErr
		}
		entry.unsubscribe = unsub
		c.subs[conversationID] = entry
	}
	id := entry.nextID
	entry.nextID++
	entry.handlers[id] = handler
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		entry, ok := c.subs[conversationID]
		if !ok {
			return
		}
		delete(entry.handlers, id)
		if len(entry.handlers) == 0 {
			entry.unsubscribe()
			delete(c.subs, conversationID)
		}
	}, nil
}

// fanOut delivers msg to every handler currently registered for
// conversationID. Handlers run synchronously, in registration order,
// on the same goroutine that drove onEnvelope — deliberately, since
// the receive pipeline's dedupe and revoke reconciliation already
// depend on messages for one conversation being applied in arrival
// order. An application with a slow handler is responsible for
// offloading it itself, e.g. onto a transport.BoundedDispatcher.
func (c *Client) fanOut(conversationID string, msg Message) {
	c.mu.RLock()
	entry, ok := c.subs[conversationID]
	var handlers []func(Message)
	if ok {
		handlers = make([]func(Message), 0, len(entry.handlers))
		for _, h := range entry.handlers {
			handlers = append(handlers, h)
		}
	}
	c.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
}
