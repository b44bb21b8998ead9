package chatclient

import (
	"encoding/json"

	"wakuchat/core/internal/conversation"
	"wakuchat/core/internal/store"
	"wakuchat/core/internal/wire"
)

// persistedMessage is the JSON shape stored under store.MessageKey —
// the store contract only holds strings, so every record round-trips
// through this struct.
type persistedMessage struct {
	MessageID      string `json:"messageId"`
	SenderID       string `json:"senderId"`
	ConversationID string `json:"conversationId"`
	ConvType       int    `json:"convType"`
	Type           int    `json:"type"`
	Timestamp      uint64 `json:"timestamp"`
	Content        string `json:"content"`
	Verified       bool   `json:"verified"`
	Status         string `json:"status"`
}

type revokeRecord struct {
	RevokerID string `json:"revokerId"`
	Reason    string `json:"reason"`
}

func toPersisted(m Message) persistedMessage {
	return persistedMessage{
		MessageID:      m.MessageID,
		SenderID:       m.SenderID,
		ConversationID: m.ConversationID,
		ConvType:       int(m.ConvType),
		Type:           int(m.Type),
		Timestamp:      m.Timestamp,
		Content:        m.Content,
		Verified:       m.Verified,
		Status:         string(m.Status),
	}
}

func (p persistedMessage) toMessage() Message {
	return Message{
		MessageID:      p.MessageID,
		SenderID:       p.SenderID,
		ConversationID: p.ConversationID,
		ConvType:       conversation.Type(p.ConvType),
		Type:           wire.MessageType(p.Type),
		Timestamp:      p.Timestamp,
		Content:        p.Content,
		Verified:       p.Verified,
		Status:         MessageStatus(p.Status),
	}
}

func (c *Client) persistMessage(m Message) error {
	raw, err := json.Marshal(toPersisted(m))
	if err != nil {
		return err
	}
	return c.store.Set(store.MessageKey(m.ConversationID, m.MessageID), string(raw))
}

func (c *Client) loadMessage(conversationID, messageID string) (Message, bool, error) {
	raw, ok, err := c.store.Get(store.MessageKey(conversationID, messageID))
	if err != nil || !ok {
		return Message{}, ok, err
	}
	var p persistedMessage
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Message{}, false, err
	}
	return p.toMessage(), true, nil
}

func (c *Client) markRevokedLocally(conversationID, messageID string) error {
	msg, ok, err := c.loadMessage(conversationID, messageID)
	if err != nil || !ok {
		return err
	}
	msg.Status = StatusRevoked
	return c.persistMessage(msg)
}

func (c *Client) persistTombstone(messageID, revokerID, reason string) error {
	raw, err := json.Marshal(revokeRecord{RevokerID: revokerID, Reason: reason})
	if err != nil {
		return err
	}
	return c.store.Set(store.RevokedKey(messageID), string(raw))
}

func (c *Client) isTombstoned(messageID string) (bool, error) {
	_, ok, err := c.store.Get(store.RevokedKey(messageID))
	return ok, err
}
