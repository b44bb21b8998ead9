package chatclient

import (
	"context"

	"wakuchat/core/internal/conversation"
	"wakuchat/core/internal/crypto"
	"wakuchat/core/internal/transport"
	"wakuchat/core/internal/wire"
)

// SendMessage runs the eight-step send pipeline for a text message:
// look up the conversation, stamp and sign a ChatMessage, seal it
// under the conversation's session key, publish the envelope with
// retry, and persist it locally as sent. It returns the new message's
// id.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (string, error) {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return "", err
	}

	payload := wire.EncodeTextPayload(&wire.TextPayload{Content: content})
	return c.sendChatMessage(ctx, conv, wire.MessageText, payload)
}

// SendRevoke publishes a revoke for targetMessageID. It does not
// evaluate the can_revoke oracle before sending — the oracle is a
// receive-side permission check: every recipient, including peers who
// will discard it as denied, evaluates it independently against their
// own view of the original message's sender (see scenario where a
// non-sender, non-admin revoke is sent and rejected by recipients but
// not the sender's own client).
func (c *Client) SendRevoke(ctx context.Context, conversationID, targetMessageID, reason string) (string, error) {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return "", err
	}

	payload := wire.EncodeRevokePayload(&wire.RevokePayload{TargetMessageID: targetMessageID, Reason: reason})
	return c.sendChatMessage(ctx, conv, wire.MessageRevoke, payload)
}

func (c *Client) sendChatMessage(ctx context.Context, conv *conversation.Conversation, msgType wire.MessageType, payload []byte) (string, error) {
	senderID := c.identity.UserID()
	ts := nowMillis()
	mid, err := newMessageID(ts, senderID)
	if err != nil {
		return "", err
	}

	chatMsg := &wire.ChatMessage{
		MessageID:      mid,
		SenderID:       senderID,
		ConversationID: conv.ID,
		ConvType:       wire.ConversationType(conv.Type),
		Type:           msgType,
		Timestamp:      ts,
		Payload:        payload,
		Version:        1,
	}
	chatBytes := wire.EncodeChatMessage(chatMsg)

	preimage := signaturePreimage(mid, senderID, conv.ID, ts, typeName(msgType), payload)
	sig, err := c.identity.Sign(preimage)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := crypto.Encrypt(chatBytes, conv.SessionKey)
	if err != nil {
		return "", err
	}

	envelope := &wire.EncryptedEnvelope{
		EncryptedPayload: ciphertext,
		Nonce:            nonce,
		Signature:        sig,
		SenderID:         senderID,
		Timestamp:        ts,
		Version:          1,
	}
	envelopeBytes := wire.EncodeEnvelope(envelope)

	topic := topicForConversation(conv)
	if err := transport.ReliableSend(ctx, c.transport, topic, envelopeBytes, c.retryConfig); err != nil {
		return "", err
	}

	content := ""
	if msgType == wire.MessageText {
		if tp, err := wire.DecodeTextPayload(payload); err == nil {
			content = tp.Content
		}
	}
	msg := Message{
		MessageID:      mid,
		SenderID:       senderID,
		ConversationID: conv.ID,
		ConvType:       conv.Type,
		Type:           msgType,
		Timestamp:      ts,
		Content:        content,
		Verified:       true,
		Status:         StatusSent,
	}
	if err := c.persistMessage(msg); err != nil {
		return mid, err
	}
	c.dedupe.Add(mid)

	return mid, nil
}
