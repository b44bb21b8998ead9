package chatclient

import (
	"time"

	"wakuchat/core/internal/conversation"
	"wakuchat/core/internal/crypto"
	"wakuchat/core/internal/metrics"
	"wakuchat/core/internal/wire"
)

// onEnvelope is the transport delivery callback registered per
// conversation: decode, decrypt, decode again, dedupe, resolve and
// verify the sender, then dispatch to the revoke handler or fan out a
// delivered message. Every failure short-circuits with a silent drop
// from the subscription handler's point of view — a CategorizedError
// is pushed to the background error channel instead.
func (c *Client) onEnvelope(conversationID string, raw []byte) {
	env, err := wire.DecodeEnvelope(raw)
	if err != nil {
		metrics.DecodeFailures.Inc()
		c.log().Debug("dropping envelope: decode failed", "conv_id", conversationID, "err", err)
		c.recordError(CategorizedError{Category: CategoryDecode, ConversationID: conversationID, Err: err})
		return
	}

	conv, err := c.getConversation(conversationID)
	if err != nil {
		c.recordError(CategorizedError{Category: CategoryDecode, ConversationID: conversationID, Err: err})
		return
	}

	plaintext, err := crypto.Decrypt(env.EncryptedPayload, conv.SessionKey, env.Nonce)
	if err != nil {
		metrics.AeadAuthFailures.Inc()
		c.log().Debug("dropping envelope: aead open failed", "conv_id", conversationID, "err", err)
		c.recordError(CategorizedError{Category: CategoryAead, ConversationID: conversationID, Err: err})
		return
	}

	chatMsg, err := wire.DecodeChatMessage(plaintext)
	if err != nil {
		metrics.DecodeFailures.Inc()
		c.log().Debug("dropping envelope: chat message decode failed", "conv_id", conversationID, "err", err)
		c.recordError(CategorizedError{Category: CategoryDecode, ConversationID: conversationID, Err: err})
		return
	}

	if !c.senderLimiter.Allow(chatMsg.SenderID, time.Now()) {
		c.log().Warn("dropping envelope: sender exceeded inbound rate limit", "conv_id", conversationID, "sender_id", chatMsg.SenderID)
		return
	}

	if c.dedupe.CheckAndAdd(chatMsg.MessageID) {
		return
	}

	verified := c.verifySender(chatMsg, env)

	if chatMsg.Type == wire.MessageRevoke {
		c.handleRevoke(conv, chatMsg, verified)
		return
	}

	c.deliverMessage(conv, chatMsg, verified)
}

// verifySender resolves chatMsg.SenderID's public key and checks
// env.Signature against the same pre-image the sender signed. An
// unresolvable sender yields verified=false rather than an error —
// messages from unknown senders are still delivered, just unverified.
func (c *Client) verifySender(chatMsg *wire.ChatMessage, env *wire.EncryptedEnvelope) bool {
	pk, ok := c.resolver.GetPublicKey(chatMsg.SenderID)
	if !ok {
		c.log().Warn("sender public key unresolvable", "conv_id", chatMsg.ConversationID, "sender_id", chatMsg.SenderID, "message_id", chatMsg.MessageID)
		c.recordError(CategorizedError{
			Category:       CategorySignature,
			ConversationID: chatMsg.ConversationID,
			MessageID:      chatMsg.MessageID,
			Err:            ErrSenderUnknown,
		})
		return false
	}
	preimage := signaturePreimage(chatMsg.MessageID, chatMsg.SenderID, chatMsg.ConversationID, chatMsg.Timestamp, typeName(chatMsg.Type), chatMsg.Payload)
	verified := crypto.Verify(preimage, env.Signature, pk)
	if !verified {
		metrics.SignatureFailures.Inc()
		c.log().Warn("signature verification failed", "conv_id", chatMsg.ConversationID, "sender_id", chatMsg.SenderID, "message_id", chatMsg.MessageID)
		c.recordError(CategorizedError{
			Category:       CategorySignature,
			ConversationID: chatMsg.ConversationID,
			MessageID:      chatMsg.MessageID,
			Err:            ErrSignatureInvalid,
		})
	}
	return verified
}

func (c *Client) deliverMessage(conv *conversation.Conversation, chatMsg *wire.ChatMessage, verified bool) {
	content := ""
	if chatMsg.Type == wire.MessageText {
		if tp, err := wire.DecodeTextPayload(chatMsg.Payload); err == nil {
			content = tp.Content
		}
	}

	status := StatusReceived
	if tombstoned, err := c.isTombstoned(chatMsg.MessageID); err == nil && tombstoned {
		status = StatusRevoked
	}

	msg := Message{
		MessageID:      chatMsg.MessageID,
		SenderID:       chatMsg.SenderID,
		ConversationID: conv.ID,
		ConvType:       conv.Type,
		Type:           chatMsg.Type,
		Timestamp:      chatMsg.Timestamp,
		Content:        content,
		Verified:       verified,
		Status:         status,
	}
	_ = c.persistMessage(msg)
	c.fanOut(conv.ID, msg)
}

// handleRevoke implements the revoke handler's four-step disposition:
// discard an unverified revoke, discard one the oracle denies against
// a locally known original sender, otherwise stage the tombstone (even
// if the original message has not arrived yet) and always fan out a
// synthetic revoked Message once the revoke itself is accepted.
func (c *Client) handleRevoke(conv *conversation.Conversation, chatMsg *wire.ChatMessage, verified bool) {
	if !verified {
		return
	}

	revokePayload, err := wire.DecodeRevokePayload(chatMsg.Payload)
	if err != nil {
		c.recordError(CategorizedError{Category: CategoryDecode, ConversationID: conv.ID, MessageID: chatMsg.MessageID, Err: err})
		return
	}
	targetID := revokePayload.TargetMessageID

	original, found, err := c.loadMessage(conv.ID, targetID)
	if err == nil && found {
		if !conv.CanRevoke(chatMsg.SenderID, original.SenderID) {
			c.log().Warn("revoke denied: sender is neither original sender nor admin",
				"conv_id", conv.ID, "message_id", targetID, "revoker_id", chatMsg.SenderID, "original_sender_id", original.SenderID)
			c.recordError(CategorizedError{
				Category:       CategoryPermission,
				ConversationID: conv.ID,
				MessageID:      targetID,
				Err:            ErrPermissionDenied,
			})
			return
		}
	}

	_ = c.persistTombstone(targetID, chatMsg.SenderID, revokePayload.Reason)
	if found {
		_ = c.markRevokedLocally(conv.ID, targetID)
	}

	c.fanOut(conv.ID, Message{
		MessageID:      targetID,
		ConversationID: conv.ID,
		ConvType:       conv.Type,
		Status:         StatusRevoked,
	})
}
