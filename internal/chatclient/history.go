package chatclient

import (
	"context"
	"sort"

	"wakuchat/core/internal/crypto"
	"wakuchat/core/internal/transport"
	"wakuchat/core/internal/wire"
)

type decodedHistoryEntry struct {
	env      *wire.EncryptedEnvelope
	chatMsg  *wire.ChatMessage
	verified bool
}

// FetchHistory queries the transport's bounded history store and
// reconciles it in two passes: the first collects every verified
// revoke's target id into a tombstone set (persisting each as it
// goes, so a revoke discovered before its target arrives still takes
// effect), the second emits non-revoke messages in timestamp order,
// each annotated StatusRevoked if its id is tombstoned either by this
// fetch or by an earlier one. Envelopes that fail to decode or decrypt
// under the conversation's current key are silently skipped.
func (c *Client) FetchHistory(ctx context.Context, conversationID string, opts transport.HistoryQuery) ([]Message, error) {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return nil, err
	}

	topic := topicForConversation(conv)
	result, err := c.transport.QueryHistory(ctx, topic, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]decodedHistoryEntry, 0, len(result.Messages))
	skipped := 0
	for _, raw := range result.Messages {
		env, err := wire.DecodeEnvelope(raw)
		if err != nil {
			skipped++
			continue
		}
		plaintext, err := crypto.Decrypt(env.EncryptedPayload, conv.SessionKey, env.Nonce)
		if err != nil {
			skipped++
			continue
		}
		chatMsg, err := wire.DecodeChatMessage(plaintext)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, decodedHistoryEntry{
			env:      env,
			chatMsg:  chatMsg,
			verified: c.verifySenderQuiet(chatMsg, env),
		})
	}

	if skipped > 0 {
		c.log().Debug("history reconciliation skipped undecodable entries", "conv_id", conv.ID, "skipped", skipped, "total", len(result.Messages))
	}

	tombstones := make(map[string]bool)
	for _, e := range entries {
		if e.chatMsg.Type != wire.MessageRevoke || !e.verified {
			continue
		}
		revokePayload, err := wire.DecodeRevokePayload(e.chatMsg.Payload)
		if err != nil {
			continue
		}
		tombstones[revokePayload.TargetMessageID] = true
		_ = c.persistTombstone(revokePayload.TargetMessageID, e.chatMsg.SenderID, revokePayload.Reason)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].chatMsg.Timestamp < entries[j].chatMsg.Timestamp
	})

	out := make([]Message, 0, len(entries))
	for _, e := range entries {
		if e.chatMsg.Type == wire.MessageRevoke {
			continue
		}
		content := ""
		if e.chatMsg.Type == wire.MessageText {
			if tp, err := wire.DecodeTextPayload(e.chatMsg.Payload); err == nil {
				content = tp.Content
			}
		}
		status := StatusReceived
		alreadyTombstoned, _ := c.isTombstoned(e.chatMsg.MessageID)
		if tombstones[e.chatMsg.MessageID] || alreadyTombstoned {
			status = StatusRevoked
		}
		out = append(out, Message{
			MessageID:      e.chatMsg.MessageID,
			SenderID:       e.chatMsg.SenderID,
			ConversationID: conv.ID,
			ConvType:       conv.Type,
			Type:           e.chatMsg.Type,
			Timestamp:      e.chatMsg.Timestamp,
			Content:        content,
			Verified:       e.verified,
			Status:         status,
		})
	}
	return out, nil
}

// verifySenderQuiet is verifySender without the background-error
// side effects, appropriate for a bulk history scan where an
// unresolvable or invalid signature on any one entry is not itself
// noteworthy.
func (c *Client) verifySenderQuiet(chatMsg *wire.ChatMessage, env *wire.EncryptedEnvelope) bool {
	pk, ok := c.resolver.GetPublicKey(chatMsg.SenderID)
	if !ok {
		return false
	}
	preimage := signaturePreimage(chatMsg.MessageID, chatMsg.SenderID, chatMsg.ConversationID, chatMsg.Timestamp, typeName(chatMsg.Type), chatMsg.Payload)
	return crypto.Verify(preimage, env.Signature, pk)
}
