// Package chatclient orchestrates identity, conversation state, the
// wire codec, the dedupe cache, and a transport adapter into the
// send/receive/revoke/history pipelines a chat application drives.
package chatclient

import (
	"wakuchat/core/internal/conversation"
	"wakuchat/core/internal/wire"
)

// MessageStatus is the local lifecycle state of a message.
type MessageStatus string

const (
	StatusSent     MessageStatus = "sent"
	StatusReceived MessageStatus = "received"
	StatusRevoked  MessageStatus = "revoked"
)

// Message is the decrypted, application-facing view of a ChatMessage:
// what gets persisted locally and handed to subscription handlers.
type Message struct {
	MessageID      string
	SenderID       string
	ConversationID string
	ConvType       conversation.Type
	Type           wire.MessageType
	Timestamp      uint64
	Content        string
	Verified       bool
	Status         MessageStatus
}

// ErrorCategory classifies a background error for the error channel —
// never the subscription callback, which only ever sees successfully
// decoded, decrypted messages (see spec's receive-pipeline disposition
// table).
type ErrorCategory string

const (
	CategoryDecode     ErrorCategory = "decode"
	CategoryAead       ErrorCategory = "aead"
	CategorySignature  ErrorCategory = "signature"
	CategoryPermission ErrorCategory = "permission"
	CategoryTransport  ErrorCategory = "transport"
)

// CategorizedError is the value pushed to a Client's background error
// channel when something in the receive or dispatch path is dropped.
type CategorizedError struct {
	Category       ErrorCategory
	ConversationID string
	MessageID      string
	Err            error
}

func (e CategorizedError) Error() string { return string(e.Category) + ": " + e.Err.Error() }
