package wire

// ConversationType distinguishes two-party direct conversations from
// N-party groups.
type ConversationType uint32

const (
	ConversationDirect ConversationType = 0
	ConversationGroup  ConversationType = 1
)

// MessageType tags the payload carried inside a ChatMessage.
type MessageType uint32

const (
	MessageText           MessageType = 0
	MessageRevoke         MessageType = 1
	MessageKeyExchange    MessageType = 2
	MessageGroupInvite    MessageType = 3
	MessageGroupJoin      MessageType = 4
	MessageGroupLeave     MessageType = 5
	MessageGroupKeyUpdate MessageType = 6
)

// ChatMessage is the plaintext message structure, signed and then
// encrypted into an EncryptedEnvelope for transport.
type ChatMessage struct {
	MessageID      string
	SenderID       string
	ConversationID string
	ConvType       ConversationType
	Type           MessageType
	Timestamp      uint64
	Payload        []byte
	Version        uint32
}

// EncryptedEnvelope is the on-wire object: sender_id and timestamp are
// deliberately left in the clear so a receiver can look up the
// sender's verification key and reject obvious duplicates before
// attempting decryption.
type EncryptedEnvelope struct {
	EncryptedPayload []byte
	Nonce            []byte
	Signature        []byte
	SenderID         string
	Timestamp        uint64
	Version          uint32
}

// TextPayload is the Payload contents of a MessageText ChatMessage.
type TextPayload struct {
	Content string
}

// RevokePayload is the Payload contents of a MessageRevoke ChatMessage.
type RevokePayload struct {
	TargetMessageID string
	Reason          string
}
