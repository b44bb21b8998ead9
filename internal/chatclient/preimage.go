package chatclient

import (
	"crypto/sha256"
	"strconv"

	"wakuchat/core/internal/wire"
)

// typeName maps a MessageType to the ASCII literal folded into the
// signature pre-image, matching the wire schema's enum names.
func typeName(t wire.MessageType) string {
	switch t {
	case wire.MessageText:
		return "TEXT"
	case wire.MessageRevoke:
		return "REVOKE"
	case wire.MessageKeyExchange:
		return "KEY_EXCHANGE"
	case wire.MessageGroupInvite:
		return "GROUP_INVITE"
	case wire.MessageGroupJoin:
		return "GROUP_JOIN"
	case wire.MessageGroupLeave:
		return "GROUP_LEAVE"
	case wire.MessageGroupKeyUpdate:
		return "GROUP_KEY_UPDATE"
	default:
		return "UNKNOWN"
	}
}

// signaturePreimage builds
// sha256(messageID || senderID || conversationID || ascii(timestamp) || typeName || sha256(payload))
// — the exact byte sequence that is then handed to crypto.Sign, which
// applies its own SHA-256 before the ECDSA signature, matching the
// doubly-hashed construction the wire format requires for interop.
func signaturePreimage(messageID, senderID, conversationID string, timestamp uint64, typeName string, payload []byte) []byte {
	payloadHash := sha256.Sum256(payload)
	var buf []byte
	buf = append(buf, messageID...)
	buf = append(buf, senderID...)
	buf = append(buf, conversationID...)
	buf = append(buf, strconv.FormatUint(timestamp, 10)...)
	buf = append(buf, typeName...)
	buf = append(buf, payloadHash[:]...)
	preimage := sha256.Sum256(buf)
	return preimage[:]
}
