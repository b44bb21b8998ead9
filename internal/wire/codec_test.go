package wire

import (
	"bytes"
	"testing"
)

func TestChatMessageRoundTrip(t *testing.T) {
	cases := []*ChatMessage{
		{
			MessageID:      "mid-1",
			SenderID:       "sender-1",
			ConversationID: "conv-1",
			ConvType:       ConversationDirect,
			Type:           MessageText,
			Timestamp:      1700000000000,
			Payload:        []byte("hello"),
			Version:        1,
		},
		{
			MessageID:      "mid-2",
			SenderID:       "sender-2",
			ConversationID: "conv-2",
			ConvType:       ConversationGroup,
			Type:           MessageRevoke,
			Timestamp:      0,
			Payload:        nil,
			Version:        1,
		},
	}
	for _, want := range cases {
		encoded := EncodeChatMessage(want)
		got, err := DecodeChatMessage(encoded)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.MessageID != want.MessageID || got.SenderID != want.SenderID ||
			got.ConversationID != want.ConversationID || got.ConvType != want.ConvType ||
			got.Type != want.Type || got.Timestamp != want.Timestamp ||
			!bytes.Equal(got.Payload, want.Payload) || got.Version != want.Version {
			t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
		}
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	want := &EncryptedEnvelope{
		EncryptedPayload: []byte{1, 2, 3, 4},
		Nonce:            bytes.Repeat([]byte{0xAB}, 12),
		Signature:        bytes.Repeat([]byte{0xCD}, 64),
		SenderID:         "sender-1",
		Timestamp:        1700000000000,
		Version:          1,
	}
	encoded := EncodeEnvelope(want)
	got, err := DecodeEnvelope(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got.EncryptedPayload, want.EncryptedPayload) ||
		!bytes.Equal(got.Nonce, want.Nonce) ||
		!bytes.Equal(got.Signature, want.Signature) ||
		got.SenderID != want.SenderID || got.Timestamp != want.Timestamp ||
		got.Version != want.Version {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestDecodedBuffersAreOwned(t *testing.T) {
	original := []byte("mutate me")
	want := &TextPayload{Content: string(original)}
	encoded := EncodeTextPayload(want)

	got, err := DecodeTextPayload(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range encoded {
		encoded[i] = 0
	}
	if got.Content != "mutate me" {
		t.Fatalf("decoded payload aliases the source buffer")
	}
}

func TestRevokePayloadRoundTrip(t *testing.T) {
	want := &RevokePayload{TargetMessageID: "mid-1", Reason: "mistake"}
	encoded := EncodeRevokePayload(want)
	got, err := DecodeRevokePayload(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TargetMessageID != want.TargetMessageID || got.Reason != want.Reason {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestDecodeTruncatedFails(t *testing.T) {
	want := &ChatMessage{MessageID: "mid", SenderID: "s", ConversationID: "c", Payload: []byte("x")}
	encoded := EncodeChatMessage(want)
	// The encoding ends with payload (3a 01 78) then version (40 00);
	// dropping three bytes cuts the payload field after its length prefix.
	if _, err := DecodeChatMessage(encoded[:len(encoded)-3]); err == nil {
		t.Fatalf("expected truncated decode to fail")
	}
}
