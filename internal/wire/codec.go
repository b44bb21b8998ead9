package wire

// EncodeChatMessage serializes m per the ChatMessage schema:
//
//	string message_id = 1; string sender_id = 2; string conversation_id = 3;
//	ConversationType conv_type = 4; MessageType type = 5;
//	uint64 timestamp = 6; bytes payload = 7; uint32 version = 8;
func EncodeChatMessage(m *ChatMessage) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, m.MessageID)
	buf = appendStringField(buf, 2, m.SenderID)
	buf = appendStringField(buf, 3, m.ConversationID)
	buf = appendVarintField(buf, 4, uint64(m.ConvType))
	buf = appendVarintField(buf, 5, uint64(m.Type))
	buf = appendVarintField(buf, 6, m.Timestamp)
	buf = appendBytesField(buf, 7, m.Payload)
	buf = appendVarintField(buf, 8, uint64(m.Version))
	return buf
}

// DecodeChatMessage reverses EncodeChatMessage. Every returned byte
// slice and string is backed by a fresh allocation.
func DecodeChatMessage(data []byte) (*ChatMessage, error) {
	r := newFieldReader(data)
	m := &ChatMessage{}
	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			m.MessageID = string(b)
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			m.SenderID = string(b)
		case 3:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			m.ConversationID = string(b)
		case 4:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			m.ConvType = ConversationType(v)
		case 5:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			m.Type = MessageType(v)
		case 6:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			m.Timestamp = v
		case 7:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			m.Payload = b
		case 8:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			m.Version = uint32(v)
		default:
			if err := r.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// EncodeEnvelope serializes e per the EncryptedEnvelope schema:
//
//	bytes encrypted_payload = 1; bytes nonce = 2; bytes signature = 3;
//	string sender_id = 4; uint64 timestamp = 5; uint32 version = 6;
func EncodeEnvelope(e *EncryptedEnvelope) []byte {
	var buf []byte
	buf = appendBytesField(buf, 1, e.EncryptedPayload)
	buf = appendBytesField(buf, 2, e.Nonce)
	buf = appendBytesField(buf, 3, e.Signature)
	buf = appendStringField(buf, 4, e.SenderID)
	buf = appendVarintField(buf, 5, e.Timestamp)
	buf = appendVarintField(buf, 6, uint64(e.Version))
	return buf
}

// DecodeEnvelope reverses EncodeEnvelope.
func DecodeEnvelope(data []byte) (*EncryptedEnvelope, error) {
	r := newFieldReader(data)
	e := &EncryptedEnvelope{}
	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			e.EncryptedPayload = b
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			e.Nonce = b
		case 3:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			e.Signature = b
		case 4:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			e.SenderID = string(b)
		case 5:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			e.Timestamp = v
		case 6:
			v, err := r.readVarint()
			if err != nil {
				return nil, err
			}
			e.Version = uint32(v)
		default:
			if err := r.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

// EncodeTextPayload serializes a TextPayload: string content = 1.
func EncodeTextPayload(p *TextPayload) []byte {
	return appendStringField(nil, 1, p.Content)
}

// DecodeTextPayload reverses EncodeTextPayload.
func DecodeTextPayload(data []byte) (*TextPayload, error) {
	r := newFieldReader(data)
	p := &TextPayload{}
	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return nil, err
		}
		if field == 1 {
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			p.Content = string(b)
			continue
		}
		if err := r.skip(wireType); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// EncodeRevokePayload serializes a RevokePayload:
// string target_message_id = 1; string reason = 2.
func EncodeRevokePayload(p *RevokePayload) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, p.TargetMessageID)
	buf = appendStringField(buf, 2, p.Reason)
	return buf
}

// DecodeRevokePayload reverses EncodeRevokePayload.
func DecodeRevokePayload(data []byte) (*RevokePayload, error) {
	r := newFieldReader(data)
	p := &RevokePayload{}
	for !r.done() {
		field, wireType, err := r.readTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			p.TargetMessageID = string(b)
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return nil, err
			}
			p.Reason = string(b)
		default:
			if err := r.skip(wireType); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}
