// Package wire implements the binary envelope codec: a hand-rolled,
// protobuf-wire-format-compatible encoder/decoder for ChatMessage,
// EncryptedEnvelope, TextPayload, and RevokePayload. The wire layout
// (field numbers, wire types, varint/length-delimited framing) matches
// the protobuf schema bit-for-bit so that a protoc-generated peer
// implementation stays interoperable, without requiring a code
// generator in this build.
package wire

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned when a buffer ends in the middle of a
// varint, tag, or length-delimited field.
var ErrTruncated = errors.New("wire: truncated message")

// ErrMalformed is returned for a field whose wire type the decoder does
// not support (anything other than varint or length-delimited). Field
// values and UTF-8 are not validated.
var ErrMalformed = errors.New("wire: malformed message")

const (
	wireVarint = 0
	wireBytes  = 2
)

func appendTag(buf []byte, field int, wireType int) []byte {
	return binary.AppendUvarint(buf, uint64(field)<<3|uint64(wireType))
}

func appendVarintField(buf []byte, field int, v uint64) []byte {
	buf = appendTag(buf, field, wireVarint)
	return binary.AppendUvarint(buf, v)
}

func appendBytesField(buf []byte, field int, b []byte) []byte {
	buf = appendTag(buf, field, wireBytes)
	buf = binary.AppendUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}

func appendStringField(buf []byte, field int, s string) []byte {
	return appendBytesField(buf, field, []byte(s))
}

// fieldReader walks a buffer as a sequence of (field, wireType, value)
// records, copying every returned byte slice into an owned allocation
// so that callers never hold a view into the original buffer.
type fieldReader struct {
	buf []byte
	pos int
}

func newFieldReader(buf []byte) *fieldReader {
	return &fieldReader{buf: buf}
}

func (r *fieldReader) done() bool { return r.pos >= len(r.buf) }

func (r *fieldReader) readVarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, ErrTruncated
	}
	r.pos += n
	return v, nil
}

func (r *fieldReader) readTag() (field int, wireType int, err error) {
	v, err := r.readVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), int(v & 0x7), nil
}

func (r *fieldReader) readBytes() ([]byte, error) {
	n, err := r.readVarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.buf)-r.pos) {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

func (r *fieldReader) skip(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := r.readVarint()
		return err
	case wireBytes:
		_, err := r.readBytes()
		return err
	default:
		return ErrMalformed
	}
}
