package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey runs HKDF-SHA256 extract-then-expand over ikm with the given
// salt and info string, returning length bytes of key material from a
// single Read of the expand step. Callers that need multiple sub-keys
// derive one longer block and slice it, rather than calling Expand
// more than once.
func DeriveKey(ikm, salt, info []byte, length int) ([]byte, error) {
	reader := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
