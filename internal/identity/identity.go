// Package identity holds a long-term secp256k1 key pair, derives the
// stable user identifier from its public key, and provides signing and
// ECDH helpers on top of internal/crypto.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"wakuchat/core/internal/crypto"
)

// ErrInvalidPrivateKey is returned when a private key cannot be loaded.
var ErrInvalidPrivateKey = errors.New("identity: invalid private key")

// Identity is a long-term secp256k1 key pair plus its derived user ID.
// It lives for the lifetime of the process and is passed by reference
// into the orchestrator.
type Identity struct {
	privateKey []byte
	publicKey  []byte
	userID     string
}

// Create generates a fresh random identity.
func Create() (*Identity, error) {
	sk, pk, err := crypto.KeyPair()
	if err != nil {
		return nil, err
	}
	return FromPrivateKey(sk)
}

// FromPrivateKey rebuilds an Identity from a raw 32-byte private scalar,
// re-deriving the public key and user ID.
func FromPrivateKey(sk []byte) (*Identity, error) {
	pk, err := crypto.PublicKeyFromPrivate(sk)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return &Identity{
		privateKey: append([]byte(nil), sk...),
		publicKey:  pk,
		userID:     DeriveUserID(pk),
	}, nil
}

// DeriveUserID computes hex(SHA-256(pk_compressed)[0:20]) — 40 lowercase
// hex characters — as a pure function of the compressed public key.
func DeriveUserID(compressedPublicKey []byte) string {
	h := sha256.Sum256(compressedPublicKey)
	return hex.EncodeToString(h[:20])
}

// UserID returns the identity's stable 40-hex-character identifier.
func (id *Identity) UserID() string { return id.userID }

// PublicKey returns the compressed 33-byte public key.
func (id *Identity) PublicKey() []byte { return append([]byte(nil), id.publicKey...) }

// PrivateKey returns the 32-byte private scalar. Callers that persist
// this value are responsible for encrypting it at rest (see Export).
func (id *Identity) PrivateKey() []byte { return append([]byte(nil), id.privateKey...) }

// Sign produces a compact 64-byte ECDSA signature over data.
func (id *Identity) Sign(data []byte) ([]byte, error) {
	return crypto.Sign(data, id.privateKey)
}

// Verify checks a compact 64-byte ECDSA signature over data against an
// arbitrary (not necessarily this identity's) public key. It never
// returns an error: malformed input simply fails to verify.
func Verify(data, sig, publicKey []byte) bool {
	return crypto.Verify(data, sig, publicKey)
}

// DeriveShared computes the ECDH shared secret x-coordinate between
// this identity's private key and a peer's compressed public key.
func (id *Identity) DeriveShared(peerPublicKey []byte) ([]byte, error) {
	return crypto.ECDH(id.privateKey, peerPublicKey)
}

// Destroy zero-initializes the private key material. The identity
// must not be used afterward.
func (id *Identity) Destroy() {
	for i := range id.privateKey {
		id.privateKey[i] = 0
	}
}
