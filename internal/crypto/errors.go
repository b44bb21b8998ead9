// Package crypto implements the cryptographic suite: AES-256-GCM AEAD,
// ECDH and ECDSA on secp256k1, HKDF-SHA256 key derivation, and ECIES
// hybrid encryption for per-recipient key distribution. The package is
// stateless — every function is a pure transform over its inputs.
package crypto

import "errors"

var (
	// ErrAeadAuth is returned when AEAD decryption fails tag verification.
	ErrAeadAuth = errors.New("crypto: aead authentication failed")
	// ErrInvalidKeyLength is returned when a symmetric key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("crypto: key must be 32 bytes")
	// ErrInvalidNonceLength is returned when a nonce is not 12 bytes.
	ErrInvalidNonceLength = errors.New("crypto: nonce must be 12 bytes")
	// ErrInvalidPrivateKey is returned for a malformed 32-byte scalar.
	ErrInvalidPrivateKey = errors.New("crypto: invalid private key")
	// ErrInvalidPublicKey is returned for a malformed compressed public key.
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")
	// ErrInvalidSignature names a signature that is not 64 bytes. Verify
	// reports such input as a failed verification and does not return it.
	ErrInvalidSignature = errors.New("crypto: invalid signature encoding")
	// ErrECIESCiphertext is returned for a malformed ECIES blob.
	ErrECIESCiphertext = errors.New("crypto: invalid ecies ciphertext")
)
