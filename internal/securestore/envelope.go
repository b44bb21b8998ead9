// Package securestore frames the encrypted-at-rest envelope wakuchat
// writes its local key-value snapshot under (see store.FileStore). It shares internal/crypto's Argon2id-derived
// AES-256-GCM construction rather than rolling its own cipher, so the
// on-disk format and identity.Export's encrypted backup format are
// both instances of the same sealed-envelope shape.
package securestore

import (
	"encoding/json"
	"errors"
	"strings"

	"wakuchat/core/internal/crypto"
)

const (
	envelopeVersion = 1
	filePrefix      = "WAKUCHATSNAP1\n"
	kdfArgon2id     = "argon2id"
)

var (
	ErrAuthFailed = errors.New("securestore authentication failed")
	ErrInvalid    = errors.New("securestore envelope is invalid")
	ErrLegacyData = errors.New("securestore legacy plaintext data")
)

// Envelope is the on-disk JSON shape wrapping a snapshot's ciphertext.
// KDF cost parameters are not recorded per-envelope: they are fixed by
// internal/crypto's Argon2id constants for the running build.
type Envelope struct {
	Version    uint32 `json:"version"`
	KDF        string `json:"kdf"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Encrypt seals plaintext under passphrase and prefixes the result
// with filePrefix, the marker store.FileStore checks for before
// attempting to parse a snapshot file as an encrypted envelope.
func Encrypt(passphrase string, plaintext []byte) ([]byte, error) {
	env, err := EncryptEnvelope(passphrase, plaintext)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(filePrefix), raw...), nil
}

// EncryptEnvelope seals plaintext under passphrase, deriving the key
// with a fresh random Argon2id salt.
func EncryptEnvelope(passphrase string, plaintext []byte) (*Envelope, error) {
	ciphertext, nonce, salt, err := crypto.SealWithPassphrase(passphrase, plaintext)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Version:    envelopeVersion,
		KDF:        kdfArgon2id,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// Decrypt strips filePrefix and opens the envelope it wraps. Data that
// does not carry filePrefix is reported as ErrLegacyData rather than
// ErrInvalid, so callers can distinguish pre-encryption snapshots from
// corrupted ones.
func Decrypt(passphrase string, data []byte) ([]byte, error) {
	if !strings.HasPrefix(string(data), filePrefix) {
		return nil, ErrLegacyData
	}
	data = data[len(filePrefix):]
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrInvalid
	}
	return DecryptEnvelope(passphrase, &env)
}

// DecryptEnvelope opens env under passphrase.
func DecryptEnvelope(passphrase string, env *Envelope) ([]byte, error) {
	if !isValidEnvelope(env) {
		return nil, ErrInvalid
	}
	plaintext, err := crypto.OpenWithPassphrase(passphrase, env.Ciphertext, env.Nonce, env.Salt)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func isValidEnvelope(env *Envelope) bool {
	if env == nil {
		return false
	}
	if env.Version != envelopeVersion || env.KDF != kdfArgon2id {
		return false
	}
	if len(env.Salt) != crypto.Argon2SaltSize || len(env.Nonce) != crypto.NonceSize || len(env.Ciphertext) == 0 {
		return false
	}
	return true
}
