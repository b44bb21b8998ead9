package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	corecrypto "wakuchat/core/internal/crypto"
)

// ErrIdentityMismatch is returned when a decrypted private key does not
// re-derive the public key or user ID recorded in the export envelope.
var ErrIdentityMismatch = errors.New("identity: exported identity does not match stored fields")

// ErrUnsupportedVersion is returned for an export envelope whose
// version field this build does not know how to import.
var ErrUnsupportedVersion = errors.New("identity: unsupported export version")

const (
	// exportVersionSHA256 is the original export scheme: the
	// encryption key is SHA-256(password), no work factor. Kept
	// importable forever for backward compatibility.
	exportVersionSHA256 = 1
	// exportVersionArgon2id adds a KDF field and derives the
	// encryption key with Argon2id (via internal/crypto), guarding
	// against brute-force password search. New exports default to
	// this version.
	exportVersionArgon2id = 2

	kdfArgon2id = "argon2id"
)

// Export is the JSON shape persisted by the caller. Version 1 predates
// the kdf/salt fields and derives its key as SHA-256(password); version
// 2 adds an explicit kdf tag and an Argon2id-derived key sealed with
// internal/crypto's AES-256-GCM primitive. Both remain importable.
type Export struct {
	Version          int    `json:"version"`
	UserID           string `json:"userId"`
	PublicKeyHex     string `json:"publicKey"`
	EncryptedPrivHex string `json:"encryptedPrivateKey"`
	NonceHex         string `json:"nonce"`
	KDF              string `json:"kdf,omitempty"`
	SaltHex          string `json:"salt,omitempty"`
}

// Export encrypts the identity's private key under a key derived from
// password using the Argon2id scheme (version 2), sealing it with the
// same AES-256-GCM construction the rest of the module uses.
func (id *Identity) Export(password string) ([]byte, error) {
	ciphertext, nonce, salt, err := corecrypto.SealWithPassphrase(password, id.privateKey)
	if err != nil {
		return nil, err
	}

	exp := Export{
		Version:          exportVersionArgon2id,
		UserID:           id.userID,
		PublicKeyHex:     hex.EncodeToString(id.publicKey),
		EncryptedPrivHex: hex.EncodeToString(ciphertext),
		NonceHex:         hex.EncodeToString(nonce),
		KDF:              kdfArgon2id,
		SaltHex:          hex.EncodeToString(salt),
	}
	return json.Marshal(exp)
}

// Import decrypts an exported identity with password, re-derives the
// public key and user ID from the recovered private key, and rejects
// the import with ErrIdentityMismatch if either disagrees with the
// stored fields.
func Import(data []byte, password string) (*Identity, error) {
	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, err
	}

	ciphertext, err := hex.DecodeString(exp.EncryptedPrivHex)
	if err != nil {
		return nil, ErrIdentityMismatch
	}
	nonce, err := hex.DecodeString(exp.NonceHex)
	if err != nil {
		return nil, ErrIdentityMismatch
	}

	sk, err := decryptExportedKey(&exp, password, ciphertext, nonce)
	if err != nil {
		return nil, err
	}

	id, err := FromPrivateKey(sk)
	if err != nil {
		return nil, ErrIdentityMismatch
	}

	if hex.EncodeToString(id.publicKey) != exp.PublicKeyHex {
		return nil, ErrIdentityMismatch
	}
	if id.userID != exp.UserID {
		return nil, ErrIdentityMismatch
	}
	return id, nil
}

// decryptExportedKey recovers the raw private key from an export
// envelope, dispatching to the key-derivation scheme named by the
// envelope's version.
func decryptExportedKey(exp *Export, password string, ciphertext, nonce []byte) ([]byte, error) {
	switch exp.Version {
	case exportVersionSHA256:
		sum := sha256.Sum256([]byte(password))
		sk, err := corecrypto.Decrypt(ciphertext, sum[:], nonce)
		if err != nil {
			return nil, ErrIdentityMismatch
		}
		return sk, nil
	case exportVersionArgon2id:
		if exp.KDF != kdfArgon2id {
			return nil, ErrUnsupportedVersion
		}
		salt, err := hex.DecodeString(exp.SaltHex)
		if err != nil {
			return nil, ErrIdentityMismatch
		}
		sk, err := corecrypto.OpenWithPassphrase(password, ciphertext, nonce, salt)
		if err != nil {
			return nil, ErrIdentityMismatch
		}
		return sk, nil
	default:
		return nil, ErrUnsupportedVersion
	}
}
