package crypto

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters shared by every passphrase-derived key in
// the module: identity.Export's encrypted private-key backup and
// securestore's encrypted local snapshot both derive their AES-256-GCM
// key this way.
const (
	Argon2Time     = uint32(2)
	Argon2MemoryKB = uint32(64 * 1024)
	Argon2Threads  = uint8(1)
	Argon2SaltSize = 16
)

// DeriveKeyArgon2id derives a KeySize-length AES key from passphrase
// and salt at the module's fixed Argon2id cost parameters.
func DeriveKeyArgon2id(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, Argon2Time, Argon2MemoryKB, Argon2Threads, KeySize)
}

// SealWithPassphrase derives a key from passphrase under a fresh
// random salt and seals plaintext with Encrypt. The returned salt must
// accompany ciphertext/nonce for OpenWithPassphrase to reverse it.
func SealWithPassphrase(passphrase string, plaintext []byte) (ciphertext, nonce, salt []byte, err error) {
	salt = make([]byte, Argon2SaltSize)
	if _, err = io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, nil, err
	}
	key := DeriveKeyArgon2id(passphrase, salt)
	defer zeroKey(key)

	ciphertext, nonce, err = Encrypt(plaintext, key)
	if err != nil {
		return nil, nil, nil, err
	}
	return ciphertext, nonce, salt, nil
}

// OpenWithPassphrase is the inverse of SealWithPassphrase.
func OpenWithPassphrase(passphrase string, ciphertext, nonce, salt []byte) ([]byte, error) {
	key := DeriveKeyArgon2id(passphrase, salt)
	defer zeroKey(key)
	return Decrypt(ciphertext, key, nonce)
}

func zeroKey(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
