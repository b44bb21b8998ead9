package securestore

import (
	"encoding/json"
	"errors"
	"testing"

	"wakuchat/core/internal/crypto"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	data, err := Encrypt("pass", []byte("snapshot"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	plain, err := Decrypt("pass", data)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if string(plain) != "snapshot" {
		t.Fatalf("unexpected plaintext: %q", string(plain))
	}
}

func TestEncryptEnvelopeFieldSizes(t *testing.T) {
	env, err := EncryptEnvelope("pass", []byte("snapshot"))
	if err != nil {
		t.Fatalf("encrypt envelope failed: %v", err)
	}
	if env.KDF != kdfArgon2id {
		t.Fatalf("expected kdf %q, got %q", kdfArgon2id, env.KDF)
	}
	if len(env.Salt) != crypto.Argon2SaltSize {
		t.Fatalf("expected salt length %d, got %d", crypto.Argon2SaltSize, len(env.Salt))
	}
	if len(env.Nonce) != crypto.NonceSize {
		t.Fatalf("expected nonce length %d, got %d", crypto.NonceSize, len(env.Nonce))
	}
}

func TestDecryptTamperedFailsDeterministically(t *testing.T) {
	data, err := Encrypt("pass", []byte("snapshot"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if len(data) < 10 {
		t.Fatalf("unexpected encrypted payload size: %d", len(data))
	}
	data[len(data)-2] ^= 0xFF
	_, err = Decrypt("pass", data)
	if !errors.Is(err, ErrAuthFailed) && !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptWrongPassphraseFailsAuth(t *testing.T) {
	data, err := Encrypt("correct-horse", []byte("snapshot"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	_, err = Decrypt("wrong-horse", data)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptLegacyPlaintextReportsLegacyData(t *testing.T) {
	_, err := Decrypt("pass", []byte(`{"conversations":[]}`))
	if !errors.Is(err, ErrLegacyData) {
		t.Fatalf("expected ErrLegacyData, got %v", err)
	}
}

func TestDecryptRejectsUnknownEnvelopeVersion(t *testing.T) {
	env, err := EncryptEnvelope("pass", []byte("snapshot"))
	if err != nil {
		t.Fatalf("encrypt envelope failed: %v", err)
	}
	env.Version = envelopeVersion + 1
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	data := append([]byte(filePrefix), raw...)

	_, err = Decrypt("pass", data)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
