package securestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// NormalizeStorageConfig trims the key-value snapshot path and
// passphrase store.FileStore is configured with, so a config value
// padded with stray whitespace doesn't silently disable encryption.
func NormalizeStorageConfig(path, secret string) (string, string) {
	return strings.TrimSpace(path), strings.TrimSpace(secret)
}

// IsStorageConfigured reports whether store.FileStore has both a
// snapshot path and a passphrase configured, and should therefore
// persist its key-value snapshot to disk at all.
func IsStorageConfigured(path, secret string) bool {
	return strings.TrimSpace(path) != "" && strings.TrimSpace(secret) != ""
}

// ReadDecryptedFile loads store.FileStore's snapshot file from path
// and opens it with secret, returning the serialized key-value
// snapshot that was sealed by WriteEncryptedJSON.
func ReadDecryptedFile(path, secret string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decrypt(secret, raw)
}

// WriteEncryptedJSON marshals v (store.FileStore's key-value
// snapshot), seals it under secret, and writes
// it to path, creating parent directories as needed.
func WriteEncryptedJSON(path, secret string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	encrypted, err := Encrypt(secret, payload)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, encrypted, 0o600)
}
