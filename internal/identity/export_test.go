package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	corecrypto "wakuchat/core/internal/crypto"
)

func TestExportImportRoundTrip(t *testing.T) {
	id, err := Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	data, err := id.Export("correct horse battery staple")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	reloaded, err := Import(data, "correct horse battery staple")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if reloaded.UserID() != id.UserID() {
		t.Fatalf("user id mismatch after import")
	}
}

func TestImportWrongPasswordFails(t *testing.T) {
	id, err := Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	data, err := id.Export("pw1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := Import(data, "pw2"); err == nil {
		t.Fatalf("expected import with wrong password to fail")
	}
}

// TestPasswordImportMismatch implements scenario S6: export identity
// with password "pw1", mutate the publicKey field, import with "pw1"
// must fail with ErrIdentityMismatch.
func TestPasswordImportMismatch(t *testing.T) {
	id, err := Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	data, err := id.Export("pw1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	exp.PublicKeyHex = "00" + exp.PublicKeyHex[2:]
	tampered, err := json.Marshal(exp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	_, err = Import(tampered, "pw1")
	if err != ErrIdentityMismatch {
		t.Fatalf("expected ErrIdentityMismatch, got %v", err)
	}
}

func TestImportLegacyVersion1(t *testing.T) {
	id, err := Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sum := sha256.Sum256([]byte("legacy-pw"))
	ciphertext, nonce, err := corecrypto.Encrypt(id.PrivateKey(), sum[:])
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	legacy := Export{
		Version:          exportVersionSHA256,
		UserID:           id.UserID(),
		PublicKeyHex:     hex.EncodeToString(id.PublicKey()),
		EncryptedPrivHex: hex.EncodeToString(ciphertext),
		NonceHex:         hex.EncodeToString(nonce),
	}
	data, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	reloaded, err := Import(data, "legacy-pw")
	if err != nil {
		t.Fatalf("import legacy export: %v", err)
	}
	if reloaded.UserID() != id.UserID() {
		t.Fatalf("user id mismatch importing legacy export")
	}
}
