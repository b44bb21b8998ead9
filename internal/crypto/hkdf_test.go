package crypto

import "testing"

func TestDeriveKeyDeterministic(t *testing.T) {
	ikm := []byte("shared secret material")
	salt := []byte("salt")
	info := []byte("info-string")

	a, err := DeriveKey(ikm, salt, info, 32)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	b, err := DeriveKey(ikm, salt, info, 32)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("derivation not deterministic")
	}
}

func TestDeriveKeyVariesWithInfo(t *testing.T) {
	ikm := []byte("shared secret material")
	salt := []byte("salt")

	a, err := DeriveKey(ikm, salt, []byte("key-a"), 32)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	b, err := DeriveKey(ikm, salt, []byte("key-b"), 32)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if string(a) == string(b) {
		t.Fatalf("expected distinct sub-keys for distinct info strings")
	}
}

func TestDeriveKeyLengthRespected(t *testing.T) {
	out, err := DeriveKey([]byte("ikm"), nil, []byte("info"), 64)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(out) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(out))
	}
}
