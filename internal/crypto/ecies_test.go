package crypto

import "testing"

func TestECIESRoundTrip(t *testing.T) {
	sk, pk, err := KeyPair()
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	plaintext := []byte("group session key material")

	blob, err := ECIESEncrypt(plaintext, pk)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := ECIESDecrypt(blob, sk)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
	}
}

func TestECIESWrongKeyFails(t *testing.T) {
	_, pk, err := KeyPair()
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	skOther, _, err := KeyPair()
	if err != nil {
		t.Fatalf("keypair other: %v", err)
	}
	blob, err := ECIESEncrypt([]byte("secret"), pk)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := ECIESDecrypt(blob, skOther); err == nil {
		t.Fatalf("expected decrypt under wrong key to fail")
	}
}

func TestECIESRejectsTruncatedBlob(t *testing.T) {
	sk, _, err := KeyPair()
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	if _, err := ECIESDecrypt(make([]byte, 10), sk); err != ErrECIESCiphertext {
		t.Fatalf("expected ErrECIESCiphertext, got %v", err)
	}
}
