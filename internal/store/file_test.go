package store

import (
	"path/filepath"
	"testing"
)

func TestFileStoreRejectsUnconfigured(t *testing.T) {
	if _, err := NewFileStore("", ""); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.enc")
	secret := "correct horse battery staple"

	s1, err := NewFileStore(path, secret)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Set("conversation:abc", "payload"); err != nil {
		t.Fatalf("set: %v", err)
	}

	s2, err := NewFileStore(path, secret)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := s2.Get("conversation:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || v != "payload" {
		t.Fatalf("expected persisted value to survive reopen, got %q, %v", v, ok)
	}
}

func TestFileStoreWrongSecretFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.enc")
	s1, err := NewFileStore(path, "pw1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, err := NewFileStore(path, "pw2"); err == nil {
		t.Fatalf("expected reopen with wrong secret to fail")
	}
}
