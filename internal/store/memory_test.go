package store

import "testing"

func TestMemoryStoreGetSetDelete(t *testing.T) {
	s := NewMemoryStore()
	if _, ok, _ := s.Get("a"); ok {
		t.Fatalf("expected missing key to report ok=false")
	}
	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, _ := s.Get("a")
	if !ok || v != "1" {
		t.Fatalf("unexpected get result: %q, %v", v, ok)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("a"); ok {
		t.Fatalf("expected deleted key to be gone")
	}
}

func TestMemoryStoreListByPrefix(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set(MessageKey("conv-1", "m1"), "payload-1")
	_ = s.Set(MessageKey("conv-1", "m2"), "payload-2")
	_ = s.Set(MessageKey("conv-2", "m3"), "payload-3")

	keys, err := s.List(MessagePrefix("conv-1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys for conv-1, got %d", len(keys))
	}
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set("a", "1")
	_ = s.Clear()
	if _, ok, _ := s.Get("a"); ok {
		t.Fatalf("expected clear to remove all keys")
	}
}
