package dedupe

import (
	"fmt"
	"testing"
	"time"
)

// TestCheckAndAddIdempotence implements invariant 7: check_and_add(id)
// returns true on subsequent calls with the same id within TTL and
// capacity.
func TestCheckAndAddIdempotence(t *testing.T) {
	c := NewDefault()
	if c.CheckAndAdd("mid-1") {
		t.Fatalf("expected first check_and_add to report not-duplicate")
	}
	if !c.CheckAndAdd("mid-1") {
		t.Fatalf("expected second check_and_add to report duplicate")
	}
	if !c.CheckAndAdd("mid-1") {
		t.Fatalf("expected third check_and_add to report duplicate")
	}
}

func TestIsDuplicateAfterAdd(t *testing.T) {
	c := NewDefault()
	if c.IsDuplicate("mid-1") {
		t.Fatalf("expected unseen id to not be a duplicate")
	}
	c.Add("mid-1")
	if !c.IsDuplicate("mid-1") {
		t.Fatalf("expected added id to be a duplicate")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(time.Millisecond, DefaultCapacity)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	c.Add("mid-1")
	if !c.IsDuplicate("mid-1") {
		t.Fatalf("expected entry to still be live immediately after insert")
	}

	fakeNow = fakeNow.Add(2 * time.Millisecond)
	if c.IsDuplicate("mid-1") {
		t.Fatalf("expected entry to expire after TTL elapsed")
	}
}

func TestCapacityEvictsOldestTenPercent(t *testing.T) {
	c := New(time.Hour, 10)
	for i := 0; i < 10; i++ {
		c.Add(fmt.Sprintf("mid-%d", i))
	}
	if c.Len() != 10 {
		t.Fatalf("expected 10 entries, got %d", c.Len())
	}

	c.Add("mid-new")
	if c.Len() > 10 {
		t.Fatalf("expected capacity to be enforced, got %d entries", c.Len())
	}
	if !c.IsDuplicate("mid-new") {
		t.Fatalf("expected newly added entry to survive eviction")
	}
	if c.IsDuplicate("mid-0") {
		t.Fatalf("expected the oldest entry to be evicted")
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := NewDefault()
	c.Add("mid-1")
	c.Add("mid-2")
	c.Remove("mid-1")
	if c.IsDuplicate("mid-1") {
		t.Fatalf("expected removed id to no longer be a duplicate")
	}
	if !c.IsDuplicate("mid-2") {
		t.Fatalf("expected mid-2 to remain")
	}
	c.Clear()
	if c.IsDuplicate("mid-2") {
		t.Fatalf("expected clear to remove all entries")
	}
}
