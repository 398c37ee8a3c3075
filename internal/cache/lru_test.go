package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(2, time.Hour)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Get("a") // touch a, making b the LRU entry
	c.Set("c", []byte("3"))

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c to be present")
	}
}

func TestLRUExpiresEntries(t *testing.T) {
	c := NewLRU(4, time.Millisecond)
	c.Set("a", []byte("1"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}
