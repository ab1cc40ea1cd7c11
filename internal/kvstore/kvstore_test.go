package kvstore

import (
	"errors"
	"fmt"
	"testing"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create BadgerStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBadgerStore_BasicOperations(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("test_key", []byte("test_value")); err != nil {
		t.Errorf("Failed to set key: %v", err)
	}

	retrieved, err := store.Get("test_key")
	if err != nil {
		t.Errorf("Failed to get key: %v", err)
	}
	if string(retrieved) != "test_value" {
		t.Errorf("Expected value test_value, got %s", string(retrieved))
	}
}

func TestBadgerStore_GetNonExistentKey(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("non_existent_key")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
}

func TestBadgerStore_Delete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("test_key", []byte("test_value")); err != nil {
		t.Errorf("Failed to set key: %v", err)
	}
	if err := store.Delete("test_key"); err != nil {
		t.Errorf("Failed to delete key: %v", err)
	}
	if _, err := store.Get("test_key"); err == nil {
		t.Error("Expected error when getting deleted key, got nil")
	}
}

func TestBadgerStore_Has(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.Has("missing")
	if err != nil {
		t.Errorf("Has failed: %v", err)
	}
	if ok {
		t.Error("Expected Has to report false for a missing key")
	}

	if err := store.Set("present", []byte("x")); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}
	ok, err = store.Has("present")
	if err != nil {
		t.Errorf("Has failed: %v", err)
	}
	if !ok {
		t.Error("Expected Has to report true for an existing key")
	}
}

func TestBadgerStore_ScanOrdered(t *testing.T) {
	store := newTestStore(t)

	// Insert out of order; scan must come back key-sorted.
	for _, i := range []int{3, 1, 2} {
		key := fmt.Sprintf("bets/2026-08-28/ch1/%09d", i)
		if err := store.Set(key, []byte(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}
	if err := store.Set("other/key", []byte("x")); err != nil {
		t.Fatalf("Failed to set unrelated key: %v", err)
	}

	entries, err := store.Scan("bets/2026-08-28/ch1/")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		want := fmt.Sprintf("v%d", i+1)
		if string(e.Value) != want {
			t.Errorf("Entry %d: expected %s, got %s", i, want, string(e.Value))
		}
	}
}

func TestBadgerStore_DeletePrefix(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Set(fmt.Sprintf("gone/%d", i), []byte("x")); err != nil {
			t.Fatalf("Failed to set: %v", err)
		}
	}
	if err := store.Set("kept/0", []byte("x")); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	if err := store.DeletePrefix("gone/"); err != nil {
		t.Fatalf("DeletePrefix failed: %v", err)
	}

	entries, err := store.Scan("gone/")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected prefix to be empty, got %d entries", len(entries))
	}
	if _, err := store.Get("kept/0"); err != nil {
		t.Errorf("Unrelated key should survive DeletePrefix: %v", err)
	}
}

func TestBadgerStore_Close(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create BadgerStore: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Failed to close store: %v", err)
	}
	if err := store.Set("key", []byte("value")); err == nil {
		t.Error("Expected error when using closed store, got nil")
	}
}
