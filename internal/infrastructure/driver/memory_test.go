package driver

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ms := NewMemoryStore()

	if err := ms.SetEX("token", "x", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := ms.Get("token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "x" {
		t.Fatalf("expected stored value, got %q", value)
	}

	ok, err := ms.Exists("token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	ms := NewMemoryStore()

	if _, err := ms.Get("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	ok, err := ms.Exists("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected key to be absent")
	}
}

func TestMemoryStoreExpiration(t *testing.T) {
	ms := NewMemoryStore()

	if err := ms.SetEX("token", "x", time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := ms.Get("token"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}
}
