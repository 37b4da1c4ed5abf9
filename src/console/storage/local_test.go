package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPutDeleteURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	url, err := store.Put(ctx, "blog/abc.png", "image/png", []byte("png"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "http://localhost:8080/uploads/blog/abc.png" {
		t.Errorf("url = %q", url)
	}

	payload, err := os.ReadFile(filepath.Join(dir, "blog", "abc.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(payload) != "png" {
		t.Errorf("payload = %q", payload)
	}

	if err := store.Delete(ctx, "blog/abc.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "blog", "abc.png")); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "blog/never-there.png"); err != nil {
		t.Errorf("delete of missing key: %v", err)
	}
}

func TestLocalRejectsNonLocalKeys(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "uploads")
	store, err := NewLocal(base, "http://localhost:8080/uploads")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	victim := filepath.Join(parent, "victim.txt")
	if err := os.WriteFile(victim, []byte("keep me"), 0644); err != nil {
		t.Fatalf("write victim: %v", err)
	}

	// Keys come from request bodies; anything escaping the base path must be
	// refused rather than resolved.
	for _, key := range []string{"../victim.txt", "blog/../../victim.txt", "/etc/passwd", ""} {
		if err := store.Delete(ctx, key); err == nil {
			t.Errorf("Delete(%q) should be rejected", key)
		}
		if _, err := store.Put(ctx, key, "text/plain", []byte("x")); err == nil {
			t.Errorf("Put(%q) should be rejected", key)
		}
	}

	payload, err := os.ReadFile(victim)
	if err != nil || string(payload) != "keep me" {
		t.Fatalf("file outside the base path was touched: %v %q", err, payload)
	}
}
