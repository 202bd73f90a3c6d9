package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFilePutGet(t *testing.T) {
	c, err := NewFile[string](t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	const key = "cid:https://www.bilibili.com/video/BV1xx"
	if err := c.Put(key, "123456"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get() = (%q, %v, %v), want hit", got, ok, err)
	}
	if got != "123456" {
		t.Errorf("Get() value = %q, want %q", got, "123456")
	}

	if _, ok, err := c.Get("cid:missing"); err != nil || ok {
		t.Errorf("Get(missing) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestFileExpiry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFile[int](dir, time.Minute)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	if err := c.Put("key", 1); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, err := c.Get("key"); err != nil || ok {
		t.Errorf("Get() after expiry = (%v, %v), want (false, nil)", ok, err)
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, "*.json")); len(matches) != 0 {
		t.Errorf("expired entry not removed: %v", matches)
	}
}

func TestFileCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFile[string](dir, time.Hour)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := os.WriteFile(c.path("key"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get("key"); err != nil || ok {
		t.Errorf("Get() on corrupt entry = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestNewFileRequiresDir(t *testing.T) {
	if _, err := NewFile[string]("", time.Hour); err == nil {
		t.Error("NewFile(\"\") expected error")
	}
}
