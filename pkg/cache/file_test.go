package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestFileStore(t *testing.T, expire time.Duration) (*FileStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewFileStore(dir, expire, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return store, dir
}

func TestNewFileStore_Validation(t *testing.T) {
	if _, err := NewFileStore("", time.Minute, zerolog.Nop()); err == nil {
		t.Error("expected error for empty cache root")
	}
	if _, err := NewFileStore(t.TempDir(), -time.Second, zerolog.Nop()); err == nil {
		t.Error("expected error for negative expiry")
	}
}

func TestFileStore_Namespaced(t *testing.T) {
	store, dir := newTestFileStore(t, time.Minute)

	want := filepath.Join(dir, Namespace)
	if store.Root() != want {
		t.Errorf("Root() = %q, want %q", store.Root(), want)
	}
}

func TestFileStore_WriteAndRead(t *testing.T) {
	store, dir := newTestFileStore(t, time.Minute)
	ctx := context.Background()
	key := KeyFor("events/summer-fest", "token")
	body := []byte(`{"event":{"id":"summer-fest"}}`)

	if err := store.Write(ctx, key, body); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("Read = %s, want %s", got, body)
	}

	// Entry lives at <root>/monbillet-api-client/<digest>/cache.json
	path := filepath.Join(dir, Namespace, key.String(), "cache.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("entry file missing at %s: %v", path, err)
	}

	// No temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entry directory holds %d files, want 1", len(entries))
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	store, _ := newTestFileStore(t, time.Minute)
	ctx := context.Background()
	key := KeyFor("events", "token")

	if err := store.Write(ctx, key, []byte(`{"events":[1]}`)); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := store.Write(ctx, key, []byte(`{"events":[2]}`)); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != `{"events":[2]}` {
		t.Errorf("Read = %s, want the second write", got)
	}
}

func TestFileStore_ReadMiss(t *testing.T) {
	store, _ := newTestFileStore(t, time.Minute)

	_, err := store.Read(context.Background(), KeyFor("events", ""))
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestFileStore_ContextCancelled(t *testing.T) {
	store, _ := newTestFileStore(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Read(ctx, KeyFor("events", "")); !errors.Is(err, context.Canceled) {
		t.Errorf("Read error = %v, want context.Canceled", err)
	}
	if err := store.Write(ctx, KeyFor("events", ""), []byte(`{}`)); !errors.Is(err, context.Canceled) {
		t.Errorf("Write error = %v, want context.Canceled", err)
	}
}

func TestFileStore_IsExpired(t *testing.T) {
	store, _ := newTestFileStore(t, 10*time.Minute)
	ctx := context.Background()
	key := KeyFor("events", "token")

	if !store.IsExpired(ctx, key) {
		t.Error("missing entry should be expired")
	}

	if err := store.Write(ctx, key, []byte(`{}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	info, err := os.Stat(store.entryPath(key))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	written := info.ModTime()

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just written", written, false},
		{"inside window", written.Add(9 * time.Minute), false},
		{"past window", written.Add(10*time.Minute + time.Second), true},
		{"long past window", written.Add(24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.now = func() time.Time { return tt.now }
			if got := store.IsExpired(ctx, key); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileStore_IsExpired_ZeroWindow(t *testing.T) {
	store, _ := newTestFileStore(t, 0)
	ctx := context.Background()
	key := KeyFor("events", "token")

	if err := store.Write(ctx, key, []byte(`{}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	store.now = func() time.Time { return time.Now().Add(time.Second) }
	if !store.IsExpired(ctx, key) {
		t.Error("entry should be expired immediately with a zero window")
	}
}

func TestFileStore_Clear(t *testing.T) {
	store, dir := newTestFileStore(t, time.Minute)
	ctx := context.Background()

	for _, path := range []string{"events", "event-groups", "events/summer-fest"} {
		if err := store.Write(ctx, KeyFor(path, "token"), []byte(`{}`)); err != nil {
			t.Fatalf("Write(%s) failed: %v", path, err)
		}
	}

	// A file next to the namespace must survive
	unrelated := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := os.Stat(store.Root()); !os.IsNotExist(err) {
		t.Errorf("cache root still exists after Clear (stat err = %v)", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Errorf("unrelated file removed by Clear: %v", err)
	}

	// Clearing again is a no-op
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}

	if _, err := store.Read(ctx, KeyFor("events", "token")); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Read after Clear = %v, want ErrCacheMiss", err)
	}
}

func TestFileStore_Clear_DoesNotFollowSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	store, _ := newTestFileStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Write(ctx, KeyFor("events", ""), []byte(`{}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	outside := t.TempDir()
	precious := filepath.Join(outside, "precious.json")
	if err := os.WriteFile(precious, []byte(`{}`), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := os.Symlink(outside, filepath.Join(store.Root(), "linked-dir")); err != nil {
		t.Fatalf("Symlink failed: %v", err)
	}
	if err := os.Symlink(precious, filepath.Join(store.Root(), "linked-file")); err != nil {
		t.Fatalf("Symlink failed: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := os.Stat(precious); err != nil {
		t.Errorf("symlink target was deleted: %v", err)
	}
	if _, err := os.Lstat(store.Root()); !os.IsNotExist(err) {
		t.Errorf("cache root still exists after Clear (lstat err = %v)", err)
	}
}
