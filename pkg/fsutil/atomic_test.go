package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gomdmath/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     os.FileMode
		wantMode os.FileMode
	}{
		{name: "default mode", mode: 0, wantMode: fsutil.DefaultFileMode},
		{name: "explicit mode", mode: 0o600, wantMode: 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "out.json")

			if err := fsutil.WriteAtomic(context.Background(), path, []byte("{}"), tt.mode); err != nil {
				t.Fatalf("WriteAtomic() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil || string(got) != "{}" {
				t.Fatalf("content = %q, %v", got, err)
			}

			stat, _ := os.Stat(path)
			if stat.Mode().Perm() != tt.wantMode {
				t.Errorf("mode = %v, want %v", stat.Mode().Perm(), tt.wantMode)
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != 1 {
				t.Errorf("directory has %d entries, temp file left behind", len(entries))
			}
		})
	}
}

func TestWriteAtomicMissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "no", "such", "dir", "f.md")
	if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err == nil {
		t.Error("WriteAtomic() into missing directory succeeded")
	}
}

func TestWriteAtomicCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "f.md")
	if err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteAtomic() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("file was created after cancellation")
	}
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md.math.json")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	if err != nil || !written {
		t.Fatalf("first write = %v, %v, want true", written, err)
	}

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	if err != nil || written {
		t.Errorf("unchanged write = %v, %v, want false", written, err)
	}

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0)
	if err != nil || !written {
		t.Errorf("changed write = %v, %v, want true", written, err)
	}
}
