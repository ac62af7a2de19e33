package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gomdmath/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode fsutil.BackupMode
		want string
	}{
		{name: "sidecar", mode: fsutil.BackupModeSidecar, want: "/docs/a.md.gomdmath.bak"},
		{name: "none", mode: fsutil.BackupModeNone, want: ""},
		{name: "unknown defaults to sidecar", mode: fsutil.BackupMode("weird"), want: "/docs/a.md.gomdmath.bak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fsutil.BackupPath("/docs/a.md", tt.mode); got != tt.want {
				t.Errorf("BackupPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultBackupConfig(t *testing.T) {
	t.Parallel()

	cfg := fsutil.DefaultBackupConfig()
	if cfg.Enabled || cfg.Active() {
		t.Error("backups enabled by default")
	}
	if cfg.Mode != fsutil.BackupModeSidecar {
		t.Errorf("Mode = %q, want sidecar", cfg.Mode)
	}
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("original"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	if err != nil || !created {
		t.Fatalf("CreateBackup() = %v, %v, want true", created, err)
	}

	// A second backup must not replace the first.
	if err := os.WriteFile(path, []byte("rewritten"), 0o600); err != nil {
		t.Fatal(err)
	}
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	if err != nil || created {
		t.Fatalf("second CreateBackup() = %v, %v, want false", created, err)
	}

	got, _ := os.ReadFile(path + fsutil.BackupSuffix)
	if string(got) != "original" {
		t.Errorf("backup content = %q, want original", got)
	}

	stat, _ := os.Stat(path + fsutil.BackupSuffix)
	if stat.Mode().Perm() != 0o600 {
		t.Errorf("backup mode = %v, want 0600", stat.Mode().Perm())
	}
}

func TestCreateBackupSkipped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		cfg  fsutil.BackupConfig
	}{
		{name: "disabled", path: path, cfg: fsutil.BackupConfig{Mode: fsutil.BackupModeSidecar}},
		{name: "mode none", path: path, cfg: fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone}},
		{name: "missing source", path: filepath.Join(dir, "gone.md"), cfg: fsutil.BackupConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			created, err := fsutil.CreateBackup(ctx, tt.path, tt.cfg)
			if err != nil || created {
				t.Errorf("CreateBackup() = %v, %v, want false, nil", created, err)
			}
		})
	}
}

func TestRestoreAndRemoveBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("$$x$$"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
	if _, err := fsutil.CreateBackup(ctx, path, cfg); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("@math(uuid:a)"), 0o644); err != nil {
		t.Fatal(err)
	}

	restored, err := fsutil.RestoreBackup(ctx, path, cfg.Mode)
	if err != nil || !restored {
		t.Fatalf("RestoreBackup() = %v, %v", restored, err)
	}
	if got, _ := os.ReadFile(path); string(got) != "$$x$$" {
		t.Errorf("restored content = %q", got)
	}

	removed, err := fsutil.RemoveBackup(path, cfg.Mode)
	if err != nil || !removed {
		t.Fatalf("RemoveBackup() = %v, %v", removed, err)
	}
	removed, err = fsutil.RemoveBackup(path, cfg.Mode)
	if err != nil || removed {
		t.Errorf("second RemoveBackup() = %v, %v, want false", removed, err)
	}

	restored, err = fsutil.RestoreBackup(ctx, path, cfg.Mode)
	if err != nil || restored {
		t.Errorf("RestoreBackup() without backup = %v, %v, want false", restored, err)
	}
}
