package runner_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/yaklabco/gomdmath/pkg/runner"
)

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"README.md":             "",
		"notes.markdown":        "",
		"old.mdown":             "",
		"x.mkd":                 "",
		"main.go":               "",
		"docs/guide.md":         "",
		"docs/drafts/wip.md":    "",
		"vendor/lib/README.md":  "",
		".hidden/secret.md":     "",
		"docs/.draft.md":        "",
		"docs/UPPER.MD":         "",
		"node_modules/x/a.md":   "",
		"docs/api/reference.md": "",
	})

	tests := []struct {
		name    string
		paths   []string
		exclude []string
		want    []string
	}{
		{
			name:  "whole tree",
			paths: nil,
			exclude: []string{
				"vendor/**",
				"node_modules",
			},
			want: []string{
				"README.md",
				"docs/UPPER.MD",
				"docs/api/reference.md",
				"docs/drafts/wip.md",
				"docs/guide.md",
				"notes.markdown",
				"old.mdown",
				"x.mkd",
			},
		},
		{
			name:    "directory glob",
			paths:   []string{"docs"},
			exclude: []string{"docs/drafts/**"},
			want: []string{
				"docs/UPPER.MD",
				"docs/api/reference.md",
				"docs/guide.md",
			},
		},
		{
			name:    "base name pattern",
			paths:   []string{"docs"},
			exclude: []string{"reference.md", "wip.*"},
			want: []string{
				"docs/UPPER.MD",
				"docs/guide.md",
			},
		},
		{
			name:  "explicit file and duplicates",
			paths: []string{"README.md", "README.md", "main.go"},
			want:  []string{"README.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := runner.Discover(context.Background(), runner.Options{
				Paths:        tt.paths,
				WorkingDir:   root,
				ExcludeGlobs: tt.exclude,
			})
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}

			got := relPaths(t, root, files)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Discover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverReturnsAbsolutePaths(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.md": ""})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || !filepath.IsAbs(files[0]) {
		t.Errorf("Discover() = %v, want one absolute path", files)
	}
}

func TestDiscoverErrors(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.md": ""})

	tests := []struct {
		name string
		opts runner.Options
	}{
		{name: "missing path", opts: runner.Options{WorkingDir: root, Paths: []string{"nope"}}},
		{name: "missing file", opts: runner.Options{WorkingDir: root, Paths: []string{"a.md", "b.md"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := runner.Discover(context.Background(), tt.opts); err == nil {
				t.Error("Discover() error = nil")
			}
		})
	}
}

func TestDiscoverCancelled(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.md": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Discover(ctx, runner.Options{WorkingDir: root}); err == nil {
		t.Error("Discover() with cancelled context succeeded")
	}
}
