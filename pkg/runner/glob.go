package runner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// globSet matches slash-separated relative paths against ignore patterns.
type globSet struct {
	full []glob.Glob // patterns containing "/"
	base []glob.Glob // patterns matched against the base name
}

func compileGlobs(patterns []string) (*globSet, error) {
	set := &globSet{}
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		if pattern == "" {
			continue
		}

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}

		if strings.Contains(pattern, "/") {
			set.full = append(set.full, g)
		} else {
			set.base = append(set.base, g)
		}
	}
	return set, nil
}

// matchFile reports whether the file at relPath is excluded.
func (s *globSet) matchFile(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	return s.matchAny(s.full, relPath) || s.matchAny(s.base, pathBase(relPath))
}

// matchDir reports whether the directory at relPath is excluded. "dir/**"
// excludes dir itself.
func (s *globSet) matchDir(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	return s.matchAny(s.full, relPath) ||
		s.matchAny(s.full, relPath+"/") ||
		s.matchAny(s.base, pathBase(relPath))
}

func (s *globSet) matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func pathBase(slashPath string) string {
	if i := strings.LastIndexByte(slashPath, '/'); i >= 0 {
		return slashPath[i+1:]
	}
	return slashPath
}
