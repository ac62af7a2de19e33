// Package reporter writes extraction results as text, JSON, or diffs.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gomdmath/pkg/runner"
)

// Reporter formats and writes extraction results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of blocks extracted and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// entry is one occurrence of a file, applied or dropped.
type entry struct {
	start  int
	end    int
	line   int
	column int
	id     string
	source string
	origin string
}

func (e entry) dropped() bool {
	return e.id == ""
}

// entries merges the applied and dropped occurrences of fr in document
// order.
func entries(fr *runner.FileResult) []entry {
	if fr == nil || fr.Output == nil {
		return nil
	}
	out := fr.Output

	list := make([]entry, 0, len(out.Applied)+len(out.Dropped))
	for _, rep := range out.Applied {
		list = append(list, entry{
			start:  rep.StartOffset,
			end:    rep.EndOffset,
			id:     rep.ID,
			source: rep.Source,
			origin: rep.Origin.String(),
		})
	}
	for _, occ := range out.Dropped {
		e := entry{start: occ.Start, end: occ.End, origin: occ.Origin.String()}
		if out.Snapshot != nil && occ.Start >= 0 && occ.End <= len(out.Snapshot.Content) && occ.Start <= occ.End {
			e.source = string(out.Snapshot.Content[occ.Start:occ.End])
		}
		list = append(list, e)
	}

	if out.Snapshot != nil {
		for i := range list {
			list[i].line, list[i].column = out.Snapshot.LineAt(list[i].start)
		}
	}

	slices.SortFunc(list, func(a, b entry) int {
		return a.start - b.start
	})
	return list
}

// displayPath makes path relative to workingDir when it lies below it.
func displayPath(workingDir, path string) string {
	if workingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
