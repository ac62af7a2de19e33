package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gomdmath/internal/ui/pretty"
	"github.com/yaklabco/gomdmath/pkg/fix"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// DiffReporter formats dry-run results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var filesWithDiffs, totalAdditions, totalDeletions, total int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(displayPath(r.opts.WorkingDir, file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		fr := file.Result
		if fr == nil || !fr.Diff.HasChanges() {
			continue
		}

		filesWithDiffs++
		totalAdditions += fr.Diff.Additions
		totalDeletions += fr.Diff.Deletions
		if fr.Output != nil {
			total += len(fr.Output.Applied)
		}
		r.writeDiff(fr)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return total, nil
}

// writeDiff outputs a single file's diff followed by the sidecar it
// would produce.
func (r *DiffReporter) writeDiff(fr *runner.FileResult) {
	path := displayPath(r.opts.WorkingDir, fr.Diff.Path)

	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+path))

	for _, hunk := range fr.Diff.Hunks {
		fmt.Fprintln(r.bw, r.styles.DiffHunk.Render(hunk.Header()))
		for _, line := range hunk.Lines {
			r.writeDiffLine(line)
		}
	}

	if fr.Store != nil && fr.StorePath != "" {
		note := fmt.Sprintf("# store %s (%d records)", displayPath(r.opts.WorkingDir, fr.StorePath), fr.Store.Len())
		fmt.Fprintln(r.bw, r.styles.Dim.Render(note))
	}

	fmt.Fprintln(r.bw)
}

func (r *DiffReporter) writeDiffLine(line fix.DiffLine) {
	text := line.Kind.Prefix() + line.Content

	switch line.Kind {
	case fix.DiffLineAdd:
		text = r.styles.DiffAdd.Render(text)
	case fix.DiffLineRemove:
		text = r.styles.DiffRemove.Render(text)
	default:
		text = r.styles.DiffContext.Render(text)
	}

	fmt.Fprintln(r.bw, text)
}

// writeSummary writes a git-style stat line.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{plural(files, "file", "files") + " changed"}

	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(plural(additions, "insertion", "insertions")+"(+)"))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(plural(deletions, "deletion", "deletions")+"(-)"))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
