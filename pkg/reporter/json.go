package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gomdmath/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	StorePath   string           `json:"storePath,omitempty"`
	Occurrences []JSONOccurrence `json:"occurrences"`
	Written     bool             `json:"written,omitempty"`
	Skipped     bool             `json:"skipped,omitempty"`
	SkipReason  string           `json:"skipReason,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONOccurrence represents one display math block.
type JSONOccurrence struct {
	ID      string `json:"id,omitempty"`
	Origin  string `json:"origin"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Source  string `json:"source"`
	Dropped bool   `json:"dropped,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked  int `json:"filesChecked"`
	FilesWithMath int `json:"filesWithMath"`
	FilesModified int `json:"filesModified"`
	FilesSkipped  int `json:"filesSkipped"`
	FilesErrored  int `json:"filesErrored"`
	MathExtracted int `json:"mathExtracted"`
	MathDropped   int `json:"mathDropped"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.MathExtracted, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) JSONOutput {
	output := JSONOutput{
		Version: jsonVersion,
		Files:   []JSONFileResult{},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		jf := JSONFileResult{
			Path:        displayPath(r.opts.WorkingDir, file.Path),
			Occurrences: []JSONOccurrence{},
		}

		if file.Error != nil {
			jf.Error = file.Error.Error()
			output.Files = append(output.Files, jf)
			continue
		}

		if fr := file.Result; fr != nil {
			if fr.Output != nil && fr.Output.Changed() {
				jf.StorePath = displayPath(r.opts.WorkingDir, fr.StorePath)
			}
			jf.Written = fr.Written
			jf.Skipped = fr.Skipped
			jf.SkipReason = fr.SkipReason

			for _, e := range entries(fr) {
				jf.Occurrences = append(jf.Occurrences, JSONOccurrence{
					ID:      e.id,
					Origin:  e.origin,
					Start:   e.start,
					End:     e.end,
					Line:    e.line,
					Column:  e.column,
					Source:  e.source,
					Dropped: e.dropped(),
				})
			}
		}

		output.Files = append(output.Files, jf)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:  stats.FilesProcessed,
		FilesWithMath: stats.FilesWithMath,
		FilesModified: stats.FilesModified,
		FilesSkipped:  stats.FilesSkipped,
		FilesErrored:  stats.FilesErrored,
		MathExtracted: stats.MathExtracted,
		MathDropped:   stats.MathDropped,
	}

	return output
}
