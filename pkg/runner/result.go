package runner

// FileOutcome wraps a FileResult with its path.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil if the file could not be processed.
	Result *FileResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesSkipped is the number of files skipped due to concurrent modification.
	FilesSkipped int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// FilesWithMath is the number of files with at least one replacement.
	FilesWithMath int

	// FilesModified is the number of files rewritten on disk.
	FilesModified int

	// MathExtracted is the number of replaced display math occurrences.
	MathExtracted int

	// MathDropped is the number of occurrences left in place because
	// their range was unusable.
	MathDropped int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each file in discovery order.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasDrops reports whether any occurrence was dropped.
func (r *Result) HasDrops() bool {
	return r != nil && r.Stats.MathDropped > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++

	fr := outcome.Result
	if fr.Skipped {
		r.Stats.FilesSkipped++
	}
	if fr.Written {
		r.Stats.FilesModified++
	}
	if out := fr.Output; out != nil {
		r.Stats.MathExtracted += len(out.Applied)
		r.Stats.MathDropped += len(out.Dropped)
		if out.Changed() {
			r.Stats.FilesWithMath++
		}
	}
}
