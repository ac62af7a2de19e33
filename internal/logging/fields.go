// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldStore      = "store"
	FieldBackup     = "backup"
	FieldWorkingDir = "working_dir"
	FieldCommand    = "command"

	// Configuration fields.
	FieldConfig   = "config"
	FieldFlavor   = "flavor"
	FieldIDScheme = "id_scheme"
	FieldWrite    = "write"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"

	// Occurrence fields.
	FieldLine    = "line"
	FieldColumn  = "column"
	FieldID      = "id"
	FieldOrigin  = "origin"
	FieldReason  = "reason"
	FieldOutcome = "outcome"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesWithMath   = "files_with_math"
	FieldFilesModified   = "files_modified"
	FieldMathExtracted   = "math_extracted"
	FieldMathDropped     = "math_dropped"
	FieldRestored        = "restored"
	FieldDuration        = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
