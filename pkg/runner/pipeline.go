package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gomdmath/pkg/fix"
	"github.com/yaklabco/gomdmath/pkg/fsutil"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
	"github.com/yaklabco/gomdmath/pkg/rewrite"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates a parsing error.
	ErrParseFailure = errors.New("parse failure")

	// ErrStoreFailure indicates an unreadable existing store sidecar.
	ErrStoreFailure = errors.New("store sidecar failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineOptions controls per-file processing.
type PipelineOptions struct {
	// Write rewrites the document in place and writes its store sidecar.
	Write bool

	// DryRun computes a diff instead of writing.
	DryRun bool

	// Backup configures backups of documents before they are rewritten.
	Backup fsutil.BackupConfig

	// StoreFormat is the sidecar encoding.
	StoreFormat mathstore.Format

	// StoreSuffix names the sidecar: document path + suffix.
	StoreSuffix string

	// IDs returns the identifier generator for a document's store.
	// Nil means UUIDv7.
	IDs func() mathstore.IDGenerator
}

// DefaultPipelineOptions reports without writing and stores JSON sidecars.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:      fsutil.DefaultBackupConfig(),
		StoreFormat: mathstore.FormatJSON,
		StoreSuffix: DefaultStoreSuffix(mathstore.FormatJSON),
	}
}

// DefaultStoreSuffix returns ".mathstore." plus the format's extension.
func DefaultStoreSuffix(format mathstore.Format) string {
	return ".mathstore." + format.Extension()
}

func (o PipelineOptions) generator() mathstore.Option {
	if o.IDs == nil {
		return mathstore.WithGenerator(mathstore.UUIDGenerator())
	}
	return mathstore.WithGenerator(o.IDs())
}

// StorePath returns the sidecar path for a document.
func (o PipelineOptions) StorePath(path string) string {
	suffix := o.StoreSuffix
	if suffix == "" {
		suffix = DefaultStoreSuffix(o.StoreFormat)
	}
	return path + suffix
}

// FileResult is the outcome of processing one document.
type FileResult struct {
	// Path is the document path.
	Path string

	// Output is the render of the document.
	Output *rewrite.Output

	// Store holds the records for every placeholder in Output.Text,
	// including records loaded from an existing sidecar.
	Store *mathstore.Store

	// StorePath is the sidecar location.
	StorePath string

	// Diff is the unified diff in dry-run mode.
	Diff *fix.Diff

	// Written is true if the document and sidecar were written.
	Written bool

	// BackupCreated is true if a backup was written before rewriting.
	BackupCreated bool

	// Skipped is true if the document changed on disk during processing.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string
}

// Summary returns a one-word description of the outcome.
func (fr *FileResult) Summary() string {
	switch {
	case fr.Skipped:
		return "skipped: " + fr.SkipReason
	case fr.Written && fr.BackupCreated:
		return "rewritten (backup created)"
	case fr.Written:
		return "rewritten"
	case fr.Output != nil && fr.Output.Changed():
		return "math found"
	default:
		return "ok"
	}
}

// Pipeline renders single files and persists the results safely.
type Pipeline struct {
	Renderer *rewrite.Renderer
}

// NewPipeline creates a Pipeline around renderer.
func NewPipeline(renderer *rewrite.Renderer) *Pipeline {
	return &Pipeline{Renderer: renderer}
}

// ProcessFile renders the document at path.
//
// Steps:
//  1. Read and hash the document.
//  2. Load an existing store sidecar so earlier placeholders stay resolvable.
//  3. Render.
//  4. In dry-run mode, compute a diff and stop.
//  5. In write mode, back up the document, write the sidecar, then replace
//     the document unless it changed on disk since step 1.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*FileResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result := &FileResult{Path: path, StorePath: opts.StorePath(path)}

	store, err := loadStore(result.StorePath, opts)
	if err != nil {
		return nil, err
	}

	if err := p.render(ctx, result, content, store); err != nil {
		return nil, err
	}

	if !result.Output.Changed() {
		return result, nil
	}

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, content, result.Output.Text)
		return result, nil
	}

	if !opts.Write {
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	result.BackupCreated = created

	if err := writeStore(ctx, result.StorePath, result.Store, opts.StoreFormat); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	if err := fsutil.ReplaceChecked(ctx, info, result.Output.Text); err != nil {
		if errors.Is(err, fsutil.ErrFileModified) {
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return result, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent renders in-memory content without file I/O.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	store *mathstore.Store,
) (*FileResult, error) {
	result := &FileResult{Path: path}
	if err := p.render(ctx, result, content, store); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) render(ctx context.Context, result *FileResult, content []byte, store *mathstore.Store) error {
	out, cfg, err := p.Renderer.Render(ctx, result.Path, content, rewrite.RenderConfig{Math: store})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("processing cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	result.Output = out
	result.Store = cfg.Math
	return nil
}

// loadStore decodes the sidecar at path, or returns an empty store if
// there is none.
func loadStore(path string, opts PipelineOptions) (*mathstore.Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return mathstore.New(opts.generator()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	store, err := mathstore.Decode(bytes.NewReader(data), opts.StoreFormat, opts.generator())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStoreFailure, path, err)
	}
	return store, nil
}

func writeStore(ctx context.Context, path string, store *mathstore.Store, format mathstore.Format) error {
	var buf bytes.Buffer
	if err := store.Encode(&buf, format); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if _, err := fsutil.WriteAtomicIfChanged(ctx, path, buf.Bytes(), 0); err != nil {
		return fmt.Errorf("write store %s: %w", path, err)
	}
	return nil
}

func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}
