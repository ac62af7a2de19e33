package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/fsutil"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
	"github.com/yaklabco/gomdmath/pkg/rewrite"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// stdinPath names standard input as a document argument.
const stdinPath = "-"

// documentFlags are shared by render, restore and verify.
type documentFlags struct {
	store       string
	storeFormat string
	output      string
	idScheme    string
	fromBackup  bool
}

func addDocumentFlags(cmd *cobra.Command, flags *documentFlags) {
	cmd.Flags().StringVarP(&flags.store, "store", "s", "",
		"math store path (default: the document path plus the store suffix)")
	cmd.Flags().StringVar(&flags.storeFormat, "store-format", "",
		"math store format: json, yaml (default: from the store extension or config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the document here instead of stdout")
}

func newRenderCommand(globals *globalFlags) *cobra.Command {
	flags := &documentFlags{}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Rewrite one document to stdout",
		Long: `Replace the display math of a single document with placeholders and
print the result. The math store is written to --store, or to stderr when
no store path is given. An existing store is extended, not replaced.

Examples:
  gomdmath render README.md --store README.math.json
  cat notes.md | gomdmath render - --store notes.math.yml > notes.out.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runRender(cmd, path, globals, flags)
		},
	}

	addDocumentFlags(cmd, flags)
	cmd.Flags().StringVar(&flags.idScheme, "id-scheme", "", "identifier scheme: uuid, sequential")

	return cmd
}

func newRestoreCommand(globals *globalFlags) *cobra.Command {
	flags := &documentFlags{}

	cmd := &cobra.Command{
		Use:   "restore file",
		Short: "Replace placeholders with their stored math",
		Long: `Reverse an extraction: every @math(uuid:<id>) placeholder in the document
is replaced by the source recorded in the math store. Placeholders without
a record are left in place and make the command exit 1.

With --from-backup the document is instead overwritten with the backup
taken before its first rewrite, and the backup is removed. The math store
is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.fromBackup {
				return runRestoreBackup(cmd, args[0], globals)
			}
			return runRestore(cmd, args[0], globals, flags)
		},
	}

	addDocumentFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.fromBackup, "from-backup", false, "restore the file from its backup instead of the store")

	return cmd
}

func newVerifyCommand(globals *globalFlags) *cobra.Command {
	flags := &documentFlags{}

	cmd := &cobra.Command{
		Use:   "verify file",
		Short: "Check that placeholders and store records match one to one",
		Long: `Check that every placeholder in the document has exactly one record in
the math store and every record has exactly one placeholder. Exits 1 when
they disagree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0], globals, flags)
		},
	}

	addDocumentFlags(cmd, flags)

	return cmd
}

func runRender(cmd *cobra.Command, path string, globals *globalFlags, flags *documentFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cli := &config.Config{}
	if flags.idScheme != "" {
		cli.IDScheme = config.IDScheme(flags.idScheme)
	}
	cfg, _, err := loadConfig(ctx, cmd, globals, cli)
	if err != nil {
		return err
	}

	renderer, err := runner.NewRendererFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	popts, err := runner.PipelineOptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("pipeline options: %w", err)
	}

	content, err := readDocument(ctx, cmd, path)
	if err != nil {
		return err
	}

	storePath, format, err := resolveStore(path, flags, cfg, popts)
	if err != nil {
		return err
	}

	var store *mathstore.Store
	if storePath != "" {
		store, err = loadStoreIfExists(storePath, format, mathstore.WithGenerator(popts.IDs()))
		if err != nil {
			return err
		}
	}

	result, err := runner.NewPipeline(renderer).ProcessContent(ctx, path, content, store)
	if err != nil {
		return err
	}
	for _, occ := range result.Output.Dropped {
		line, column := result.Output.Snapshot.LineAt(occ.Start)
		logger.Debug("display math dropped",
			logging.FieldPath, path, logging.FieldLine, line, logging.FieldColumn, column)
	}

	var encoded bytes.Buffer
	if err := result.Store.Encode(&encoded, format); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if storePath == "" {
		if _, err := cmd.ErrOrStderr().Write(encoded.Bytes()); err != nil {
			return fmt.Errorf("write store: %w", err)
		}
	} else if result.Output.Changed() {
		if _, err := fsutil.WriteAtomicIfChanged(ctx, storePath, encoded.Bytes(), fsutil.DefaultFileMode); err != nil {
			return fmt.Errorf("write store: %w", err)
		}
		logger.Debug("store written", logging.FieldStore, storePath, logging.FieldMathExtracted, len(result.Output.Applied))
	}

	return writeDocument(ctx, cmd, flags.output, result.Output.Text)
}

func runRestore(cmd *cobra.Command, path string, globals *globalFlags, flags *documentFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	content, store, err := loadDocumentAndStore(ctx, cmd, path, globals, flags)
	if err != nil {
		return err
	}

	restored, err := rewrite.Restore(content, store)
	if err != nil {
		return err
	}
	if err := writeDocument(ctx, cmd, flags.output, restored.Text); err != nil {
		return err
	}

	logger.Debug("document restored", logging.FieldPath, path, logging.FieldRestored, restored.Restored)
	for _, match := range restored.Unresolved {
		logger.Warn("unresolved placeholder", logging.FieldPath, path, logging.FieldID, match.ID)
	}
	if err := restored.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrVerifyFailed, err)
	}
	return nil
}

func runRestoreBackup(cmd *cobra.Command, path string, globals *globalFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if path == stdinPath {
		return errors.New("--from-backup needs a file path")
	}

	cfg, _, err := loadConfig(ctx, cmd, globals, &config.Config{})
	if err != nil {
		return err
	}
	mode := runner.BackupConfigFromConfig(cfg).Mode

	restored, err := fsutil.RestoreBackup(ctx, path, mode)
	if err != nil {
		return err
	}
	if !restored {
		return fmt.Errorf("no backup found for %s", path)
	}
	if _, err := fsutil.RemoveBackup(path, mode); err != nil {
		return err
	}

	logger.Info("restored from backup",
		logging.FieldPath, path,
		logging.FieldBackup, fsutil.BackupPath(path, mode),
	)
	return nil
}

func runVerify(cmd *cobra.Command, path string, globals *globalFlags, flags *documentFlags) error {
	ctx := commandContext(cmd)

	content, store, err := loadDocumentAndStore(ctx, cmd, path, globals, flags)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = rewrite.Verify(content, store)

	var verr *rewrite.VerifyError
	if errors.As(err, &verr) {
		fmt.Fprintf(out, "%s: %v\n", path, verr)
		report := func(label string, ids []string) {
			for _, id := range ids {
				fmt.Fprintf(out, "  %s %s\n", label, mathstore.Token(id))
			}
		}
		report("missing record:", verr.Missing)
		report("orphaned record:", verr.Orphaned)
		report("repeated:", verr.Repeated)
		return fmt.Errorf("%w: %s", ErrVerifyFailed, path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: ok (%d placeholders)\n", path, store.Len())
	return nil
}

// loadDocumentAndStore reads a document and its store for restore and
// verify. A missing store is an error.
func loadDocumentAndStore(
	ctx context.Context,
	cmd *cobra.Command,
	path string,
	globals *globalFlags,
	flags *documentFlags,
) ([]byte, *mathstore.Store, error) {
	cfg, _, err := loadConfig(ctx, cmd, globals, &config.Config{})
	if err != nil {
		return nil, nil, err
	}
	popts, err := runner.PipelineOptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline options: %w", err)
	}

	content, err := readDocument(ctx, cmd, path)
	if err != nil {
		return nil, nil, err
	}

	storePath, format, err := resolveStore(path, flags, cfg, popts)
	if err != nil {
		return nil, nil, err
	}
	if storePath == "" {
		return nil, nil, errors.New("--store is required when reading from stdin")
	}

	f, err := os.Open(storePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	store, err := mathstore.Decode(f, format)
	if err != nil {
		return nil, nil, fmt.Errorf("read store %s: %w", storePath, err)
	}
	return content, store, nil
}

// resolveStore picks the store path and format. Without --store, a file
// document uses its default sidecar and stdin has no store path.
func resolveStore(path string, flags *documentFlags, cfg *config.Config, popts runner.PipelineOptions) (string, mathstore.Format, error) {
	storePath := flags.store
	if storePath == "" && path != stdinPath {
		storePath = popts.StorePath(path)
	}

	formatName := flags.storeFormat
	if formatName == "" {
		formatName = formatFromExtension(storePath)
	}
	if formatName == "" {
		formatName = string(cfg.StoreFormat)
	}

	format, err := mathstore.ParseFormat(formatName)
	if err != nil {
		return "", "", err
	}
	return storePath, format, nil
}

// formatFromExtension infers a store format from a .json, .yml or .yaml
// extension.
func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return string(mathstore.FormatJSON)
	case ".yml", ".yaml":
		return string(mathstore.FormatYAML)
	default:
		return ""
	}
}

// loadStoreIfExists decodes the store at path, or returns nil if there is
// no file.
func loadStoreIfExists(path string, format mathstore.Format, opts ...mathstore.Option) (*mathstore.Store, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	store, err := mathstore.Decode(f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}
	return store, nil
}

func readDocument(ctx context.Context, cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return content, nil
}

func writeDocument(ctx context.Context, cmd *cobra.Command, output string, content []byte) error {
	if output == "" {
		if _, err := cmd.OutOrStdout().Write(content); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := fsutil.WriteAtomic(ctx, output, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
