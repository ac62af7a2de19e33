package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/fsutil"
	"github.com/yaklabco/gomdmath/pkg/reporter"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

type extractFlags struct {
	format      string
	flavor      string
	idScheme    string
	storeFormat string
	ignore      []string
	backups     bool
	mathFences  bool
	directives  bool
	quiet       bool
	compact     bool
}

func newExtractCommand(globals *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract display math from Markdown files",
		Long:  extractLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, globals, &cfg, flags)
		},
	}

	addExtractFlags(cmd, &cfg, flags)

	return cmd
}

const extractLongDescription = `Find display math in Markdown files and replace it with placeholders.

By default, scans all .md, .markdown, .mdown and .mkd files in the current
directory and subdirectories and reports what would be extracted. With
--write, documents are rewritten in place and each gets a math store
sidecar (doc.md.mathstore.json) holding the original sources.

Examples:
  gomdmath extract                     # Report math in the current directory
  gomdmath extract docs/ --write       # Rewrite docs and write stores
  gomdmath extract --dry-run           # Show the rewrite as a diff
  gomdmath extract --format json       # Machine-readable occurrences
  gomdmath extract --strict            # Exit 1 if any math was dropped`

func addExtractFlags(cmd *cobra.Command, cfg *config.Config, flags *extractFlags) {
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "rewrite documents in place and write math stores")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show the rewrite as a diff without writing")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "exit 1 if any display math was dropped")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when writing")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.idScheme, "id-scheme", "uuid", "identifier scheme: uuid, sequential")
	cmd.Flags().StringVar(&flags.storeFormat, "store-format", "json", "math store format: json, yaml")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.backups, "backups", false, "back up documents before rewriting")
	cmd.Flags().BoolVar(&flags.mathFences, "math-fences", false, "extract ```math fenced blocks")
	cmd.Flags().BoolVar(&flags.directives, "directives", true, "leave @name(args) { } directive blocks untouched")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print only file headers and the summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
}

// applyExtractFlags copies explicitly set flags onto cfg.
func applyExtractFlags(cmd *cobra.Command, cfg *config.Config, flags *extractFlags) {
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("id-scheme") {
		cfg.IDScheme = config.IDScheme(flags.idScheme)
	}
	if changed("store-format") {
		cfg.StoreFormat = config.StoreFormat(flags.storeFormat)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("backups") {
		cfg.Backups.Enabled = flags.backups
	}
	if changed("math-fences") {
		cfg.MathFences = config.Bool(flags.mathFences)
	}
	if changed("directives") {
		cfg.Directives = config.Bool(flags.directives)
	}
}

func runExtract(cmd *cobra.Command, args []string, globals *globalFlags, cli *config.Config, flags *extractFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	applyExtractFlags(cmd, cli, flags)

	cfg, workDir, err := loadConfig(ctx, cmd, globals, cli)
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

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Config:       cfg,
	}

	logger.Debug("starting extraction",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	start := time.Now()
	result, err := runner.New(runner.NewPipeline(renderer)).Run(ctx, runOpts, popts)
	if err != nil {
		return errors.Join(errors.New("extraction failed"), err)
	}

	logResult(ctx, result, popts.Backup.Mode)
	logger.Debug("extraction finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithMath, result.Stats.FilesWithMath,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldMathExtracted, result.Stats.MathExtracted,
		logging.FieldMathDropped, result.Stats.MathDropped,
		logging.FieldDuration, time.Since(start),
	)

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	// A dry run shows diffs unless another format was asked for.
	if cfg.DryRun && !cmd.Flags().Changed("format") && cfg.Format == config.FormatText {
		format = reporter.FormatDiff
	}

	rep, err := reporter.New(reporter.Options{
		Writer:          cmd.OutOrStdout(),
		ErrorWriter:     cmd.ErrOrStderr(),
		Format:          format,
		Color:           string(cfg.Color),
		ShowOccurrences: !flags.quiet,
		ShowSummary:     true,
		Compact:         flags.compact,
		WorkingDir:      workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, cfg.Strict)
}

// logResult logs per-file outcomes and every dropped occurrence at debug
// level, and skipped or failed files as warnings.
func logResult(ctx context.Context, result *runner.Result, backupMode fsutil.BackupMode) {
	logger := logging.FromContext(ctx)

	for _, file := range result.Files {
		if file.Error != nil {
			logger.Warn("file failed", logging.FieldPath, file.Path, logging.FieldError, file.Error)
			continue
		}

		fr := file.Result
		if fr == nil {
			continue
		}
		if fr.Skipped {
			logger.Warn("file skipped", logging.FieldPath, file.Path, logging.FieldReason, fr.SkipReason)
			continue
		}
		logger.Debug("file processed", logging.FieldPath, file.Path, logging.FieldOutcome, fr.Summary())
		if fr.BackupCreated {
			logger.Debug("backup created",
				logging.FieldPath, file.Path,
				logging.FieldBackup, fsutil.BackupPath(file.Path, backupMode),
			)
		}

		if fr.Output == nil || fr.Output.Snapshot == nil {
			continue
		}
		for _, occ := range fr.Output.Dropped {
			line, column := fr.Output.Snapshot.LineAt(occ.Start)
			logger.Debug("display math dropped",
				logging.FieldPath, file.Path,
				logging.FieldLine, line,
				logging.FieldColumn, column,
				logging.FieldOrigin, occ.Origin.String(),
			)
		}
	}
}
