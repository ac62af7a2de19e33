package runner

import (
	"fmt"

	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/extract"
	"github.com/yaklabco/gomdmath/pkg/fsutil"
	"github.com/yaklabco/gomdmath/pkg/mathscan"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
	"github.com/yaklabco/gomdmath/pkg/parser/goldmark"
	"github.com/yaklabco/gomdmath/pkg/rewrite"
)

// sequentialPrefix prefixes identifiers of the sequential scheme.
const sequentialPrefix = "m"

// IDsFromScheme returns a factory of identifier generators for scheme.
func IDsFromScheme(scheme config.IDScheme) (func() mathstore.IDGenerator, error) {
	switch scheme {
	case "", config.IDSchemeUUID:
		return mathstore.UUIDGenerator, nil
	case config.IDSchemeSequential:
		return func() mathstore.IDGenerator { return mathstore.SequentialGenerator(sequentialPrefix) }, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q (valid: uuid, sequential)", scheme)
	}
}

// RendererOptionsFromConfig maps extraction settings onto rewrite.Options.
func RendererOptionsFromConfig(cfg *config.Config) (rewrite.Options, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	ids, err := IDsFromScheme(cfg.IDScheme)
	if err != nil {
		return rewrite.Options{}, err
	}

	scan := mathscan.Options{
		Dollars:          cfg.Delimiters.DollarsEnabled(),
		Brackets:         cfg.Delimiters.BracketsEnabled(),
		Parens:           cfg.Delimiters.ParensEnabled(),
		Environments:     cfg.Delimiters.EnvironmentsEnabled(),
		EnvironmentNames: cfg.Delimiters.EnvironmentNames,
	}

	return rewrite.Options{
		Extract: extract.Options{
			ExcludeHTML: cfg.ExcludeHTMLEnabled(),
			MathFences:  cfg.MathFencesEnabled(),
		},
		Scanner: scan,
		NewStore: func() *mathstore.Store {
			return mathstore.New(mathstore.WithGenerator(ids()))
		},
	}, nil
}

// NewRendererFromConfig builds a goldmark-backed Renderer for cfg.
func NewRendererFromConfig(cfg *config.Config) (*rewrite.Renderer, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	opts, err := RendererOptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	parser := goldmark.New(string(cfg.Flavor), goldmark.WithDirectives(cfg.DirectivesEnabled()))
	return rewrite.NewRenderer(parser, opts), nil
}

// PipelineOptionsFromConfig derives per-file options from cfg.
func PipelineOptionsFromConfig(cfg *config.Config) (PipelineOptions, error) {
	if cfg == nil {
		return DefaultPipelineOptions(), nil
	}

	format, err := mathstore.ParseFormat(string(cfg.StoreFormat))
	if err != nil {
		return PipelineOptions{}, err
	}

	ids, err := IDsFromScheme(cfg.IDScheme)
	if err != nil {
		return PipelineOptions{}, err
	}

	return PipelineOptions{
		Write:       cfg.Write && !cfg.DryRun,
		DryRun:      cfg.DryRun,
		Backup:      BackupConfigFromConfig(cfg),
		StoreFormat: format,
		StoreSuffix: cfg.StoreSuffix,
		IDs:         ids,
	}, nil
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from cfg.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}

	mode := fsutil.BackupMode(cfg.Backups.Mode)
	if mode == "" {
		mode = fsutil.BackupModeSidecar
	}
	return fsutil.BackupConfig{Enabled: cfg.BackupsEnabled(), Mode: mode}
}
