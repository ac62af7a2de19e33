package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/configloader"
	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/config"
)

// commandContext returns the command's context with the default logger
// attached and tagged with the command name.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logging.Default())
	return logging.WithFields(ctx, logging.FieldCommand, cmd.Name())
}

// loadConfig resolves the configuration for a command, with cli holding
// the values of flags that were set explicitly.
func loadConfig(ctx context.Context, cmd *cobra.Command, globals *globalFlags, cli *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(ctx)

	if cmd.Flags().Changed("color") {
		cli.Color = config.ColorMode(globals.color)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globals.configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldIDScheme, cfg.IDScheme,
		logging.FieldWrite, cfg.Write,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}
