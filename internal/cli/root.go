// Package cli provides the Cobra command structure for gomdmath.
package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root gomdmath command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gomdmath",
		Short: "Extract display math from Markdown into placeholder tokens",
		Long: `gomdmath finds display math in Markdown documents and replaces each
expression with an @math(uuid:<id>) placeholder, keeping the original
source in a math store next to the document.

Math inside code spans, code blocks, raw HTML and directives is left
alone. Inline math is detected but never extracted. Stores can be used to
restore the original document byte for byte.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newExtractCommand(globals))
	rootCmd.AddCommand(newRenderCommand(globals))
	rootCmd.AddCommand(newRestoreCommand(globals))
	rootCmd.AddCommand(newVerifyCommand(globals))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	installHelp(rootCmd, colorFromArgs(os.Args[1:]), os.Stdout)

	return rootCmd
}

// colorFromArgs finds a --color value before flags are parsed, so help
// output honours it.
func colorFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--color" && i+1 < len(args) {
			return args[i+1]
		}
		if value, ok := strings.CutPrefix(arg, "--color="); ok {
			return value
		}
	}
	return "auto"
}
