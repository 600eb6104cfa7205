// Package cli provides the Cobra command structure for sundial.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sundial/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root sundial command with all
// subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	flags := &renderFlags{}

	rootCmd := &cobra.Command{
		Use:   "sundial [file]",
		Short: "Render Markdown to HTML",
		Long: `sundial renders Markdown to HTML using a fast two-pass parser with
opt-in extensions (tables, fenced code, footnotes, autolinks and more).

It reads the given file, or standard input when no file is named, and
writes HTML to standard output.`,
		Example: `  sundial README.md              # render a file to stdout
  sundial --tables --fenced-code doc.md
  cat notes.md | sundial --footnotes --smartypants
  sundial --toc-only doc.md      # emit just the table of contents`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags, configPath)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize help output: auto, always, never")

	addRenderFlags(rootCmd, flags)

	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting. The formatter is built when help is
	// shown, after flag parsing, so --color takes effect.
	rootCmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		NewHelpFormatter(color, os.Stdout).render(c)
	})

	return rootCmd
}
