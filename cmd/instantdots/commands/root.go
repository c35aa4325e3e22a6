package commands

import (
	"fmt"
	"os"

	"github.com/instantdots/instantdots/internal/report"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "instantdots",
	Short: "instantdots manages dotfiles across multiple repositories.",
	Long: `instantdots resolves your dotfiles from one or more git repositories into
your home directory, tracking which files have been locally modified so
it never silently overwrites your changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use 'instantdots --help' for more information.")
	},
}

var (
	dryRun     bool
	verbose    bool
	quiet      bool
	configPath string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what changes would be made without actually making them")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show all items in summary (including OK and skip)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Show only failures in summary")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to instant.toml (default: XDG config location)")
}

// summaryVerbosity returns the report verbosity level based on --verbose/--quiet flags.
func summaryVerbosity() report.Verbosity {
	if verbose {
		return report.VerbosityVerbose
	}
	if quiet {
		return report.VerbosityQuiet
	}
	return report.VerbosityNormal
}
