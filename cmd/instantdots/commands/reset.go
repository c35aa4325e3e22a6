package commands

import (
	"fmt"
	"os"

	"github.com/instantdots/instantdots/internal/dotops"
	"github.com/instantdots/instantdots/internal/report"
	"github.com/spf13/cobra"
)

var resetScope string

var resetCmd = &cobra.Command{
	Use:   "reset [scope]",
	Short: "Discard local modifications under a target or directory",
	Long:  `Replaces every Modified target at or under scope with its resolved source, discarding local edits. With no scope, resets every Modified target. Clean and Outdated targets are left untouched.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			resetScope = args[0]
		}

		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer env.Close()

		if dryRun {
			if err := previewReset(env, resetScope); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}

		unlock, err := acquireRunLock()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer unlock()

		results, counts, err := dotops.Reset(env.db, env.mapping, env.units, resetScope)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		var rep report.Report
		rep.Command = "reset"
		phase := rep.AddPhase("Dotfiles")
		report.AddFileResults(phase, results)
		rep.PrintSummary(os.Stdout, summaryVerbosity())

		fmt.Printf("\nreset %d, skipped %d already clean, %d failed\n",
			counts.Applied, counts.SkippedClean, counts.Failed)

		os.Exit(rep.ExitCode())
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
