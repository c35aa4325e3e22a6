package commands

import (
	"fmt"
	"os"

	"github.com/instantdots/instantdots/internal/dotops"
	"github.com/instantdots/instantdots/internal/report"
	"github.com/spf13/cobra"
)

var fetchScope string

var fetchCmd = &cobra.Command{
	Use:   "fetch [scope]",
	Short: "Push locally modified targets back to their source repositories",
	Long:  `The inverse of apply: writes Modified target content back into its resolved source, refusing repositories marked read-only.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			fetchScope = args[0]
		}

		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer env.Close()

		if dryRun {
			if err := previewFetch(env, fetchScope); err != nil {
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

		results, counts, err := dotops.Fetch(env.db, env.mapping, env.units, env.readOnlyByRepo(), fetchScope)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		var rep report.Report
		rep.Command = "fetch"
		phase := rep.AddPhase("Dotfiles")
		report.AddFileResults(phase, results)
		rep.PrintSummary(os.Stdout, summaryVerbosity())

		fmt.Printf("\nfetched %d, skipped %d read-only, %d already clean, %d failed\n",
			counts.Applied, counts.SkippedReadOnly, counts.SkippedClean, counts.Failed)

		os.Exit(rep.ExitCode())
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
