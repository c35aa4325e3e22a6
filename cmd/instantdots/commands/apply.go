package commands

import (
	"fmt"
	"os"

	"github.com/instantdots/instantdots/internal/dotops"
	"github.com/instantdots/instantdots/internal/hooks"
	"github.com/instantdots/instantdots/internal/report"
	"github.com/instantdots/instantdots/internal/shell"
	"github.com/spf13/cobra"
)

var applyScope string

var applyCmd = &cobra.Command{
	Use:   "apply [scope]",
	Short: "Apply resolved dotfiles into your home directory",
	Long:  `Materializes Outdated targets from their resolved sources, skipping any target you've locally modified.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			applyScope = args[0]
		}

		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer env.Close()

		if dryRun {
			if err := previewApply(env, applyScope); err != nil {
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

		hookCtx := &hooks.HookContext{DryRun: false}
		if err := hooks.RunHooks(os.Stdout, env.cfg.Hooks.PreApply, hooks.PreApply, hookCtx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		results, counts, err := dotops.Apply(env.db, env.mapping, env.units, applyScope)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := hooks.RunHooks(os.Stdout, env.cfg.Hooks.PostApply, hooks.PostApply, hookCtx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if env.cfg.Shell.Enabled {
			if err := syncShellEnv(env); err != nil {
				fmt.Fprintf(os.Stderr, "shell integration: %v\n", err)
			}
		}

		var rep report.Report
		rep.Command = "apply"
		phase := rep.AddPhase("Dotfiles")
		report.AddFileResults(phase, results)
		rep.PrintSummary(os.Stdout, summaryVerbosity())

		fmt.Printf("\napplied %d, skipped %d modified, %d already clean, %d failed\n",
			counts.Applied, counts.SkippedModified, counts.SkippedClean, counts.Failed)

		os.Exit(rep.ExitCode())
	},
}

// syncShellEnv regenerates the INSTANTDOTS_REPO_* environment script and
// makes sure the detected shell's rc file sources it, reusing the
// teacher's managed-block injection mechanism.
func syncShellEnv(env *environment) error {
	path, err := shell.GenerateEnvScript(env.cfg, false)
	if err != nil {
		return err
	}

	current := shell.AutoDetectShell()
	if current == "" {
		fmt.Println("could not auto-detect current shell, skipping rc file update")
		return nil
	}

	return shell.InjectSourceLines(current, []string{fmt.Sprintf("source %s", path)}, false)
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
