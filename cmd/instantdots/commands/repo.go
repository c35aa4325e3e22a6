package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/instantdots/instantdots/internal/dotconfig"
	"github.com/instantdots/instantdots/internal/dotmeta"
	"github.com/instantdots/instantdots/internal/dotops"
	"github.com/instantdots/instantdots/internal/dotpath"
	"github.com/instantdots/instantdots/internal/dotrepo"
	"github.com/instantdots/instantdots/internal/report"
	"github.com/instantdots/instantdots/internal/vcs"
	"github.com/spf13/cobra"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage registered dotfile repositories",
}

var (
	repoAddBranch   string
	repoAddReadOnly bool
)

var repoAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Clone a repository and register it in the configuration",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name, url := args[0], args[1]

		cfg, err := dotconfig.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		reposDir := cfg.ReposDir
		if reposDir == "" {
			dataDir, err := dotconfig.GetDefaultDataDir()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			reposDir = filepath.Join(dataDir, "repos")
		}
		repoPath := filepath.Join(reposDir, name)

		backend := vcs.NewGitBackend()
		ctx := context.Background()
		opts := vcs.CloneOptions{Branch: repoAddBranch, Depth: cfg.CloneDepth}
		if err := backend.Clone(ctx, url, repoPath, opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		repo := dotconfig.Repo{Name: name, URL: url, Branch: repoAddBranch, Enabled: true, ReadOnly: repoAddReadOnly}
		meta, err := dotmeta.Resolve(repo, repoPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if err := cfg.AddRepo(repo); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := dotconfig.Save(cfg, configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		active := dotconfig.ResolveActiveSubdirs(repo, meta)
		var subdirPaths []string
		for _, s := range active {
			if s == "." {
				subdirPaths = append(subdirPaths, repoPath)
				continue
			}
			subdirPaths = append(subdirPaths, filepath.Join(repoPath, s))
		}

		home, err := dotpath.Home()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer env.Close()

		result, err := dotrepo.Converge(env.db, repoPath, subdirPaths, home)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Printf("repository %s added: %d applied, %d registered, %d left modified\n",
			name, result.Applied, result.Registered, result.LeftModified)
	},
}

var repoRemoveKeepFiles bool

var repoRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Unregister a repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		cfg, err := dotconfig.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		reposDir := cfg.ReposDir
		if reposDir == "" {
			dataDir, derr := dotconfig.GetDefaultDataDir()
			if derr != nil {
				fmt.Fprintln(os.Stderr, derr)
				os.Exit(1)
			}
			reposDir = filepath.Join(dataDir, "repos")
		}

		if err := cfg.RemoveRepo(name); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := dotconfig.Save(cfg, configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		repoPath := filepath.Join(reposDir, name)
		if err := dotrepo.Remove(repoPath, repoRemoveKeepFiles); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Printf("repository %s removed\n", name)
	},
}

var repoUpdateApply bool

var repoUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Pull the latest commits for one repository, or all of them",
	Long:  `With a name, pulls that repository only. With no argument, pulls every registered repository (spec's update_all), continuing past any repo that fails, and reports a composite failure listing which ones did. --apply runs apply afterward.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := dotconfig.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		reposDir := cfg.ReposDir
		if reposDir == "" {
			dataDir, derr := dotconfig.GetDefaultDataDir()
			if derr != nil {
				fmt.Fprintln(os.Stderr, derr)
				os.Exit(1)
			}
			reposDir = filepath.Join(dataDir, "repos")
		}

		backend := vcs.NewGitBackend()
		updateFailed := false

		if len(args) == 1 {
			name := args[0]
			var target *dotconfig.Repo
			for i := range cfg.Repos {
				if cfg.Repos[i].Name == name {
					target = &cfg.Repos[i]
					break
				}
			}
			if target == nil {
				fmt.Fprintf(os.Stderr, "repository %s not found\n", name)
				os.Exit(1)
			}

			repoPath := filepath.Join(reposDir, name)
			if err := dotrepo.Update(context.Background(), backend, repoPath, target.Branch); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("repository %s updated\n", name)
		} else {
			entries := make([]dotrepo.UpdateAllEntry, 0, len(cfg.Repos))
			for _, r := range cfg.Repos {
				entries = append(entries, dotrepo.UpdateAllEntry{
					Name:   r.Name,
					Path:   filepath.Join(reposDir, r.Name),
					Branch: r.Branch,
				})
			}

			result := dotrepo.UpdateAll(context.Background(), backend, entries)
			for _, name := range result.Updated {
				fmt.Printf("repository %s updated\n", name)
			}
			for name, ferr := range result.Failed {
				fmt.Fprintf(os.Stderr, "repository %s failed to update: %v\n", name, ferr)
			}

			if err := result.Err(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				updateFailed = true
				if !repoUpdateApply {
					os.Exit(1)
				}
			}
		}

		if repoUpdateApply {
			env, err := loadEnvironment()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer env.Close()

			unlock, err := acquireRunLock()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer unlock()

			results, counts, err := dotops.Apply(env.db, env.mapping, env.units, "")
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			var rep report.Report
			rep.Command = "apply"
			phase := rep.AddPhase("Dotfiles")
			report.AddFileResults(phase, results)
			rep.PrintSummary(os.Stdout, summaryVerbosity())

			fmt.Printf("\napplied %d, skipped %d modified, %d already clean, %d failed\n",
				counts.Applied, counts.SkippedModified, counts.SkippedClean, counts.Failed)

			exitCode := rep.ExitCode()
			if updateFailed && exitCode == 0 {
				exitCode = 1
			}
			os.Exit(exitCode)
		}

		if updateFailed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(repoCmd)
	repoCmd.AddCommand(repoAddCmd, repoRemoveCmd, repoUpdateCmd)

	repoAddCmd.Flags().StringVar(&repoAddBranch, "branch", "", "Branch to check out (default: remote's default branch)")
	repoAddCmd.Flags().BoolVar(&repoAddReadOnly, "read-only", false, "Register the repository as read-only (rejects fetch writes)")
	repoRemoveCmd.Flags().BoolVar(&repoRemoveKeepFiles, "keep-files", false, "Keep the cloned repository directory on disk")
	repoUpdateCmd.Flags().BoolVar(&repoUpdateApply, "apply", false, "Apply resolved dotfiles after updating")
}
