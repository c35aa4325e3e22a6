package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/instantdots/instantdots/internal/dotconfig"
	"github.com/instantdots/instantdots/internal/dotops"
	"github.com/instantdots/instantdots/internal/dotsource"
	"github.com/spf13/cobra"
)

var addRepoName string
var addSubdir string

var addCmd = &cobra.Command{
	Use:   "add <target>",
	Short: "Adopt an untracked path under $HOME into a repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]

		if addRepoName == "" || addSubdir == "" {
			fmt.Fprintln(os.Stderr, "both --repo and --subdir are required")
			os.Exit(1)
		}

		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer env.Close()

		repo := findRepo(env, addRepoName)
		if repo == nil {
			fmt.Fprintf(os.Stderr, "repository %s not found\n", addRepoName)
			os.Exit(1)
		}
		meta := env.metaByName[addRepoName]
		repoPath := filepath.Join(env.reposDir, addRepoName)

		existing, err := dotsource.ListSourcesForTarget(env.repoCtxs, target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if dryRun {
			fmt.Printf("[dry run] would add %s to %s/%s\n", target, addRepoName, addSubdir)
			return
		}

		result, err := dotops.Add(env.db, env.overrides, target, *repo, meta, repoPath, addSubdir, len(existing))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		dotops.Print(os.Stdout, result)
	},
}

func findRepo(env *environment, name string) *dotconfig.Repo {
	for i := range env.cfg.Repos {
		if env.cfg.Repos[i].Name == name {
			r := env.cfg.Repos[i]
			return &r
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addRepoName, "repo", "", "Repository to adopt the file into")
	addCmd.Flags().StringVar(&addSubdir, "subdir", "", "Repository subdir to place the file under")
}
