package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/instantdots/instantdots/internal/dotconfig"
	"github.com/instantdots/instantdots/internal/dotoverride"
	"github.com/spf13/cobra"
)

var alternativeCmd = &cobra.Command{
	Use:   "alternative",
	Short: "Pin or inspect which repository a target resolves from",
}

func loadOverrideStore() (*dotoverride.Store, error) {
	defaultConfigDir, err := dotconfig.GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	path := dotoverride.DefaultPath(filepath.Dir(defaultConfigDir))
	return dotoverride.Load(path)
}

var alternativeSetCmd = &cobra.Command{
	Use:   "set <target> <repo> <subdir>",
	Short: "Pin target to resolve from (repo, subdir)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		target, repo, subdir := args[0], args[1], args[2]

		store, err := loadOverrideStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		store.Set(target, repo, subdir)
		if err := store.Save(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s now pinned to %s/%s\n", target, repo, subdir)
	},
}

var alternativeUnsetCmd = &cobra.Command{
	Use:   "unset <target>",
	Short: "Remove the pin for target",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]

		store, err := loadOverrideStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !store.Remove(target) {
			fmt.Printf("%s has no pinned override\n", target)
			return
		}
		if err := store.Save(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s unpinned\n", target)
	},
}

var alternativeListPrefix string

var alternativeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pinned overrides",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := loadOverrideStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		overrides := store.List(alternativeListPrefix)
		if len(overrides) == 0 {
			fmt.Println("no pinned overrides")
			return
		}
		for _, o := range overrides {
			fmt.Printf("%s -> %s/%s\n", o.TargetPath, o.SourceRepo, o.SourceSubdir)
		}
	},
}

func init() {
	rootCmd.AddCommand(alternativeCmd)
	alternativeCmd.AddCommand(alternativeSetCmd, alternativeUnsetCmd, alternativeListCmd)
	alternativeListCmd.Flags().StringVar(&alternativeListPrefix, "prefix", "", "Restrict to overrides at or under this ~-relative prefix")
}
