package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/instantdots/instantdots/internal/dotoverlay"
	"github.com/instantdots/instantdots/internal/dotpath"
	"github.com/instantdots/instantdots/internal/dotstate"
	"github.com/instantdots/instantdots/internal/unit"
	"github.com/spf13/cobra"
)

var statusScope string

var statusCmd = &cobra.Command{
	Use:   "status [scope]",
	Short: "Classify every resolved target as Clean, Modified, or Outdated",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			statusScope = args[0]
		}

		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer env.Close()

		states, err := classifyForStatus(env)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		targets := make([]string, 0, len(env.mapping))
		for target := range env.mapping {
			if inStatusScope(target, statusScope) {
				targets = append(targets, target)
			}
		}
		sort.Strings(targets)

		for _, target := range targets {
			res := env.mapping[target]
			printStatusLine(target, res, states[target])
		}

		if desc := describeEnabledRepos(env); desc != "" {
			fmt.Println()
			fmt.Print(desc)
		}
	},
}

func classifyForStatus(env *environment) (map[string]dotstate.State, error) {
	raw := make(map[string]dotstate.State, len(env.mapping))
	for target, res := range env.mapping {
		targetPath, err := dotpath.Expand(target)
		if err != nil {
			return nil, err
		}
		state, err := dotstate.Classify(env.db, targetPath, res.Source.SourcePath)
		if err != nil {
			return nil, err
		}
		raw[target] = state
	}
	return unit.Promote(env.units, raw), nil
}

func printStatusLine(target string, res dotoverlay.Resolution, state dotstate.State) {
	var colored string
	switch state {
	case dotstate.Clean:
		colored = color.GreenString("Clean")
	case dotstate.Modified:
		colored = color.YellowString("Modified")
	case dotstate.Outdated:
		colored = color.CyanString("Outdated")
	default:
		colored = state.String()
	}
	marker := ""
	if res.HasActiveOverride {
		marker = " (override)"
	}
	fmt.Printf("%-8s %s -> %s/%s%s\n", colored, target, res.Source.RepoName, res.Source.SubdirName, marker)
}

func inStatusScope(target, scope string) bool {
	if scope == "" || scope == "~" {
		return true
	}
	return target == scope || strings.HasPrefix(target, scope+"/")
}

func describeEnabledRepos(env *environment) string {
	var sb strings.Builder
	for _, repo := range env.cfg.Repos {
		if !repo.Enabled {
			continue
		}
		meta := env.metaByName[repo.Name]
		if meta.Description == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", repo.Name, meta.Description)
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
