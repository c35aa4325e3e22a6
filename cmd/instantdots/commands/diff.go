package commands

import (
	"fmt"
	"os"

	"github.com/instantdots/instantdots/internal/dotdiff"
	"github.com/instantdots/instantdots/internal/dotpath"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <target>",
	Short: "Show a unified diff between a target and its resolved source",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]

		env, err := loadEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer env.Close()

		res, ok := env.mapping[target]
		if !ok {
			fmt.Fprintf(os.Stderr, "no resolved source for %s\n", target)
			os.Exit(1)
		}

		targetPath, err := dotpath.Expand(target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		out, err := dotdiff.Diff(targetPath, res.Source.SourcePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if out == "" {
			fmt.Println("no differences")
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
