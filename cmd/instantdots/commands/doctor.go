package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/instantdots/instantdots/internal/dotmeta"
	"github.com/spf13/cobra"
)

// doctorCmd validates config/override/metadata consistency instead of
// the teacher's tool-installation checks, retargeted at this domain's
// own failure modes (spec §9 supplement).
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration and overrides for consistency",
	Run: func(cmd *cobra.Command, args []string) {
		healthy := true

		fmt.Print("Checking configuration file... ")
		env, err := loadEnvironment()
		if err != nil {
			fmt.Printf("FAIL: %v\n", err)
			os.Exit(1)
		}
		defer env.Close()
		color.Green("OK")

		fmt.Println("\nChecking repository metadata:")
		for _, repo := range env.cfg.Repos {
			meta := env.metaByName[repo.Name]
			fmt.Printf("  - %s: ", repo.Name)
			if dotmeta.IsExternal(meta) && len(repo.ActiveSubdirectories) > 0 {
				color.Yellow("external repo has an explicit active_subdirectories list (external repos are walked at '.' only; other entries contribute nothing)")
				continue
			}
			color.Green("OK")
		}

		fmt.Println("\nChecking pinned overrides for dangling targets:")
		dangling := 0
		for _, o := range env.overrides.List("") {
			if _, ok := env.mapping[o.TargetPath]; !ok {
				fmt.Printf("  - %s: %s\n", o.TargetPath, color.YellowString("pinned but no candidate resolves it"))
				dangling++
				continue
			}
		}
		if dangling == 0 {
			fmt.Println("  all pinned overrides resolve to a live candidate.")
		} else {
			healthy = false
		}

		fmt.Println()
		if healthy {
			color.Green("instantdots setup appears healthy.")
		} else {
			color.Red("instantdots setup has issues. Review the messages above.")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
