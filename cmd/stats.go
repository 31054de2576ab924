package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cnp-robotics/scout-cli/internal/enrich"
	"github.com/cnp-robotics/scout-cli/internal/normalize"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

var statsCmd = &cobra.Command{
	Use:   "stats [team numbers...]",
	Short: "Sync OPR and EPA from the statistics service",
	Long:  "Fetches current-season quick stats for the given teams, or the whole roster when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		numbers := env.Roster.Numbers()
		if len(args) > 0 {
			numbers = normalize.TeamNumbers(strings.Join(args, " "))
		}
		if len(numbers) == 0 {
			return resilience.NewValidationError("teams", "nothing to sync")
		}

		sync := enrich.NewStatsSync(statsClient(), env.Roster, cfg.Season, statsDelay())
		report, err := sync.Run(ctx, numbers)
		if err != nil {
			return err
		}

		fmt.Printf("updated %d of %d teams\n", report.Updated, len(numbers))
		if len(report.Missing) > 0 {
			fmt.Printf("not found: %s\n", strings.Join(report.Missing, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
