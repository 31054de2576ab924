package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/normalize"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Show our own robot's record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rec := env.Roster.Mine()
		if rec == nil {
			fmt.Println("not set; run mine set <number> [name]")
			return nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

var mineSetCmd = &cobra.Command{
	Use:   "set <team number> [name]",
	Short: "Set our own robot's record",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		number := normalize.TeamNumber(args[0])
		if number == "" {
			return resilience.NewValidationError("team", "not a valid team number")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rec := env.Roster.Mine()
		if rec == nil || rec.Number != number {
			rec = model.NewTeamRecord(number)
		}
		if len(args) == 2 {
			rec.Name = args[1]
		}
		if err := env.Roster.SetMine(ctx, rec); err != nil {
			return err
		}
		fmt.Printf("our robot set to %s\n", number)
		return nil
	},
}

func init() {
	mineCmd.AddCommand(mineSetCmd)
	rootCmd.AddCommand(mineCmd)
}
