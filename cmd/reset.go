package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all roster state",
	Long:  "Deletes every team record, the observation log, snapshots, and settings. Our own robot's record survives.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if !resetYes {
			return resilience.NewValidationError("confirm", "pass --yes to confirm the wipe")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		n := env.Roster.Len()
		if err := env.Roster.Reset(ctx); err != nil {
			return err
		}
		fmt.Printf("wiped %d teams\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the wipe")
	rootCmd.AddCommand(resetCmd)
}
