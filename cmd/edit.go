package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

var (
	editReason string
	editClear  bool
)

var editCmd = &cobra.Command{
	Use:   "edit <team number> <field> [value]",
	Short: "Pin a field to a human-corrected value",
	Long: `Records a human edit on one field. An edited field stops accepting
automated merges from every source until the edit is cleared with --clear.
A reason is required so the correction is auditable.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		number, field := args[0], args[1]

		if editClear {
			if err := env.Roster.ClearEdit(ctx, number, field); err != nil {
				return err
			}
			fmt.Printf("team %s: %s reopened to automated merges\n", number, field)
			return nil
		}

		if len(args) < 3 {
			return resilience.NewValidationError("value", "a value is required unless --clear is set")
		}
		if err := env.Roster.RecordEdit(ctx, number, field, args[2], editReason); err != nil {
			return err
		}
		fmt.Printf("team %s: %s pinned to %q\n", number, field, args[2])
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editReason, "reason", "", "why this value is being corrected (required)")
	editCmd.Flags().BoolVar(&editClear, "clear", false, "remove the edit and reopen the field")
	rootCmd.AddCommand(editCmd)
}
