package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var targetClear bool

var targetCmd = &cobra.Command{
	Use:   "target [team number]",
	Short: "Show or set the target team",
	Long:  "With no arguments prints the current target. With a team number, marks that team as the active scouting target.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if targetClear {
			if err := env.Roster.SetTarget(ctx, ""); err != nil {
				return err
			}
			fmt.Println("target cleared")
			return nil
		}

		if len(args) == 0 {
			t := env.Roster.Target()
			if t == "" {
				fmt.Println("no target set")
				return nil
			}
			fmt.Println(t)
			return nil
		}

		if err := env.Roster.SetTarget(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("target set to %s\n", args[0])
		return nil
	},
}

func init() {
	targetCmd.Flags().BoolVar(&targetClear, "clear", false, "clear the current target")
	rootCmd.AddCommand(targetCmd)
}
