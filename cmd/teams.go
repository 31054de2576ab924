package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the scouted roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		teams := env.Roster.List()
		if len(teams) == 0 {
			fmt.Println("no teams scouted yet; run scan first")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TEAM\tNAME\tEST\tOPR\tTIER\tMATCHES\t")
		for _, t := range teams {
			opr := "-"
			if t.OPR != nil {
				opr = fmt.Sprintf("%.1f", *t.OPR)
			}
			marker := ""
			if t.Target {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%.1f\t%s\t%s\t%d\t\n",
				t.Number, marker, t.Name, t.EstimateScore(), opr, t.Tier, t.MatchCount)
		}
		return w.Flush()
	},
}

var teamsShowCmd = &cobra.Command{
	Use:   "show <team number>",
	Short: "Print one team record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rec, err := env.Roster.Get(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

var teamsRmCmd = &cobra.Command{
	Use:   "rm <team number>",
	Short: "Remove one team record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Roster.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("team %s removed\n", args[0])
		return nil
	},
}

func init() {
	teamsCmd.AddCommand(teamsShowCmd)
	teamsCmd.AddCommand(teamsRmCmd)
	rootCmd.AddCommand(teamsCmd)
}
