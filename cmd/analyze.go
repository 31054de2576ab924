package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cnp-robotics/scout-cli/internal/enrich"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run AI alliance analysis over the roster",
	Long: `Sends the scouted roster to the AI in batches and merges the returned
tiers, compatibility scores, and alliance tips back into each record. Human
edits always win over analysis output. The completed run is archived as a
snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		ai, err := anthropicClient()
		if err != nil {
			return err
		}

		analyzer := enrich.NewAnalyzer(ai, env.Roster, cfg.Anthropic.Model, cfg.Anthropic.MaxBatchSize)
		snap, err := analyzer.Run(ctx, func(done, total int) {
			fmt.Printf("batch %d/%d\n", done, total)
		})
		if err != nil {
			return err
		}

		fmt.Printf("analyzed %d teams, %d results merged\n", snap.Teams, len(snap.Results))
		if len(snap.Unmatched) > 0 {
			fmt.Printf("unmatched results discarded: %s\n", strings.Join(snap.Unmatched, ", "))
		}
		return nil
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List archived analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		snaps, err := env.Roster.Snapshots(ctx)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Println("no snapshots")
			return nil
		}
		for _, s := range snaps {
			fmt.Printf("%s  %s  teams=%d results=%d unmatched=%d  %s\n",
				s.CreatedAt.Format("2006-01-02 15:04"), s.ID, s.Teams, len(s.Results), len(s.Unmatched), s.Model)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(snapshotsCmd)
}
