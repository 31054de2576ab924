package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cnp-robotics/scout-cli/internal/enrich"
	"github.com/cnp-robotics/scout-cli/pkg/ftcscout"
)

var scanSkipStats bool

var scanCmd = &cobra.Command{
	Use:   "scan [team numbers...]",
	Short: "Create team records and run the AI web scan",
	Long: `Parses team numbers out of the arguments (or stdin when none are given),
creates a record for each, and asks the AI to recover public rankings data for
them. Statistics are fetched afterwards unless --skip-stats is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw := strings.Join(args, " ")
		if raw == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			raw = string(data)
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		ai, err := anthropicClient()
		if err != nil {
			return err
		}

		var stats ftcscout.Client
		if !scanSkipStats {
			stats = statsClient()
		}
		scanner := enrich.NewScanner(ai, stats, env.Roster, cfg.Anthropic.Model, cfg.Season, cfg.Anthropic.MaxBatchSize)

		report, err := scanner.Run(ctx, raw)
		if err != nil {
			return err
		}

		fmt.Printf("scanned %d of %d teams (est. cost $%.4f)\n",
			report.Scanned, len(report.Teams), report.Usage.EstimateCost(cfg.Anthropic.Model))
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanSkipStats, "skip-stats", false, "skip the statistics fetch after the scan")
	rootCmd.AddCommand(scanCmd)
}
