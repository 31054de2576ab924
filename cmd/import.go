package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/normalize"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/roster"
)

// docColumns is the tab-separated column order of a pasted rankings doc,
// starting after the team number.
var docColumns = []string{
	model.FieldName,
	model.FieldStateRank,
	model.FieldRegionalQualified,
	model.FieldRPScore,
	model.FieldMatchPoints,
	model.FieldBasePoints,
	model.FieldAutoPoints,
	model.FieldHighScore,
	model.FieldWLT,
	model.FieldPlays,
}

type docReport struct {
	Created int
	Updated int
	Skipped int
}

// importDoc merges pasted rankings rows into the roster. Lines whose first
// column is not a team number are skipped.
func importDoc(ctx context.Context, ro *roster.Roster, data string) (docReport, error) {
	var report docReport
	for _, line := range strings.Split(data, "\n") {
		cols := strings.Split(line, "\t")
		number := normalize.TeamNumber(cols[0])
		if number == "" {
			if strings.TrimSpace(line) != "" {
				report.Skipped++
			}
			continue
		}

		fields := map[string]any{}
		for i, key := range docColumns {
			if i+1 < len(cols) {
				fields[key] = strings.TrimSpace(cols[i+1])
			}
		}

		outcome, err := ro.Upsert(ctx, number, model.SourceManual, fields)
		if err != nil {
			return report, err
		}
		if outcome.Created {
			report.Created++
		} else if outcome.Changed() {
			report.Updated++
		}
	}

	if report.Created+report.Updated == 0 && report.Skipped > 0 {
		return report, resilience.NewValidationError("input", "no team rows recognized")
	}
	return report, nil
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a pasted rankings doc",
	Long: `Parses tab-separated rankings rows, one team per line, in the order:
team number, name, state rank, RS, RP score, match points, base points,
auto points, high score, W-L-T, plays. Reads stdin when no file is given.
Lines that do not start with a team number are ignored. Edited fields keep
their human-corrected values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := importDoc(ctx, env.Roster, string(data))
		if err != nil {
			return err
		}
		fmt.Printf("imported %d new, %d updated, %d lines skipped\n",
			report.Created, report.Updated, report.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
