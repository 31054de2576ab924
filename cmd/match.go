package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/roster"
)

var (
	matchAuto     float64
	matchTeleop   float64
	matchPoints   float64
	matchPark     string
	matchLeave    bool
	matchClose    bool
	matchFar      bool
	matchCapacity int
	matchNotes    string
)

// matchFields builds the observation field bag from the flags the user
// actually passed. A single match's score feeds both the running mean and the
// running max; the total defaults to auto+teleop when not given explicitly.
func matchFields(flags *pflag.FlagSet) map[string]any {
	fields := map[string]any{}
	if flags.Changed("auto") {
		fields[model.FieldHasAuto] = matchAuto > 0
		fields[model.FieldAvgAuto] = matchAuto
		fields[model.FieldHighAuto] = matchAuto
	}
	if flags.Changed("teleop") {
		fields[model.FieldAvgTeleop] = matchTeleop
		fields[model.FieldHighTeleop] = matchTeleop
	}
	if flags.Changed("points") {
		fields[model.FieldAvgPoints] = matchPoints
		fields[model.FieldHighPoints] = matchPoints
	} else if flags.Changed("auto") && flags.Changed("teleop") {
		total := matchAuto + matchTeleop
		fields[model.FieldAvgPoints] = total
		fields[model.FieldHighPoints] = total
	}
	if flags.Changed("park") {
		fields[model.FieldBestPark] = matchPark
	}
	if flags.Changed("leave") {
		fields[model.FieldAutoLeave] = matchLeave
	}
	if flags.Changed("close") {
		fields[model.FieldAutoClose] = matchClose
	}
	if flags.Changed("far") {
		fields[model.FieldAutoFar] = matchFar
	}
	if flags.Changed("capacity") {
		fields[model.FieldCapacity] = matchCapacity
	}
	if flags.Changed("notes") {
		fields[model.FieldScoutNotes] = matchNotes
	}
	return fields
}

func matchSummary(rec *model.TeamRecord, outcome roster.MergeOutcome) string {
	return fmt.Sprintf("team %s: match %d recorded (%d fields merged, %d held by edits)",
		rec.Number, rec.MatchCount, len(outcome.Applied), len(outcome.SkippedEdited))
}

var matchCmd = &cobra.Command{
	Use:   "match <team number>",
	Short: "Record one scouted match for a team",
	Long: `Merges a single match observation into a team's aggregates: running
means for auto/teleop/total, sticky maxima and booleans, best park, and an
appended scouting note. Only the flags you pass are merged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		outcome, err := env.Roster.SubmitObservation(ctx, args[0], model.Observation{
			Source: model.SourceMatch,
			Fields: matchFields(cmd.Flags()),
		})
		if err != nil {
			return err
		}

		rec, err := env.Roster.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(matchSummary(rec, outcome))
		return nil
	},
}

func init() {
	f := matchCmd.Flags()
	f.Float64Var(&matchAuto, "auto", 0, "auto-period score this match")
	f.Float64Var(&matchTeleop, "teleop", 0, "teleop score this match")
	f.Float64Var(&matchPoints, "points", 0, "total score this match (default auto+teleop)")
	f.StringVar(&matchPark, "park", "", "endgame park level (none, partial, full)")
	f.BoolVar(&matchLeave, "leave", false, "robot left the starting zone in auto")
	f.BoolVar(&matchClose, "close", false, "scored from the close zone in auto")
	f.BoolVar(&matchFar, "far", false, "scored from the far zone in auto")
	f.IntVar(&matchCapacity, "capacity", 0, "artifacts held at once")
	f.StringVar(&matchNotes, "notes", "", "free-form scouting note")
	rootCmd.AddCommand(matchCmd)
}
