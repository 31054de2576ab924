package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cnp-robotics/scout-cli/internal/extract"
	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/roster"
	"github.com/cnp-robotics/scout-cli/pkg/anthropic"
)

// Progress is called after each completed batch.
type Progress func(done, total int)

// Analyzer asks the AI strategist to rate every roster team as an alliance
// partner. Teams are analyzed in fixed-size batches so one oversized roster
// cannot blow the response budget.
type Analyzer struct {
	ai       anthropic.Client
	roster   *roster.Roster
	model    string
	maxBatch int
}

// NewAnalyzer builds an Analyzer.
func NewAnalyzer(ai anthropic.Client, r *roster.Roster, aiModel string, maxBatch int) *Analyzer {
	if maxBatch <= 0 {
		maxBatch = 8
	}
	return &Analyzer{
		ai:       ai,
		roster:   r,
		model:    aiModel,
		maxBatch: maxBatch,
	}
}

// Run analyzes the whole roster and archives the run as a snapshot. Results
// merged before a mid-run failure stay merged.
func (a *Analyzer) Run(ctx context.Context, progress Progress) (*model.AnalysisSnapshot, error) {
	teams := a.roster.List()
	if len(teams) == 0 {
		return nil, resilience.NewValidationError("roster", "no teams to analyze")
	}

	system := anthropic.SystemBlock{
		Text:         analyzeSystemPrompt(a.roster.Mine(), corrections(teams)),
		CacheControl: &anthropic.CacheControl{TTL: "5m"},
	}

	snap := model.AnalysisSnapshot{
		ID:        uuid.New().String(),
		Model:     a.model,
		Teams:     len(teams),
		CreatedAt: time.Now().UTC(),
	}

	batches := (len(teams) + a.maxBatch - 1) / a.maxBatch
	for i := 0; i < len(teams); i += a.maxBatch {
		batch := teams[i:min(i+a.maxBatch, len(teams))]

		resp, err := a.ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     a.model,
			MaxTokens: 8192,
			System:    []anthropic.SystemBlock{system},
			Messages: []anthropic.Message{{
				Role:    "user",
				Content: analyzeUserPrompt(batch),
			}},
		})
		if err != nil {
			return &snap, err
		}
		resp.Usage.LogCost(a.model, "analyze")

		var results []model.AnalysisResult
		if err := extract.Array(resp.Text(), &results); err != nil {
			return &snap, err
		}

		report, err := a.roster.ApplyAnalysisResults(ctx, results)
		if err != nil {
			return &snap, err
		}
		snap.Results = append(snap.Results, results...)
		snap.Unmatched = append(snap.Unmatched, report.Unmatched...)

		if progress != nil {
			progress(i/a.maxBatch+1, batches)
		}
	}

	if err := a.roster.AddSnapshot(ctx, snap); err != nil {
		return &snap, err
	}
	zap.L().Info("analysis complete",
		zap.String("snapshot", snap.ID),
		zap.Int("teams", snap.Teams),
		zap.Int("results", len(snap.Results)),
		zap.Strings("unmatched", snap.Unmatched),
	)
	return &snap, nil
}

// corrections collects every human edit so the strategist never argues with
// the scouts.
func corrections(teams []*model.TeamRecord) []string {
	var out []string
	for _, rec := range teams {
		for field, entry := range rec.Edits {
			out = append(out, fmt.Sprintf("Team %s: %s = %v (reason: %s)",
				rec.Number, field, entry.Value, entry.Reason))
		}
	}
	return out
}

func analyzeSystemPrompt(mine *model.TeamRecord, corrections []string) string {
	var b strings.Builder
	b.WriteString(`You are an expert FIRST Tech Challenge alliance strategist for the DECODE season.
Scoring reference: leaving the launch zone in auto is worth 3, each classified artifact 3
(overflow 1), base return 5 partial / 10 full.

Rate each team as an alliance partner for our robot. Respond with a JSON array only:
[{"teamNumber":"...","tier":"OPTIMAL|MID|BAD","compatScore":0-100,"role":"...","summary":"...","whyAlliance":"...","withTips":["..."],"againstTips":["..."],"notes":"..."}]
`)

	if mine != nil {
		fmt.Fprintf(&b, "\nOUR ROBOT (team %s %s): est score %.1f, avg auto %.1f, avg teleop %.1f, best park %s, notes: %s\n",
			mine.Number, mine.Name, mine.EstimateScore(), mine.AvgAuto, mine.AvgTeleop, mine.BestPark, mine.ScoutNotes)
	}
	if len(corrections) > 0 {
		b.WriteString("\nHUMAN CORRECTIONS (authoritative, never override):\n")
		for _, c := range corrections {
			b.WriteString("- " + c + "\n")
		}
	}
	return b.String()
}

func analyzeUserPrompt(teams []*model.TeamRecord) string {
	var b strings.Builder
	b.WriteString("Analyze these teams:\n")
	for _, rec := range teams {
		fmt.Fprintf(&b, "\nTeam %s (%s): matches scouted %d, est score %.1f, avg auto %.1f (high %.0f), avg teleop %.1f (high %.0f), has auto %t, best park %s",
			rec.Number, rec.Name, rec.MatchCount, rec.EstimateScore(),
			rec.AvgAuto, rec.HighAuto, rec.AvgTeleop, rec.HighTeleop,
			rec.HasAuto, rec.BestPark)
		if rec.OPR != nil {
			fmt.Fprintf(&b, ", OPR %.1f", *rec.OPR)
		}
		if rec.StateRank != "" {
			fmt.Fprintf(&b, ", state rank %s", rec.StateRank)
		}
		if rec.WLT != "" {
			fmt.Fprintf(&b, ", W-L-T %s", rec.WLT)
		}
		if rec.ScoutNotes != "" {
			fmt.Fprintf(&b, ", scout notes: %s", rec.ScoutNotes)
		}
	}
	b.WriteString("\n\nReturn the JSON array, one object per team, in the same order.")
	return b.String()
}
