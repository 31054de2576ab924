package enrich

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cnp-robotics/scout-cli/internal/extract"
	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/normalize"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/roster"
	"github.com/cnp-robotics/scout-cli/pkg/anthropic"
	"github.com/cnp-robotics/scout-cli/pkg/ftcscout"
)

const scanIntegration = "scan"

// statsConcurrency bounds the parallel stats lookups after a scan.
const statsConcurrency = 4

// Scanner seeds the roster from raw team numbers: an AI web scan recovers
// public rankings data, then the statistics service fills in the indices.
type Scanner struct {
	ai       anthropic.Client
	stats    ftcscout.Client
	roster   *roster.Roster
	model    string
	season   int
	maxBatch int
}

// NewScanner builds a Scanner.
func NewScanner(ai anthropic.Client, stats ftcscout.Client, r *roster.Roster, aiModel string, season, maxBatch int) *Scanner {
	if maxBatch <= 0 {
		maxBatch = 10
	}
	return &Scanner{
		ai:       ai,
		stats:    stats,
		roster:   r,
		model:    aiModel,
		season:   season,
		maxBatch: maxBatch,
	}
}

// ScanReport summarizes one scan pass.
type ScanReport struct {
	Teams   []string
	Scanned int
	Usage   anthropic.TokenUsage
}

// Run parses raw input into team numbers, creates their records, and runs
// the web scan batch by batch. Input with no valid team numbers is rejected
// before any network call.
func (s *Scanner) Run(ctx context.Context, raw string) (ScanReport, error) {
	numbers := normalize.TeamNumbers(raw)
	if len(numbers) == 0 {
		return ScanReport{}, resilience.NewValidationError("input", "no valid team numbers found")
	}

	report := ScanReport{Teams: numbers}
	for _, number := range numbers {
		if _, err := s.roster.Upsert(ctx, number, model.SourceScan, nil); err != nil {
			return report, err
		}
		_ = s.roster.SetFetchState(ctx, number, scanIntegration, model.FetchLoading)
	}

	for start := 0; start < len(numbers); start += s.maxBatch {
		end := min(start+s.maxBatch, len(numbers))
		batch := numbers[start:end]

		results, usage, err := s.scanBatch(ctx, batch)
		if err != nil {
			for _, number := range batch {
				_ = s.roster.SetFetchState(ctx, number, scanIntegration, model.FetchError)
			}
			return report, err
		}
		report.Usage.InputTokens += usage.InputTokens
		report.Usage.OutputTokens += usage.OutputTokens

		for _, res := range results {
			number := normalize.TeamNumber(res.TeamNumber)
			if number == "" {
				continue
			}
			if _, err := s.roster.Upsert(ctx, number, model.SourceScan, scanFields(res)); err != nil {
				return report, err
			}
			_ = s.roster.SetFetchState(ctx, number, scanIntegration, model.FetchOK)
			report.Scanned++
		}
	}

	if err := s.enrichStats(ctx, numbers); err != nil {
		return report, err
	}

	zap.L().Info("scan complete",
		zap.Int("teams", len(numbers)),
		zap.Int("scanned", report.Scanned),
	)
	return report, nil
}

func (s *Scanner) scanBatch(ctx context.Context, numbers []string) ([]model.ScanResult, anthropic.TokenUsage, error) {
	resp, err := s.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: 4096,
		System: []anthropic.SystemBlock{{
			Text: scanSystemPrompt,
		}},
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: scanUserPrompt(numbers, s.season),
		}},
		WebSearch: &anthropic.WebSearchTool{MaxUses: int64(len(numbers) * 2)},
	})
	if err != nil {
		return nil, anthropic.TokenUsage{}, err
	}
	resp.Usage.LogCost(s.model, "scan")

	var results []model.ScanResult
	if err := extract.Array(resp.Text(), &results); err != nil {
		return nil, resp.Usage, err
	}
	return results, resp.Usage, nil
}

// enrichStats fans out the post-scan stats lookups. Soft misses are fine;
// the first hard failure cancels the remaining lookups. A nil stats client
// disables the phase.
func (s *Scanner) enrichStats(ctx context.Context, numbers []string) error {
	if s.stats == nil {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)

	for _, number := range numbers {
		g.Go(func() error {
			n, err := strconv.Atoi(number)
			if err != nil {
				return nil
			}
			stats, err := s.stats.TeamStats(ctx, n, s.season)
			if resilience.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			_, err = s.roster.Upsert(ctx, number, model.SourceStats, map[string]any{
				model.FieldName: stats.Name,
				model.FieldOPR:  stats.OPR,
				model.FieldEPA:  stats.NP,
			})
			return err
		})
	}
	return g.Wait()
}

func scanFields(res model.ScanResult) map[string]any {
	return map[string]any{
		model.FieldName:              res.TeamName,
		model.FieldStateRank:         res.StateRank,
		model.FieldRegionalQualified: res.RegionalQualified,
		model.FieldMatchPoints:       res.MatchPoints,
		model.FieldBasePoints:        res.BasePoints,
		model.FieldAutoPoints:        res.AutoPoints,
		model.FieldHighScore:         res.HighScore,
		model.FieldWLT:               res.WLT,
		model.FieldPlays:             res.Plays,
		model.FieldOPR:               res.OPR,
		model.FieldEPA:               res.EPA,
	}
}

const scanSystemPrompt = `You are a FIRST Tech Challenge scouting researcher. ` +
	`You look up current-season public data for FTC teams: state ranking, regional qualification, ` +
	`win-loss-tie record, match points, base points, auto points, high score, and matches played. ` +
	`Respond with a JSON array only. No prose, no markdown fences.`

func scanUserPrompt(numbers []string, season int) string {
	return fmt.Sprintf(`Research these FTC teams for the %d season: %s

Return a JSON array with one object per team:
[{"teamNumber":"...","teamName":"...","stateRank":"...","rs":"...","wlt":"...","matchPoints":"...","basePoints":"...","autoPoints":"...","highScore":"...","plays":"...","opr":"","epa":""}]

Use an empty string for anything you cannot find. Keep values as short strings exactly as published.`,
		season, strings.Join(numbers, ", "))
}
