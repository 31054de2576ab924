// Package enrich orchestrates the external integrations that feed the
// roster: the statistics service, the AI analyst and web scan, and the
// scouting form spreadsheet.
package enrich

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/roster"
	"github.com/cnp-robotics/scout-cli/pkg/ftcscout"
)

// integration name used for FetchState bookkeeping
const statsIntegration = "stats"

// StatsSync pulls per-team quick stats from the statistics service. Teams are
// fetched sequentially and paced so a full roster refresh stays polite.
type StatsSync struct {
	client  ftcscout.Client
	roster  *roster.Roster
	season  int
	limiter *rate.Limiter
}

// NewStatsSync builds a StatsSync pacing requests at one per minInterval.
func NewStatsSync(client ftcscout.Client, r *roster.Roster, season int, minInterval time.Duration) *StatsSync {
	if minInterval <= 0 {
		minInterval = 125 * time.Millisecond
	}
	return &StatsSync{
		client:  client,
		roster:  r,
		season:  season,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// StatsReport summarizes one sync pass.
type StatsReport struct {
	Updated int
	Missing []string
}

// Run fetches stats for the given teams in order. A team the service does not
// know is a soft miss and the loop continues; a transport failure aborts the
// whole pass so one outage does not burn through the roster.
func (s *StatsSync) Run(ctx context.Context, numbers []string) (StatsReport, error) {
	var report StatsReport
	for _, number := range numbers {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		n, err := strconv.Atoi(number)
		if err != nil {
			report.Missing = append(report.Missing, number)
			continue
		}

		_ = s.roster.SetFetchState(ctx, number, statsIntegration, model.FetchLoading)

		stats, err := s.client.TeamStats(ctx, n, s.season)
		if resilience.IsNotFound(err) {
			report.Missing = append(report.Missing, number)
			_ = s.roster.SetFetchState(ctx, number, statsIntegration, model.FetchOK)
			zap.L().Debug("no stats for team", zap.String("team", number), zap.Int("season", s.season))
			continue
		}
		if err != nil {
			_ = s.roster.SetFetchState(ctx, number, statsIntegration, model.FetchError)
			return report, err
		}

		_, err = s.roster.Upsert(ctx, number, model.SourceStats, map[string]any{
			model.FieldName: stats.Name,
			model.FieldOPR:  stats.OPR,
			model.FieldEPA:  stats.NP,
		})
		if err != nil {
			return report, err
		}
		_ = s.roster.SetFetchState(ctx, number, statsIntegration, model.FetchOK)
		report.Updated++
	}

	zap.L().Info("stats sync complete",
		zap.Int("updated", report.Updated),
		zap.Int("missing", len(report.Missing)),
	)
	return report, nil
}
