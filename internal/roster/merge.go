package roster

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cnp-robotics/scout-cli/internal/aggregate"
	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/normalize"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/store"
)

// MergeOutcome reports what a merge actually changed. Skips are normal
// operation, not errors.
type MergeOutcome struct {
	Created       bool
	Applied       []string
	SkippedEdited []string
	SkippedEmpty  []string
}

// Changed reports whether any field was written.
func (o MergeOutcome) Changed() bool {
	return o.Created || len(o.Applied) > 0
}

// Upsert merges a set of field values from one source into a team's record,
// creating the record if needed. Human-edited fields are never overwritten and
// empty incoming values never displace present ones.
func (r *Roster) Upsert(ctx context.Context, number string, source model.SourceTag, fields map[string]any) (MergeOutcome, error) {
	canonical := normalize.TeamNumber(number)
	if canonical == "" {
		return MergeOutcome{}, resilience.NewValidationError("team number", "must start with 3-6 digits")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, outcome := r.ensure(canonical)
	outcome = r.mergeFields(rec, fields, outcome)

	if outcome.Changed() {
		rec.UpdatedAt = time.Now().UTC()
		rec.Provenance = source
		if err := saveBlob(ctx, r.st, store.BlobTeams, r.teams); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

// SubmitObservation merges one observation into a team's record and appends
// it to the observation log. The observation count increments exactly once
// per call, regardless of how many fields the observation carries.
func (r *Roster) SubmitObservation(ctx context.Context, number string, obs model.Observation) (MergeOutcome, error) {
	canonical := normalize.TeamNumber(number)
	if canonical == "" {
		return MergeOutcome{}, resilience.NewValidationError("team number", "must start with 3-6 digits")
	}
	if len(obs.Fields) == 0 {
		return MergeOutcome{}, resilience.NewValidationError("observation", "carries no fields")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, outcome := r.ensure(canonical)
	outcome = r.mergeFields(rec, obs.Fields, outcome)
	rec.MatchCount++
	rec.UpdatedAt = time.Now().UTC()
	rec.Provenance = obs.Source

	r.log = append(r.log, model.ObservationLogEntry{
		ID:         uuid.New().String(),
		TeamNumber: canonical,
		Source:     obs.Source,
		Fields:     obs.Fields,
		LoggedAt:   time.Now().UTC(),
	})

	if err := saveBlob(ctx, r.st, store.BlobTeams, r.teams); err != nil {
		return outcome, err
	}
	return outcome, saveBlob(ctx, r.st, store.BlobObservations, r.log)
}

// RecordEdit applies a human correction: the value is written through
// coercion and the field is locked against automatic merges from then on.
// A non-empty reason is required.
func (r *Roster) RecordEdit(ctx context.Context, number, field string, value any, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return resilience.NewValidationError("reason", "must not be empty")
	}
	spec := r.reg.ByKey(field)
	if spec == nil {
		return resilience.NewValidationError("field", "unknown field "+field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.teams[number]
	if !ok {
		return &resilience.NotFoundError{Kind: "team", Key: number}
	}

	coerced, _ := coerce(spec, value)
	rec.Set(field, coerced)
	rec.Edits.Record(field, coerced, strings.TrimSpace(reason))
	rec.Provenance = model.SourceManual
	rec.UpdatedAt = time.Now().UTC()

	zap.L().Info("field edited",
		zap.String("team", number),
		zap.String("field", field),
		zap.String("reason", strings.TrimSpace(reason)),
	)
	return saveBlob(ctx, r.st, store.BlobTeams, r.teams)
}

// ClearEdit unlocks a previously edited field so automatic merges apply
// again. The current value stays until the next merge.
func (r *Roster) ClearEdit(ctx context.Context, number, field string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.teams[number]
	if !ok {
		return &resilience.NotFoundError{Kind: "team", Key: number}
	}
	if !rec.Edits.Has(field) {
		return &resilience.NotFoundError{Kind: "edit", Key: field}
	}
	delete(rec.Edits, field)
	rec.UpdatedAt = time.Now().UTC()
	return saveBlob(ctx, r.st, store.BlobTeams, r.teams)
}

// AnalysisReport summarizes one ApplyAnalysisResults call.
type AnalysisReport struct {
	Applied   int
	Unmatched []string
}

// ApplyAnalysisResults merges AI analysis output into matching records.
// Results whose team number matches no record are reported and discarded,
// never used to create records.
func (r *Roster) ApplyAnalysisResults(ctx context.Context, results []model.AnalysisResult) (AnalysisReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report AnalysisReport
	changed := false
	for _, res := range results {
		rec, ok := r.teams[res.TeamNumber]
		if !ok {
			report.Unmatched = append(report.Unmatched, res.TeamNumber)
			continue
		}
		fields := map[string]any{
			model.FieldTier:        string(res.Tier),
			model.FieldCompatScore: res.CompatScore,
			model.FieldRole:        res.Role,
			model.FieldSummary:     res.Summary,
			model.FieldWhyAlliance: res.WhyAlliance,
			model.FieldWithTips:    res.WithTips,
			model.FieldAgainstTips: res.AgainstTips,
			model.FieldNotes:       res.Notes,
		}
		outcome := r.mergeFields(rec, fields, MergeOutcome{})
		if outcome.Changed() {
			rec.UpdatedAt = time.Now().UTC()
			rec.Provenance = model.SourceAI
			changed = true
		}
		report.Applied++
	}

	if changed {
		if err := saveBlob(ctx, r.st, store.BlobTeams, r.teams); err != nil {
			return report, err
		}
	}
	if len(report.Unmatched) > 0 {
		zap.L().Warn("analysis results for unknown teams discarded",
			zap.Strings("teams", report.Unmatched),
		)
	}
	return report, nil
}

// ensure must be called with the lock held.
func (r *Roster) ensure(number string) (*model.TeamRecord, MergeOutcome) {
	if rec, ok := r.teams[number]; ok {
		return rec, MergeOutcome{}
	}
	rec := model.NewTeamRecord(number)
	r.teams[number] = rec
	return rec, MergeOutcome{Created: true}
}

// mergeFields walks the registry in declaration order so merge results are
// deterministic. Must be called with the lock held.
func (r *Roster) mergeFields(rec *model.TeamRecord, fields map[string]any, outcome MergeOutcome) MergeOutcome {
	for _, spec := range r.reg.Fields {
		raw, present := fields[spec.Key]
		if !present {
			continue
		}
		if rec.Edits.Has(spec.Key) {
			outcome.SkippedEdited = append(outcome.SkippedEdited, spec.Key)
			continue
		}

		coerced, nonEmpty := coerce(&spec, raw)
		if spec.Kind == model.KindLast {
			if !nonEmpty {
				outcome.SkippedEmpty = append(outcome.SkippedEmpty, spec.Key)
				continue
			}
			rec.Set(spec.Key, coerced)
			outcome.Applied = append(outcome.Applied, spec.Key)
			continue
		}

		merged := aggregate.Apply(rec.Get(spec.Key), rec.MatchCount, coerced, spec.Kind, spec.Precision)
		rec.Set(spec.Key, merged)
		outcome.Applied = append(outcome.Applied, spec.Key)
	}
	return outcome
}

// coerce converts a raw incoming value to the field's declared type. The
// second return reports whether the value is considered present for the
// non-empty preference rule.
func coerce(spec *model.FieldSpec, v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch spec.Type {
	case model.TypeString:
		s, _ := v.(string)
		s = strings.TrimSpace(s)
		return s, s != ""
	case model.TypeFloat:
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		case string:
			if strings.TrimSpace(n) == "" {
				return 0.0, false
			}
			return normalize.Num(n), true
		}
		return 0.0, false
	case model.TypeInt:
		switch n := v.(type) {
		case int:
			return n, true
		case float64:
			return int(n), true
		case string:
			if strings.TrimSpace(n) == "" {
				return 0, false
			}
			return normalize.Int(n), true
		}
		return 0, false
	case model.TypeBool:
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			return normalize.Bool(b), true
		}
		return false, false
	case model.TypeStrings:
		ss, _ := v.([]string)
		return ss, len(ss) > 0
	}
	return v, true
}
