package roster

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/store"
)

func newTestRoster(t *testing.T) (*Roster, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	r := New(st, model.DefaultRegistry())
	require.NoError(t, r.Load(context.Background()))
	return r, st
}

func TestUpsertCreatesRecord(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	out, err := r.Upsert(ctx, "755", model.SourceManual, map[string]any{
		model.FieldName: "Delbotics",
	})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, []string{model.FieldName}, out.Applied)

	rec, err := r.Get("755")
	require.NoError(t, err)
	assert.Equal(t, "Delbotics", rec.Name)
	assert.Equal(t, model.SourceManual, rec.Provenance)
}

func TestUpsertCanonicalizesNumber(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "  755 -- Delbotics", model.SourceManual, nil)
	require.NoError(t, err)
	_, err = r.Get("755")
	assert.NoError(t, err)

	_, err = r.Upsert(ctx, "robots", model.SourceManual, nil)
	assert.True(t, resilience.IsValidation(err))
}

func TestUpsertNonEmptyPreference(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceScan, map[string]any{model.FieldName: "Foo"})
	require.NoError(t, err)

	// empty value never displaces a present one
	out, err := r.Upsert(ctx, "755", model.SourceStats, map[string]any{model.FieldName: ""})
	require.NoError(t, err)
	assert.Equal(t, []string{model.FieldName}, out.SkippedEmpty)

	rec, _ := r.Get("755")
	assert.Equal(t, "Foo", rec.Name)

	// a later non-empty value wins
	_, err = r.Upsert(ctx, "755", model.SourceStats, map[string]any{model.FieldName: "Bar"})
	require.NoError(t, err)
	rec, _ = r.Get("755")
	assert.Equal(t, "Bar", rec.Name)
}

func TestUpsertCoercesStrings(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceStats, map[string]any{
		model.FieldOPR: "68.4",
		model.FieldEPA: 12.1,
	})
	require.NoError(t, err)

	rec, _ := r.Get("755")
	require.NotNil(t, rec.OPR)
	assert.Equal(t, 68.4, *rec.OPR)
	require.NotNil(t, rec.EPA)
	assert.Equal(t, 12.1, *rec.EPA)
}

func TestGetReturnsCopy(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceManual, map[string]any{model.FieldName: "Delbotics"})
	require.NoError(t, err)

	rec, _ := r.Get("755")
	rec.Name = "mutated"
	rec.Edits.Record(model.FieldName, "x", "y")

	again, _ := r.Get("755")
	assert.Equal(t, "Delbotics", again.Name)
	assert.False(t, again.Edits.Has(model.FieldName))
}

func TestListSortedNumerically(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	for _, n := range []string{"9971", "755", "12345"} {
		_, err := r.Upsert(ctx, n, model.SourceManual, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"755", "9971", "12345"}, r.Numbers())
}

func TestTargetLifecycle(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceManual, nil)
	require.NoError(t, err)
	_, err = r.Upsert(ctx, "9971", model.SourceManual, nil)
	require.NoError(t, err)

	assert.True(t, resilience.IsNotFound(r.SetTarget(ctx, "404")))

	require.NoError(t, r.SetTarget(ctx, "755"))
	assert.Equal(t, "755", r.Target())
	rec, _ := r.Get("755")
	assert.True(t, rec.Target)

	// retargeting clears the previous flag
	require.NoError(t, r.SetTarget(ctx, "9971"))
	rec, _ = r.Get("755")
	assert.False(t, rec.Target)

	require.NoError(t, r.SetTarget(ctx, ""))
	assert.Equal(t, "", r.Target())
}

func TestDeleteClearsTarget(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceManual, nil)
	require.NoError(t, err)
	require.NoError(t, r.SetTarget(ctx, "755"))

	require.NoError(t, r.Delete(ctx, "755"))
	assert.Equal(t, "", r.Target())
	assert.True(t, resilience.IsNotFound(r.Delete(ctx, "755")))
}

func TestPersistenceRoundTrip(t *testing.T) {
	r, st := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceManual, map[string]any{model.FieldName: "Delbotics"})
	require.NoError(t, err)
	_, err = r.SubmitObservation(ctx, "755", model.Observation{
		Source: model.SourceMatch,
		Fields: map[string]any{model.FieldAvgAuto: 4.0},
	})
	require.NoError(t, err)
	require.NoError(t, r.SetTarget(ctx, "755"))
	require.NoError(t, r.RecordEdit(ctx, "755", model.FieldName, "Delbotics FTC", "official name"))

	// fresh roster over the same store sees everything
	r2 := New(st, model.DefaultRegistry())
	require.NoError(t, r2.Load(ctx))

	rec, err := r2.Get("755")
	require.NoError(t, err)
	assert.Equal(t, "Delbotics FTC", rec.Name)
	assert.Equal(t, 1, rec.MatchCount)
	assert.Equal(t, 4.0, rec.AvgAuto)
	assert.True(t, rec.Edits.Has(model.FieldName))
	assert.Equal(t, "755", r2.Target())
	assert.Len(t, r2.ObservationLog(), 1)
}

func TestResetWipesState(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceManual, nil)
	require.NoError(t, err)
	_, err = r.SubmitObservation(ctx, "755", model.Observation{
		Source: model.SourceMatch,
		Fields: map[string]any{model.FieldAvgAuto: 4.0},
	})
	require.NoError(t, err)
	require.NoError(t, r.SetMine(ctx, model.NewTeamRecord("755")))

	require.NoError(t, r.Reset(ctx))
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.ObservationLog())
	assert.Equal(t, "", r.Target())

	// the reference record survives
	assert.NotNil(t, r.Mine())
}

func TestMineRoundTrip(t *testing.T) {
	r, st := newTestRoster(t)
	ctx := context.Background()

	assert.Nil(t, r.Mine())

	mine := model.NewTeamRecord("755")
	mine.Name = "Delbotics"
	mine.AvgAuto = 3.5
	require.NoError(t, r.SetMine(ctx, mine))

	r2 := New(st, model.DefaultRegistry())
	require.NoError(t, r2.Load(ctx))
	got := r2.Mine()
	require.NotNil(t, got)
	assert.Equal(t, "Delbotics", got.Name)
}

func TestSetFetchState(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "755", model.SourceManual, nil)
	require.NoError(t, err)

	require.NoError(t, r.SetFetchState(ctx, "755", "stats", model.FetchLoading))
	rec, _ := r.Get("755")
	assert.Equal(t, model.FetchLoading, rec.Fetch["stats"])

	assert.True(t, resilience.IsNotFound(r.SetFetchState(ctx, "404", "stats", model.FetchOK)))
}

func TestSnapshots(t *testing.T) {
	r, _ := newTestRoster(t)
	ctx := context.Background()

	snaps, err := r.Snapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	require.NoError(t, r.AddSnapshot(ctx, model.AnalysisSnapshot{ID: "a", Teams: 2}))
	require.NoError(t, r.AddSnapshot(ctx, model.AnalysisSnapshot{ID: "b", Teams: 3}))

	snaps, err = r.Snapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "a", snaps[0].ID)
}
