package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

// fakeSheets serves a mutable grid of rows, header first.
type fakeSheets struct {
	rows [][]string
	err  error
}

func (f *fakeSheets) Values(_ context.Context, _, _ string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func formColumns() ColumnMap {
	return ColumnMap{
		ColumnTeam:            "Team Number",
		model.FieldAvgAuto:    "C",
		model.FieldHasAuto:    "Has Auto",
		model.FieldBestPark:   "Endgame",
		model.FieldScoutNotes: "Notes",
	}
}

func formHeader() []string {
	return []string{"Timestamp", "Team Number", "Auto Artifacts", "Has Auto", "Endgame", "Notes"}
}

func TestSheetImport(t *testing.T) {
	r := newTestRoster(t)
	sh := &fakeSheets{rows: [][]string{
		formHeader(),
		{"1/11 10:01", "755", "4", "Yes", "parked in base", "fast cycles"},
		{"1/11 10:12", "755 -- Delbotics", "6", "no", "climbed fully", ""},
		{"1/11 10:20", "9971", "2", "yes", "", "slow"},
		{"1/11 10:25", "not a team", "", "", "", ""},
	}}

	si := NewSheetImport(sh, r, "sheet-id", "Form Responses 1!A:F", formColumns())
	report, err := si.Import(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 1, report.Skipped)

	rec, err := r.Get("755")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.MatchCount)
	assert.Equal(t, 5.0, rec.AvgAuto)
	assert.True(t, rec.HasAuto)
	assert.Equal(t, "full", rec.BestPark)
	assert.Equal(t, "fast cycles", rec.ScoutNotes)

	rec, err = r.Get("9971")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.MatchCount)
	assert.Equal(t, 2.0, rec.AvgAuto)
	assert.Equal(t, "none", rec.BestPark)
}

func TestSheetImportIncremental(t *testing.T) {
	r := newTestRoster(t)
	sh := &fakeSheets{rows: [][]string{
		formHeader(),
		{"1/11 10:01", "755", "4", "yes", "", ""},
	}}
	si := NewSheetImport(sh, r, "id", "A:F", formColumns())

	report, err := si.Import(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Rows)

	// re-running from the watermark merges nothing new
	report, err = si.Import(context.Background(), report.Rows)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)

	sh.rows = append(sh.rows, []string{"1/11 10:30", "755", "6", "yes", "", ""})
	report, err = si.Import(context.Background(), report.Rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	rec, _ := r.Get("755")
	assert.Equal(t, 2, rec.MatchCount)
	assert.Equal(t, 5.0, rec.AvgAuto)
}

func TestSheetImportRequiresTeamColumn(t *testing.T) {
	r := newTestRoster(t)
	sh := &fakeSheets{}

	si := NewSheetImport(sh, r, "id", "A:F", ColumnMap{model.FieldAvgAuto: "C"})
	_, err := si.Import(context.Background(), 0)
	assert.True(t, resilience.IsValidation(err))

	// header missing the mapped team column also fails
	si = NewSheetImport(sh, r, "id", "A:F", formColumns())
	sh.rows = [][]string{{"Timestamp", "Wrong Header"}}
	_, err = si.Import(context.Background(), 0)
	assert.True(t, resilience.IsValidation(err))
}

func TestSheetImportUnknownFieldColumnSkipped(t *testing.T) {
	r := newTestRoster(t)
	cols := formColumns()
	cols[model.FieldCapacity] = "No Such Header"
	sh := &fakeSheets{rows: [][]string{
		formHeader(),
		{"1/11 10:01", "755", "4", "yes", "", ""},
	}}

	si := NewSheetImport(sh, r, "id", "A:F", cols)
	report, err := si.Import(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
}

func TestColumnIndex(t *testing.T) {
	header := []string{"Timestamp", "Team Number", "Auto Artifacts"}

	tests := []struct {
		spec string
		want int
	}{
		{"A", 0},
		{"c", 2},
		{"Team Number", 1},
		{"team number", 1},
		{"  Auto Artifacts ", 2},
		{"Missing", -1},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, columnIndex(tt.spec, header))
		})
	}
}
