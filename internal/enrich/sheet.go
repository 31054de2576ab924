package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/normalize"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/roster"
	"github.com/cnp-robotics/scout-cli/pkg/sheets"
)

// ColumnTeam is the reserved mapping key for the team number column.
const ColumnTeam = "team"

// ColumnMap maps a field key (or ColumnTeam) to a spreadsheet column. A
// single letter addresses the column by position, anything else matches the
// header row exactly, case-insensitively.
type ColumnMap map[string]string

// SheetImport pulls scouting form responses out of a spreadsheet and feeds
// each row to the roster as one observation.
type SheetImport struct {
	client        sheets.Client
	roster        *roster.Roster
	spreadsheetID string
	readRange     string
	columns       ColumnMap
}

// NewSheetImport builds a SheetImport.
func NewSheetImport(client sheets.Client, r *roster.Roster, spreadsheetID, readRange string, columns ColumnMap) *SheetImport {
	return &SheetImport{
		client:        client,
		roster:        r,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		columns:       columns,
	}
}

// ImportReport summarizes one import pass.
type ImportReport struct {
	// Rows is the total data rows seen, Imported how many merged, Skipped
	// how many had no usable team number.
	Rows     int
	Imported int
	Skipped  int
}

// Import fetches the sheet and merges every data row past fromRow. Passing
// the previous pass's Rows as fromRow makes repeated imports incremental.
// The team column mapping is validated before any fetch.
func (si *SheetImport) Import(ctx context.Context, fromRow int) (ImportReport, error) {
	if _, ok := si.columns[ColumnTeam]; !ok {
		return ImportReport{}, resilience.NewValidationError("column mapping", "no team number column configured")
	}

	rows, err := si.client.Values(ctx, si.spreadsheetID, si.readRange)
	if err != nil {
		return ImportReport{}, err
	}
	if len(rows) == 0 {
		return ImportReport{}, nil
	}
	return si.ImportRows(ctx, rows[0], rows[1:], fromRow)
}

// ImportRows merges pre-fetched rows. header resolves the column mapping;
// rows before fromRow are assumed already merged and skipped.
func (si *SheetImport) ImportRows(ctx context.Context, header []string, rows [][]string, fromRow int) (ImportReport, error) {
	indexes, err := resolveColumns(si.columns, header)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{Rows: len(rows)}
	if fromRow > len(rows) {
		fromRow = len(rows)
	}
	for _, row := range rows[fromRow:] {
		number := normalize.TeamNumber(cell(row, indexes[ColumnTeam]))
		if number == "" {
			report.Skipped++
			continue
		}

		fields := map[string]any{}
		for key, idx := range indexes {
			if key == ColumnTeam {
				continue
			}
			v := cell(row, idx)
			if key == model.FieldBestPark {
				fields[key] = normalize.Park(v)
				continue
			}
			fields[key] = v
		}

		if _, err := si.roster.SubmitObservation(ctx, number, model.Observation{
			Source: model.SourceForm,
			Fields: fields,
		}); err != nil {
			return report, err
		}
		report.Imported++
	}

	zap.L().Info("sheet import pass",
		zap.Int("rows", report.Rows),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// resolveColumns turns the configured mapping into row indexes. A single
// letter is a direct column position; anything else must match a header cell
// exactly, ignoring case. Unresolvable field columns are dropped with a
// warning; an unresolvable team column fails the import.
func resolveColumns(columns ColumnMap, header []string) (map[string]int, error) {
	out := make(map[string]int, len(columns))
	for key, spec := range columns {
		idx := columnIndex(spec, header)
		if idx < 0 {
			if key == ColumnTeam {
				return nil, resilience.NewValidationError("column mapping", "team column "+spec+" not found")
			}
			zap.L().Warn("column not found, field skipped",
				zap.String("field", key),
				zap.String("column", spec),
			)
			continue
		}
		out[key] = idx
	}
	return out, nil
}

func columnIndex(spec string, header []string) int {
	spec = strings.TrimSpace(spec)
	if len(spec) == 1 {
		c := spec[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return int(c - 'A')
		case c >= 'a' && c <= 'z':
			return int(c - 'a')
		}
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), spec) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
