// Package aggregate implements the incremental aggregation rules for
// repeated observations. Apply is pure: given the prior aggregate, the count
// of observations already merged, and one new value, it returns the new
// aggregate without touching the record.
package aggregate

import (
	"strings"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/normalize"
)

// Apply merges one observation value into a prior aggregate according to the
// field's kind. priorCount is the number of observations already folded in;
// the caller increments it once per observation, not per field.
func Apply(prior any, priorCount int, next any, kind model.Kind, precision int) any {
	switch kind {
	case model.KindMean:
		return mean(toFloat(prior), priorCount, toFloat(next), precision)
	case model.KindMax:
		if p, ok := prior.(int); ok {
			n := int(toFloat(next))
			if n > p {
				return n
			}
			return p
		}
		p, n := toFloat(prior), toFloat(next)
		if n > p {
			return n
		}
		return p
	case model.KindOr:
		return toBool(prior) || toBool(next)
	case model.KindOrdinal:
		return bestPark(toString(prior), toString(next))
	case model.KindAppend:
		return appendNote(toString(prior), toString(next))
	}
	return next
}

// mean computes the running mean. Feeding the same value N times converges to
// that value for any N.
func mean(prior float64, priorCount int, next float64, precision int) float64 {
	if priorCount <= 0 {
		return normalize.Round(next, precision)
	}
	return normalize.Round((prior*float64(priorCount)+next)/float64(priorCount+1), precision)
}

// bestPark keeps the highest-priority park level ever observed. Unknown
// values rank below all known ones, so they never displace a known level.
func bestPark(prior, next string) string {
	if normalize.ParkRank(next) > normalize.ParkRank(prior) {
		return next
	}
	return prior
}

// appendNote appends to a pipe-delimited log, skipping empty entries. No
// deduplication is attempted.
func appendNote(prior, next string) string {
	next = strings.TrimSpace(next)
	if next == "" {
		return prior
	}
	if prior == "" {
		return next
	}
	return prior + " | " + next
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return normalize.Num(n)
	case nil:
		return 0
	}
	return 0
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return normalize.Bool(b)
	case float64:
		return b != 0
	case int:
		return b != 0
	}
	return false
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
