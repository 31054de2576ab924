// Package normalize converts loosely formatted external values into canonical
// typed ones. Every function is pure; parsing failures fall back to zero
// values rather than errors so partially filled rows still merge.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var teamNumberRe = regexp.MustCompile(`^(\d{3,6})`)

// TeamNumber extracts the canonical digits-only team identifier from free
// text like "755 -- Delbotics" or "755". Returns "" when no leading 3-6 digit
// run is found.
func TeamNumber(raw string) string {
	m := teamNumberRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return m[1]
}

// Bool interprets form-style booleans: "yes", "true" and "1" are true,
// everything else is false.
func Bool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// Num parses a numeric cell, tolerating commas and blanks. Blank or
// unparseable input is 0.
func Num(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Int parses an integer cell the same way Num does.
func Int(raw string) int {
	return int(Num(raw))
}

// Park ordinal levels, lowest to highest.
const (
	ParkNone    = "none"
	ParkPartial = "partial"
	ParkFull    = "full"
)

// Park normalizes free-text endgame descriptions to an ordinal park level.
// Rule order matters and is first-match-wins: "full" cues are checked before
// "partial" cues, so text containing both resolves to full.
func Park(raw string) string {
	v := strings.ToLower(raw)
	switch {
	case strings.Contains(v, "full"), strings.Contains(v, "completely"), strings.Contains(v, "all the way"):
		return ParkFull
	case strings.Contains(v, "partial"), strings.Contains(v, "park"), strings.Contains(v, "base"),
		strings.Contains(v, "return"), strings.Contains(v, "low"):
		return ParkPartial
	}
	return ParkNone
}

// ParkRank returns the priority of a park level. Unknown values rank below
// every known one.
func ParkRank(level string) int {
	switch level {
	case ParkFull:
		return 2
	case ParkPartial:
		return 1
	case ParkNone:
		return 0
	}
	return -1
}

// TeamNumbers splits free text on commas, whitespace and newlines and returns
// the unique valid team numbers in input order.
func TeamNumbers(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	}) {
		n := TeamNumber(tok)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Round rounds to the given number of decimal digits.
func Round(v float64, digits int) float64 {
	p := 1.0
	for i := 0; i < digits; i++ {
		p *= 10
	}
	if v >= 0 {
		return float64(int64(v*p+0.5)) / p
	}
	return float64(int64(v*p-0.5)) / p
}
