package model

// Season point values for the current game.
const (
	PtsLeave       = 3
	PtsClassified  = 3
	PtsBasePartial = 5
	PtsBaseFull    = 10
)

// EstimateScore computes a rough per-match contribution from the record's
// aggregated observations. It is a planning number for prompts and listings,
// not an official score.
func (t *TeamRecord) EstimateScore() float64 {
	s := 0.0
	if t.AutoLeave {
		s += PtsLeave
	}
	s += t.AvgAuto * PtsClassified
	s += t.AvgTeleop * PtsClassified
	switch t.BestPark {
	case "partial":
		s += PtsBasePartial
	case "full":
		s += PtsBaseFull
	}
	// one decimal, matches the observation-aggregate precision
	return float64(int(s*10+0.5)) / 10
}
