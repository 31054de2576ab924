package model

import "time"

// Tier is the AI's alliance-fit classification for a team.
type Tier string

const (
	TierOptimal Tier = "OPTIMAL"
	TierMid     Tier = "MID"
	TierBad     Tier = "BAD"
)

// AnalysisResult is the AI service's output for one team. Results are matched
// to records by string equality on TeamNumber; unmatched results are reported
// and discarded, never used to create records.
type AnalysisResult struct {
	TeamNumber  string   `json:"teamNumber"`
	Tier        Tier     `json:"tier"`
	CompatScore int      `json:"compatScore"`
	Role        string   `json:"role,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	WhyAlliance string   `json:"whyAlliance,omitempty"`
	WithTips    []string `json:"withTips,omitempty"`
	AgainstTips []string `json:"againstTips,omitempty"`
}

// ScanResult is the AI web scan's output for one team: document-style stats
// recovered from public sources. All values arrive as loosely formatted
// strings and go through normalization before merging.
type ScanResult struct {
	TeamNumber        string `json:"teamNumber"`
	TeamName          string `json:"teamName"`
	StateRank         string `json:"stateRank"`
	RegionalQualified string `json:"rs"`
	MatchPoints       string `json:"matchPoints"`
	BasePoints        string `json:"basePoints"`
	AutoPoints        string `json:"autoPoints"`
	HighScore         string `json:"highScore"`
	WLT               string `json:"wlt"`
	Plays             string `json:"plays"`
	OPR               string `json:"opr"`
	EPA               string `json:"epa"`
}

// AnalysisSnapshot archives one completed analysis run.
type AnalysisSnapshot struct {
	ID        string           `json:"id"`
	Model     string           `json:"model"`
	Teams     int              `json:"teams"`
	Results   []AnalysisResult `json:"results"`
	Unmatched []string         `json:"unmatched,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
