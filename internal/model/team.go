package model

import "time"

// SourceTag identifies which integration contributed a merge.
type SourceTag string

const (
	SourceScan   SourceTag = "scan"   // AI web scan
	SourceStats  SourceTag = "stats"  // statistics service (FTCScout)
	SourceForm   SourceTag = "form"   // scouting form / spreadsheet rows
	SourceMatch  SourceTag = "match"  // single-match field observation
	SourceManual SourceTag = "manual" // direct user entry / doc paste
	SourceAI     SourceTag = "ai"     // alliance analysis results
)

// FetchState tracks the lifecycle of one external integration point.
type FetchState string

const (
	FetchIdle    FetchState = "idle"
	FetchLoading FetchState = "loading"
	FetchOK      FetchState = "ok"
	FetchError   FetchState = "error"
)

// TeamRecord is the canonical, persisted record for one scouted team.
// Fields are grouped by origin: document-sourced values pasted once from a
// rankings doc, service-sourced indices from FTCScout, observation-aggregated
// stats built from repeated match/form entries, and AI-sourced analysis.
type TeamRecord struct {
	// Identity. Number is digits-only and immutable once created.
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`

	// Document-sourced. Kept as raw strings as pasted.
	StateRank         string `json:"state_rank,omitempty"`
	RegionalQualified string `json:"regional_qualified,omitempty"`
	WLT               string `json:"wlt,omitempty"`
	MatchPoints       string `json:"match_points,omitempty"`
	BasePoints        string `json:"base_points,omitempty"`
	AutoPoints        string `json:"auto_points,omitempty"`
	HighScore         string `json:"high_score,omitempty"`
	Plays             string `json:"plays,omitempty"`
	RPScore           string `json:"rp_score,omitempty"`

	// Service-sourced. Nil means not yet fetched.
	OPR *float64 `json:"opr,omitempty"`
	EPA *float64 `json:"epa,omitempty"`

	// Observation-aggregated. MatchCount drives the running-mean formula and
	// only ever increases (an explicit store reset is the sole exception).
	MatchCount int     `json:"match_count"`
	HasAuto    bool    `json:"has_auto,omitempty"`
	AutoClose  bool    `json:"auto_close,omitempty"`
	AutoFar    bool    `json:"auto_far,omitempty"`
	AutoLeave  bool    `json:"auto_leave,omitempty"`
	AvgAuto    float64 `json:"avg_auto,omitempty"`
	HighAuto   float64 `json:"high_auto,omitempty"`
	AvgTeleop  float64 `json:"avg_teleop,omitempty"`
	HighTeleop float64 `json:"high_teleop,omitempty"`
	AvgPoints  float64 `json:"avg_points,omitempty"`
	HighPoints float64 `json:"high_points,omitempty"`
	Capacity   int     `json:"capacity,omitempty"`
	BestPark   string  `json:"best_park,omitempty"`
	ScoutNotes string  `json:"scout_notes,omitempty"`

	// AI-sourced.
	Tier        Tier     `json:"tier,omitempty"`
	CompatScore int      `json:"compat_score,omitempty"`
	Role        string   `json:"role,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	WhyAlliance string   `json:"why_alliance,omitempty"`
	WithTips    []string `json:"with_tips,omitempty"`
	AgainstTips []string `json:"against_tips,omitempty"`
	Notes       string   `json:"notes,omitempty"`

	// Bookkeeping. Provenance is the last source to contribute a non-trivial
	// value; display metadata only, it never gates merges.
	Provenance SourceTag             `json:"provenance,omitempty"`
	Fetch      map[string]FetchState `json:"fetch,omitempty"`
	Target     bool                  `json:"target,omitempty"`
	Edits      EditLedger            `json:"edits,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// NewTeamRecord creates an empty record for a canonical team number.
func NewTeamRecord(number string) *TeamRecord {
	now := time.Now().UTC()
	return &TeamRecord{
		Number:    number,
		Fetch:     map[string]FetchState{},
		Edits:     EditLedger{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy. Query results are copies so callers cannot
// mutate the store through them.
func (t *TeamRecord) Clone() *TeamRecord {
	out := *t
	if t.OPR != nil {
		v := *t.OPR
		out.OPR = &v
	}
	if t.EPA != nil {
		v := *t.EPA
		out.EPA = &v
	}
	out.WithTips = append([]string(nil), t.WithTips...)
	out.AgainstTips = append([]string(nil), t.AgainstTips...)
	out.Fetch = make(map[string]FetchState, len(t.Fetch))
	for k, v := range t.Fetch {
		out.Fetch[k] = v
	}
	out.Edits = make(EditLedger, len(t.Edits))
	for k, v := range t.Edits {
		out.Edits[k] = v
	}
	return &out
}

// SetFetch records the state of one integration point.
func (t *TeamRecord) SetFetch(integration string, s FetchState) {
	if t.Fetch == nil {
		t.Fetch = map[string]FetchState{}
	}
	t.Fetch[integration] = s
}

// Get returns the current value for a registered field key.
func (t *TeamRecord) Get(key string) any {
	switch key {
	case FieldName:
		return t.Name
	case FieldStateRank:
		return t.StateRank
	case FieldRegionalQualified:
		return t.RegionalQualified
	case FieldWLT:
		return t.WLT
	case FieldMatchPoints:
		return t.MatchPoints
	case FieldBasePoints:
		return t.BasePoints
	case FieldAutoPoints:
		return t.AutoPoints
	case FieldHighScore:
		return t.HighScore
	case FieldPlays:
		return t.Plays
	case FieldRPScore:
		return t.RPScore
	case FieldOPR:
		if t.OPR == nil {
			return nil
		}
		return *t.OPR
	case FieldEPA:
		if t.EPA == nil {
			return nil
		}
		return *t.EPA
	case FieldHasAuto:
		return t.HasAuto
	case FieldAutoClose:
		return t.AutoClose
	case FieldAutoFar:
		return t.AutoFar
	case FieldAutoLeave:
		return t.AutoLeave
	case FieldAvgAuto:
		return t.AvgAuto
	case FieldHighAuto:
		return t.HighAuto
	case FieldAvgTeleop:
		return t.AvgTeleop
	case FieldHighTeleop:
		return t.HighTeleop
	case FieldAvgPoints:
		return t.AvgPoints
	case FieldHighPoints:
		return t.HighPoints
	case FieldCapacity:
		return t.Capacity
	case FieldBestPark:
		return t.BestPark
	case FieldScoutNotes:
		return t.ScoutNotes
	case FieldTier:
		return string(t.Tier)
	case FieldCompatScore:
		return t.CompatScore
	case FieldRole:
		return t.Role
	case FieldSummary:
		return t.Summary
	case FieldWhyAlliance:
		return t.WhyAlliance
	case FieldWithTips:
		return t.WithTips
	case FieldAgainstTips:
		return t.AgainstTips
	case FieldNotes:
		return t.Notes
	}
	return nil
}

// Set writes a coerced value for a registered field key. Values must already
// match the field's declared type; Set is the last step of a merge, after the
// ledger check and aggregation have run.
func (t *TeamRecord) Set(key string, v any) {
	switch key {
	case FieldName:
		t.Name, _ = v.(string)
	case FieldStateRank:
		t.StateRank, _ = v.(string)
	case FieldRegionalQualified:
		t.RegionalQualified, _ = v.(string)
	case FieldWLT:
		t.WLT, _ = v.(string)
	case FieldMatchPoints:
		t.MatchPoints, _ = v.(string)
	case FieldBasePoints:
		t.BasePoints, _ = v.(string)
	case FieldAutoPoints:
		t.AutoPoints, _ = v.(string)
	case FieldHighScore:
		t.HighScore, _ = v.(string)
	case FieldPlays:
		t.Plays, _ = v.(string)
	case FieldRPScore:
		t.RPScore, _ = v.(string)
	case FieldOPR:
		if f, ok := v.(float64); ok {
			t.OPR = &f
		}
	case FieldEPA:
		if f, ok := v.(float64); ok {
			t.EPA = &f
		}
	case FieldHasAuto:
		t.HasAuto, _ = v.(bool)
	case FieldAutoClose:
		t.AutoClose, _ = v.(bool)
	case FieldAutoFar:
		t.AutoFar, _ = v.(bool)
	case FieldAutoLeave:
		t.AutoLeave, _ = v.(bool)
	case FieldAvgAuto:
		t.AvgAuto, _ = v.(float64)
	case FieldHighAuto:
		t.HighAuto, _ = v.(float64)
	case FieldAvgTeleop:
		t.AvgTeleop, _ = v.(float64)
	case FieldHighTeleop:
		t.HighTeleop, _ = v.(float64)
	case FieldAvgPoints:
		t.AvgPoints, _ = v.(float64)
	case FieldHighPoints:
		t.HighPoints, _ = v.(float64)
	case FieldCapacity:
		if n, ok := v.(int); ok {
			t.Capacity = n
		}
	case FieldBestPark:
		t.BestPark, _ = v.(string)
	case FieldScoutNotes:
		t.ScoutNotes, _ = v.(string)
	case FieldTier:
		if s, ok := v.(string); ok {
			t.Tier = Tier(s)
		}
	case FieldCompatScore:
		if n, ok := v.(int); ok {
			t.CompatScore = n
		}
	case FieldRole:
		t.Role, _ = v.(string)
	case FieldSummary:
		t.Summary, _ = v.(string)
	case FieldWhyAlliance:
		t.WhyAlliance, _ = v.(string)
	case FieldWithTips:
		if ss, ok := v.([]string); ok {
			t.WithTips = ss
		}
	case FieldAgainstTips:
		if ss, ok := v.([]string); ok {
			t.AgainstTips = ss
		}
	case FieldNotes:
		t.Notes, _ = v.(string)
	}
}
