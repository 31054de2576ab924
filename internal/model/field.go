package model

// Origin classifies where a field's values come from. The merge policy treats
// observation-aggregated fields differently from directly written ones.
type Origin string

const (
	OriginDocument Origin = "document" // pasted rankings doc, typically static
	OriginService  Origin = "service"  // statistics service indices
	OriginObserved Origin = "observed" // built from repeated observations
	OriginAI       Origin = "ai"       // alliance analysis output
)

// Kind selects the aggregation rule applied when a field is merged.
type Kind string

const (
	KindLast    Kind = "last"    // direct write, non-empty preference
	KindMean    Kind = "mean"    // running mean over observation count
	KindMax     Kind = "max"     // running max, never decreases
	KindOr      Kind = "or"      // boolean OR, sticky true
	KindOrdinal Kind = "ordinal" // best-ranked value per priority table
	KindAppend  Kind = "append"  // pipe-delimited append-only log
)

// ValueType is the coerced Go type a field stores.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeFloat   ValueType = "float"
	TypeInt     ValueType = "int"
	TypeBool    ValueType = "bool"
	TypeStrings ValueType = "strings"
)

// Field keys. Every mergeable TeamRecord field has one.
const (
	FieldName              = "name"
	FieldStateRank         = "state_rank"
	FieldRegionalQualified = "regional_qualified"
	FieldWLT               = "wlt"
	FieldMatchPoints       = "match_points"
	FieldBasePoints        = "base_points"
	FieldAutoPoints        = "auto_points"
	FieldHighScore         = "high_score"
	FieldPlays             = "plays"
	FieldRPScore           = "rp_score"
	FieldOPR               = "opr"
	FieldEPA               = "epa"
	FieldHasAuto           = "has_auto"
	FieldAutoClose         = "auto_close"
	FieldAutoFar           = "auto_far"
	FieldAutoLeave         = "auto_leave"
	FieldAvgAuto           = "avg_auto"
	FieldHighAuto          = "high_auto"
	FieldAvgTeleop         = "avg_teleop"
	FieldHighTeleop        = "high_teleop"
	FieldAvgPoints         = "avg_points"
	FieldHighPoints        = "high_points"
	FieldCapacity          = "capacity"
	FieldBestPark          = "best_park"
	FieldScoutNotes        = "scout_notes"
	FieldTier              = "tier"
	FieldCompatScore       = "compat_score"
	FieldRole              = "role"
	FieldSummary           = "summary"
	FieldWhyAlliance       = "why_alliance"
	FieldWithTips          = "with_tips"
	FieldAgainstTips       = "against_tips"
	FieldNotes             = "notes"
)

// FieldSpec describes one mergeable field: its origin group, aggregation
// kind, coerced type, and decimal precision for running means.
type FieldSpec struct {
	Key       string
	Origin    Origin
	Kind      Kind
	Type      ValueType
	Precision int
}

// Registry is an indexed collection of field specs.
type Registry struct {
	Fields []FieldSpec
	byKey  map[string]*FieldSpec
}

// NewRegistry builds a Registry with indexed lookups.
func NewRegistry(fields []FieldSpec) *Registry {
	r := &Registry{
		Fields: fields,
		byKey:  make(map[string]*FieldSpec, len(fields)),
	}
	for i := range r.Fields {
		r.byKey[r.Fields[i].Key] = &r.Fields[i]
	}
	return r
}

// ByKey returns the spec for a field key, or nil for unregistered keys.
func (r *Registry) ByKey(key string) *FieldSpec {
	return r.byKey[key]
}

// DefaultRegistry returns the field registry for the current season's game.
func DefaultRegistry() *Registry {
	return NewRegistry([]FieldSpec{
		{Key: FieldName, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldStateRank, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldRegionalQualified, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldWLT, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldMatchPoints, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldBasePoints, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldAutoPoints, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldHighScore, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldPlays, Origin: OriginDocument, Kind: KindLast, Type: TypeString},
		{Key: FieldRPScore, Origin: OriginDocument, Kind: KindLast, Type: TypeString},

		{Key: FieldOPR, Origin: OriginService, Kind: KindLast, Type: TypeFloat},
		{Key: FieldEPA, Origin: OriginService, Kind: KindLast, Type: TypeFloat},

		{Key: FieldHasAuto, Origin: OriginObserved, Kind: KindOr, Type: TypeBool},
		{Key: FieldAutoClose, Origin: OriginObserved, Kind: KindOr, Type: TypeBool},
		{Key: FieldAutoFar, Origin: OriginObserved, Kind: KindOr, Type: TypeBool},
		{Key: FieldAutoLeave, Origin: OriginObserved, Kind: KindOr, Type: TypeBool},
		{Key: FieldAvgAuto, Origin: OriginObserved, Kind: KindMean, Type: TypeFloat, Precision: 1},
		{Key: FieldHighAuto, Origin: OriginObserved, Kind: KindMax, Type: TypeFloat},
		{Key: FieldAvgTeleop, Origin: OriginObserved, Kind: KindMean, Type: TypeFloat, Precision: 1},
		{Key: FieldHighTeleop, Origin: OriginObserved, Kind: KindMax, Type: TypeFloat},
		{Key: FieldAvgPoints, Origin: OriginObserved, Kind: KindMean, Type: TypeFloat, Precision: 1},
		{Key: FieldHighPoints, Origin: OriginObserved, Kind: KindMax, Type: TypeFloat},
		{Key: FieldCapacity, Origin: OriginObserved, Kind: KindMax, Type: TypeInt},
		{Key: FieldBestPark, Origin: OriginObserved, Kind: KindOrdinal, Type: TypeString},
		{Key: FieldScoutNotes, Origin: OriginObserved, Kind: KindAppend, Type: TypeString},

		{Key: FieldTier, Origin: OriginAI, Kind: KindLast, Type: TypeString},
		{Key: FieldCompatScore, Origin: OriginAI, Kind: KindLast, Type: TypeInt},
		{Key: FieldRole, Origin: OriginAI, Kind: KindLast, Type: TypeString},
		{Key: FieldSummary, Origin: OriginAI, Kind: KindLast, Type: TypeString},
		{Key: FieldWhyAlliance, Origin: OriginAI, Kind: KindLast, Type: TypeString},
		{Key: FieldWithTips, Origin: OriginAI, Kind: KindLast, Type: TypeStrings},
		{Key: FieldAgainstTips, Origin: OriginAI, Kind: KindLast, Type: TypeStrings},
		{Key: FieldNotes, Origin: OriginAI, Kind: KindLast, Type: TypeString},
	})
}
