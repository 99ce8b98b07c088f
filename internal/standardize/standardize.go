package standardize

import (
	"errors"

	"tcpagent/internal"
)

// Policy holds the tunable parts of standardization. The vessel-prefix
// heuristic is deliberately configurable, see VesselName.
type Policy struct {
	VesselPrefixBare bool
}

func DefaultPolicy() Policy {
	return Policy{VesselPrefixBare: true}
}

// Standardizer converts a raw field-value mapping from the extraction
// client into canonical typed values. It holds the immutable field-type
// table and is safe for concurrent use.
type Standardizer struct {
	table  map[string]internal.FieldKind
	policy Policy
}

func New(table map[string]internal.FieldKind, policy Policy) (*Standardizer, error) {
	if len(table) == 0 {
		return nil, errors.New("standardize: empty field-type table")
	}
	return &Standardizer{table: table, policy: policy}, nil
}

func NewDefault() *Standardizer {
	s, _ := New(DefaultFieldTable(), DefaultPolicy())
	return s
}

// Standardize returns a canonical mapping with exactly the same key set
// as the input. It never fails: unparseable values degrade per field.
func (s *Standardizer) Standardize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for field, value := range raw {
		out[field] = s.Field(field, value).Value
	}
	return out
}

// StandardizeDetailed is Standardize with per-field outcomes, for callers
// that need to distinguish "normalized" from "passed through".
func (s *Standardizer) StandardizeDetailed(raw map[string]any) map[string]internal.FieldResult {
	out := make(map[string]internal.FieldResult, len(raw))
	for field, value := range raw {
		out[field] = s.Field(field, value)
	}
	return out
}

// Field dispatches one value to the normalizer declared for the field.
// Keys missing from the table fall back to text cleaning, and so does any
// normalizer panic on an unanticipated input shape: one bad field must
// never abort the rest of the record.
func (s *Standardizer) Field(field string, value any) (res internal.FieldResult) {
	defer func() {
		if r := recover(); r != nil {
			res = CleanText(value)
		}
	}()

	kind, ok := s.table[field]
	if !ok {
		return CleanText(value)
	}

	switch kind {
	case internal.KindDate:
		return Date(value)
	case internal.KindVessel:
		return s.VesselName(value)
	case internal.KindCurrency:
		return Currency(value)
	case internal.KindInteger:
		return Integer(value)
	case internal.KindText:
		return CleanText(value)
	default:
		return CleanText(value)
	}
}
