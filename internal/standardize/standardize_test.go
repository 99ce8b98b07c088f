package standardize

import (
	"math/rand"
	"testing"

	"tcpagent/internal"
)

func TestNewRequiresTable(t *testing.T) {
	if _, err := New(nil, DefaultPolicy()); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := New(map[string]internal.FieldKind{}, DefaultPolicy()); err == nil {
		t.Fatal("expected error for empty table")
	}
}

func TestStandardizeContract(t *testing.T) {
	s := NewDefault()

	raw := map[string]any{
		"contract_number":            "TCP-2024-001",
		"contract_date":              "January 15, 2024",
		"vessel_name":                "northern star",
		"imo_number":                 "9876543",
		"vessel_flag":                "Norwegian",
		"year_built":                 "2018",
		"vessel_type":                "Bulk Carrier",
		"deadweight":                 "82,500 metric tons (about 25% more grain)",
		"gross_tonnage":              "45,678 GT",
		"owner_name":                 "Nordic Maritime Holdings AS",
		"charterer_name":             "Global Shipping Solutions Ltd",
		"charter_period_months":      "24",
		"charter_period_description": "24 months, with option to extend",
		"daily_hire_rate_usd":        "$18,500 per day",
		"delivery_date":              "February 1, 2024",
		"delivery_port":              "Busan, South Korea",
		"off_hire_threshold_hours":   "24 consecutive hours",
		"next_special_survey":        "December 2025",
		"last_special_survey":        nil,
	}

	out := s.Standardize(raw)

	if len(out) != len(raw) {
		t.Fatalf("key set changed: %d vs %d", len(out), len(raw))
	}
	for key := range raw {
		if _, ok := out[key]; !ok {
			t.Fatalf("missing key %s", key)
		}
	}

	checks := map[string]any{
		"contract_date":            "2024-01-15",
		"vessel_name":              "M/V NORTHERN STAR",
		"imo_number":               9876543,
		"year_built":               2018,
		"charter_period_months":    24,
		"daily_hire_rate_usd":      18500.00,
		"next_special_survey":      "2025-12-01",
		"off_hire_threshold_hours": 24,
		"last_special_survey":      nil,
		"owner_name":               "Nordic Maritime Holdings AS",
	}
	for field, want := range checks {
		if got := out[field]; got != want {
			t.Fatalf("%s: got %v want %v", field, got, want)
		}
	}
}

func TestStandardizeAbsencePropagation(t *testing.T) {
	s := NewDefault()
	out := s.Standardize(map[string]any{"contract_date": nil, "vessel_name": "null"})
	if out["contract_date"] != nil {
		t.Fatalf("contract_date=%v", out["contract_date"])
	}
	if out["vessel_name"] != nil {
		t.Fatalf("vessel_name=%v", out["vessel_name"])
	}
}

func TestStandardizeUnknownKeyPassthrough(t *testing.T) {
	s := NewDefault()
	out := s.Standardize(map[string]any{"mystery_field": "  some   value  "})
	if out["mystery_field"] != "some value" {
		t.Fatalf("got %v", out["mystery_field"])
	}
}

// Re-running standardization on its own output must not change it.
func TestStandardizeRoundTrip(t *testing.T) {
	s := NewDefault()
	raw := map[string]any{
		"contract_date":         "15 January 2024",
		"vessel_name":           "mv aegean express",
		"daily_hire_rate_usd":   "USD 22,750 per day",
		"charter_period_months": "36-month charter",
		"trading_limits":        "  worldwide within IWL  ",
	}
	once := s.Standardize(raw)
	twice := s.Standardize(once)
	for field, want := range once {
		if got := twice[field]; got != want {
			t.Fatalf("%s: %v != %v", field, got, want)
		}
	}
}

// Malformed garbage must never crash the pipeline.
func TestStandardizeNeverPanics(t *testing.T) {
	s := NewDefault()
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abzAZ019 .,$/-€£¥\t\nnullM/V")

	fields := make([]string, 0, len(DefaultFieldTable()))
	for field := range DefaultFieldTable() {
		fields = append(fields, field)
	}

	for i := 0; i < 500; i++ {
		raw := map[string]any{}
		for _, field := range fields {
			n := rng.Intn(24)
			runes := make([]rune, n)
			for j := range runes {
				runes[j] = alphabet[rng.Intn(len(alphabet))]
			}
			raw[field] = string(runes)
		}
		out := s.Standardize(raw)
		if len(out) != len(raw) {
			t.Fatalf("iteration %d: key set changed", i)
		}
	}

	// Odd input shapes degrade instead of propagating.
	weird := map[string]any{
		"contract_date":       []string{"not", "a", "date"},
		"vessel_name":         map[string]int{"x": 1},
		"daily_hire_rate_usd": struct{ A int }{A: 1},
		"imo_number":          true,
	}
	out := s.Standardize(weird)
	if len(out) != len(weird) {
		t.Fatal("key set changed for weird input")
	}
}

func TestStandardizeDetailedOutcomes(t *testing.T) {
	s := NewDefault()
	detailed := s.StandardizeDetailed(map[string]any{
		"contract_date":       "January 15, 2024",
		"delivery_date":       "upon mutual agreement",
		"last_special_survey": nil,
	})
	if detailed["contract_date"].Outcome != internal.OutcomeNormalized {
		t.Fatalf("contract_date outcome=%s", detailed["contract_date"].Outcome)
	}
	if detailed["delivery_date"].Outcome != internal.OutcomeFallback {
		t.Fatalf("delivery_date outcome=%s", detailed["delivery_date"].Outcome)
	}
	if detailed["last_special_survey"].Outcome != internal.OutcomeAbsent {
		t.Fatalf("last_special_survey outcome=%s", detailed["last_special_survey"].Outcome)
	}
}
