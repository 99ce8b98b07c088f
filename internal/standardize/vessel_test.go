package standardize

import (
	"testing"

	"tcpagent/internal"
)

func TestVesselName(t *testing.T) {
	s := NewDefault()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare name prefixed", input: "northern star", want: "M/V NORTHERN STAR"},
		{name: "mv rewritten", input: "MV NORTHERN STAR", want: "M/V NORTHERN STAR"},
		{name: "dotted mv rewritten", input: "M.V. PACIFIC DAWN", want: "M/V PACIFIC DAWN"},
		{name: "tanker prefix kept", input: "MT PACIFIC DAWN", want: "MT PACIFIC DAWN"},
		{name: "dotted mt rewritten", input: "M.T. PACIFIC DAWN", want: "MT PACIFIC DAWN"},
		{name: "already canonical", input: "M/V AEGEAN EXPRESS", want: "M/V AEGEAN EXPRESS"},
		{name: "bare uppercase", input: "AEGEAN EXPRESS", want: "M/V AEGEAN EXPRESS"},
		{name: "whitespace collapsed", input: "  northern  star  ", want: "M/V NORTHERN STAR"},
		{name: "steamship kept", input: "SS LIBERTY", want: "SS LIBERTY"},
		{name: "company left bare", input: "Nordic Maritime Holdings AS", want: "NORDIC MARITIME HOLDINGS AS"},
		{name: "charterer left bare", input: "Global Shipping Solutions Ltd", want: "GLOBAL SHIPPING SOLUTIONS LTD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := s.VesselName(tc.input)
			if res.Value != tc.want {
				t.Fatalf("got %v want %s", res.Value, tc.want)
			}
		})
	}
}

func TestVesselNameIdempotent(t *testing.T) {
	s := NewDefault()
	inputs := []string{
		"northern star", "MV NORTHERN STAR", "MT PACIFIC DAWN",
		"M.V. AEGEAN EXPRESS", "Nordic Maritime Holdings AS", "SS LIBERTY",
	}
	for _, input := range inputs {
		once := s.VesselName(input)
		twice := s.VesselName(once.Value)
		if once.Value != twice.Value {
			t.Fatalf("%q: f(x)=%v f(f(x))=%v", input, once.Value, twice.Value)
		}
	}
}

func TestVesselNamePolicyOff(t *testing.T) {
	s, err := New(DefaultFieldTable(), Policy{VesselPrefixBare: false})
	if err != nil {
		t.Fatal(err)
	}
	res := s.VesselName("northern star")
	if res.Value != "NORTHERN STAR" {
		t.Fatalf("got %v", res.Value)
	}
}

func TestVesselNameAbsent(t *testing.T) {
	s := NewDefault()
	if res := s.VesselName(nil); res.Outcome != internal.OutcomeAbsent {
		t.Fatalf("outcome=%s", res.Outcome)
	}
	if res := s.VesselName("null"); res.Outcome != internal.OutcomeAbsent {
		t.Fatalf("outcome=%s", res.Outcome)
	}
}
