package standardize

import (
	"testing"

	"tcpagent/internal"
)

func TestExtractNumeric(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "currency symbol", input: "$18,500", want: 18500},
		{name: "unit words", input: "24 months", want: 24},
		{name: "plain", input: "24", want: 24},
		{name: "hyphenated", input: "36-month charter", want: 36},
		{name: "metric tons", input: "82,500 metric tons", want: 82500},
		{name: "year", input: "2018", want: 2018},
		{name: "imo", input: "IMO 9876543", want: 9876543},
		{name: "already int", input: 24, want: 24},
		{name: "already float", input: 18500.0, want: 18500},
		{name: "decimal", input: "$11,850.50", want: 11850.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractNumeric(tc.input)
			if !ok {
				t.Fatalf("no numeric token")
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestExtractNumericNoToken(t *testing.T) {
	for _, input := range []any{nil, "null", "to be agreed", ""} {
		if _, ok := ExtractNumeric(input); ok {
			t.Fatalf("expected no token for %v", input)
		}
	}
}

func TestCurrencyRounding(t *testing.T) {
	cases := []struct {
		input any
		want  float64
	}{
		{input: "USD 18,500 per day", want: 18500.00},
		{input: "$18,500", want: 18500.00},
		{input: "22750", want: 22750.00},
		{input: "$11,850.567", want: 11850.57},
		{input: 18500, want: 18500.00},
	}
	for _, tc := range cases {
		res := Currency(tc.input)
		if res.Outcome != internal.OutcomeNormalized {
			t.Fatalf("%v: outcome=%s", tc.input, res.Outcome)
		}
		if res.Value != tc.want {
			t.Fatalf("%v: got %v want %v", tc.input, res.Value, tc.want)
		}
	}
}

func TestCurrencyIdempotent(t *testing.T) {
	first := Currency("USD 18,500 per day")
	second := Currency(first.Value)
	if first.Value != second.Value {
		t.Fatalf("not idempotent: %v vs %v", first.Value, second.Value)
	}
}

func TestIntegerTruncates(t *testing.T) {
	res := Integer("24 consecutive hours")
	if res.Value != 24 {
		t.Fatalf("got %v", res.Value)
	}
	res = Integer("12.9")
	if res.Value != 12 {
		t.Fatalf("got %v", res.Value)
	}
	if res := Integer(nil); res.Outcome != internal.OutcomeAbsent {
		t.Fatalf("outcome=%s", res.Outcome)
	}
}
