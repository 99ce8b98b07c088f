package standardize

import (
	"testing"

	"tcpagent/internal"
)

func TestDateFormats(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "full month", input: "January 15, 2024", want: "2024-01-15"},
		{name: "day first", input: "15 January 2024", want: "2024-01-15"},
		{name: "abbrev month", input: "Jan 15, 2024", want: "2024-01-15"},
		{name: "abbrev day first", input: "15 Jan 2024", want: "2024-01-15"},
		{name: "iso passthrough", input: "2024-01-15", want: "2024-01-15"},
		{name: "dotted", input: "15.01.2024", want: "2024-01-15"},
		{name: "slash day first", input: "15/01/2024", want: "2024-01-15"},
		{name: "slash month first", input: "01/15/2024", want: "2024-01-15"},
		{name: "slash iso", input: "2024/01/15", want: "2024-01-15"},
		{name: "month only", input: "January 2024", want: "2024-01-01"},
		{name: "month only abbrev", input: "Dec 2025", want: "2025-12-01"},
		{name: "month only december", input: "December 2025", want: "2025-12-01"},
		{name: "bare year", input: "2026", want: "2026-01-01"},
		{name: "decorated", input: "On or about February 1, 2024", want: "2024-02-01"},
		{name: "decorated no day", input: "due in March 2025", want: "2025-03-01"},
		{name: "numeric month year", input: "02/2024", want: "2024-02-01"},
		{name: "year buried", input: "sometime during 2024", want: "2024-01-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Date(tc.input)
			if res.Outcome != internal.OutcomeNormalized {
				t.Fatalf("outcome=%s value=%v", res.Outcome, res.Value)
			}
			if res.Value != tc.want {
				t.Fatalf("got %v want %s", res.Value, tc.want)
			}
		})
	}
}

func TestDateAbsent(t *testing.T) {
	for _, input := range []any{nil, "", "  ", "null", "N/A"} {
		res := Date(input)
		if res.Outcome != internal.OutcomeAbsent || res.Value != nil {
			t.Fatalf("input %v: outcome=%s value=%v", input, res.Outcome, res.Value)
		}
	}
}

func TestDateFallbackKeepsOriginal(t *testing.T) {
	res := Date("upon mutual agreement")
	if res.Outcome != internal.OutcomeFallback {
		t.Fatalf("outcome=%s", res.Outcome)
	}
	if res.Value != "upon mutual agreement" {
		t.Fatalf("value=%v", res.Value)
	}
}

func TestDateIdempotent(t *testing.T) {
	first := Date("15 January 2024")
	second := Date(first.Value)
	if second.Value != first.Value {
		t.Fatalf("not idempotent: %v vs %v", first.Value, second.Value)
	}
}
