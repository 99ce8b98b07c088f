package pipeline

import "testing"

func TestDetectCharterPartyPositive(t *testing.T) {
	res := DetectCharterParty(
		"Time Charter Party - M/V Northern Star",
		"Owners agree to let and Charterers agree to hire the vessel for a period of about 24 months. Clause 4. Hire rate USD 18,500 per day.",
		[]string{"tcp_contract.pdf"},
		0.45,
	)
	if !res.IsContract {
		t.Fatalf("expected contract, score=%f", res.Score)
	}
	if res.Reason != "rules_positive" {
		t.Fatalf("reason=%s", res.Reason)
	}
}

func TestDetectCharterPartyNegative(t *testing.T) {
	res := DetectCharterParty(
		"Lunch on Friday?",
		"Hi team, shall we grab lunch at noon on Friday?",
		nil,
		0.45,
	)
	if res.IsContract {
		t.Fatalf("expected non-contract, score=%f", res.Score)
	}
	if res.Reason != "rules_negative" {
		t.Fatalf("reason=%s", res.Reason)
	}
}

func TestDetectCharterPartyPDFAloneIsNotEnough(t *testing.T) {
	res := DetectCharterParty("Invoice", "Please find attached.", []string{"invoice.pdf"}, 0.45)
	if res.IsContract {
		t.Fatalf("pdf attachment alone should not pass, score=%f", res.Score)
	}
}
