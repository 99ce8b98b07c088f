package pipeline

import (
	"regexp"
	"strings"
)

type DetectResult struct {
	IsContract bool
	Score      float64
	Reason     string
}

var detectKeywords = []string{
	"charter party", "time charter", "charterer", "charterers",
	"owners", "hire rate", "redelivery", "laycan", "demurrage",
	"vessel", "imo", "deadweight", "bunkers", "tcp",
}

var clausePatternRe = regexp.MustCompile(`(?i)\bclause\s+\d+|\b\d{1,2}\.\s+[A-Z]`)

// DetectCharterParty scores how likely an email carries a charter party
// contract. Keyword hits in the subject weigh double; a PDF attachment
// is a strong signal on its own.
func DetectCharterParty(subject, text string, attachmentNames []string, threshold float64) DetectResult {
	lowerSubject := strings.ToLower(subject)
	lowerText := strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(lowerSubject, kw) {
			score += 0.2
		}
		if strings.Contains(lowerText, kw) {
			score += 0.1
		}
	}

	clauseHits := len(clausePatternRe.FindAllString(text, 3))
	if clauseHits >= 2 {
		score += 0.3
	} else if clauseHits == 1 {
		score += 0.15
	}

	for _, name := range attachmentNames {
		if strings.HasSuffix(strings.ToLower(name), ".pdf") {
			score += 0.3
			break
		}
	}

	if score > 1 {
		score = 1
	}

	isContract := score >= threshold
	reason := "rules_negative"
	if isContract {
		reason = "rules_positive"
	}

	return DetectResult{IsContract: isContract, Score: score, Reason: reason}
}
