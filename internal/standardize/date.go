package standardize

import (
	"regexp"
	"strconv"
	"time"

	"tcpagent/internal"
	"tcpagent/internal/util"
)

// Layouts are tried in order; the first match wins. DD/MM is tried before
// MM/DD, so an ambiguous slash date resolves day-first.
var dateLayouts = []string{
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"January 2006",
	"Jan 2006",
	"2006",
}

var (
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthNameRe    = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`)
	monthNumYearRe = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[/-](\d{4})\b`)
	yearRe         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	dayAfterRe     = regexp.MustCompile(`^[.,]?\s*(\d{1,2})(?:st|nd|rd|th)?\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Date maps a free-text date expression to an ISO YYYY-MM-DD string.
// Unparseable input falls back to the original string so one bad date
// never costs the caller the rest of the record.
func Date(value any) internal.FieldResult {
	str, absent := stringify(value)
	if absent {
		return internal.Absent()
	}
	s := util.CollapseSpaces(str)
	if isNullish(s) {
		return internal.Absent()
	}

	if isoDateRe.MatchString(s) {
		return internal.Normalized(s)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return internal.Normalized(t.Format("2006-01-02"))
		}
	}

	if iso, ok := scanDate(s); ok {
		return internal.Normalized(iso)
	}

	return internal.Fallback(str)
}

// scanDate is the best-effort pass for decorated dates like
// "On or about February 1, 2024": locate a month (name or MM/YYYY) and a
// 4-digit year anywhere in the string, take the day next to the month if
// one is there, else default to the 1st.
func scanDate(s string) (string, bool) {
	year := 0
	if y := yearRe.FindString(s); y != "" {
		year, _ = strconv.Atoi(y)
	}

	if loc := monthNameRe.FindStringIndex(s); loc != nil && year > 0 {
		month := monthsByPrefix[normalizeMonthToken(s[loc[0]:loc[1]])]
		day := 1
		if m := dayAfterRe.FindStringSubmatch(s[loc[1]:]); m != nil {
			if d, err := strconv.Atoi(m[1]); err == nil && d >= 1 && d <= 31 {
				day = d
			}
		}
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if t.Month() != month {
			t = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		}
		return t.Format("2006-01-02"), true
	}

	if m := monthNumYearRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		t := time.Date(y, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return t.Format("2006-01-02"), true
	}

	if year > 0 {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), true
	}

	return "", false
}

func normalizeMonthToken(token string) string {
	lower := make([]byte, 0, 3)
	for i := 0; i < len(token) && len(lower) < 3; i++ {
		c := token[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower = append(lower, c)
	}
	return string(lower)
}
