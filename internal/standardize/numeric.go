package standardize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"tcpagent/internal"
)

var (
	numericDecorRe = regexp.MustCompile(`[,$€£¥\s]`)
	numberTokenRe  = regexp.MustCompile(`-?\d+\.?\d*`)
)

// ExtractNumeric pulls a numeric magnitude out of a decorated value:
// currency symbols and thousands separators are stripped, the first
// decimal token wins, unit words are discarded context. Already-numeric
// input passes through.
func ExtractNumeric(value any) (float64, bool) {
	switch t := value.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
		return 0, false
	}

	str, _ := stringify(value)
	if isNullish(str) {
		return 0, false
	}
	stripped := numericDecorRe.ReplaceAllString(str, "")
	token := numberTokenRe.FindString(stripped)
	if token == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// Currency rounds to a fixed two decimal places.
func Currency(value any) internal.FieldResult {
	v, ok := ExtractNumeric(value)
	if !ok {
		return internal.Absent()
	}
	return internal.Normalized(math.Round(v*100) / 100)
}

// Integer truncates toward zero.
func Integer(value any) internal.FieldResult {
	v, ok := ExtractNumeric(value)
	if !ok {
		return internal.Absent()
	}
	return internal.Normalized(int(v))
}
