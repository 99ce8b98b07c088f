package standardize

import (
	"fmt"
	"strings"

	"tcpagent/internal"
	"tcpagent/internal/util"
)

// stringify coerces any non-absent value to its printed form.
func stringify(value any) (string, bool) {
	if value == nil {
		return "", true
	}
	if s, ok := value.(string); ok {
		return s, false
	}
	return fmt.Sprint(value), false
}

// isNullish reports sentinel "no value" strings the extraction step emits.
func isNullish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "n/a":
		return true
	}
	return false
}

// CleanText trims and collapses whitespace and maps sentinel empties to
// the absence marker. It accepts any input shape and never fails.
func CleanText(value any) internal.FieldResult {
	str, absent := stringify(value)
	if absent {
		return internal.Absent()
	}
	cleaned := util.CollapseSpaces(str)
	if isNullish(cleaned) {
		return internal.Absent()
	}
	return internal.Normalized(cleaned)
}
