package standardize

import (
	"regexp"
	"strings"

	"tcpagent/internal"
	"tcpagent/internal/util"
)

var (
	vesselPrefixRe = regexp.MustCompile(`^(M/V|MV|M\.V\.|MT|M\.T\.|S\.S\.|SS)(\s|$)`)
	reMVVariant    = regexp.MustCompile(`^(M\.V\.|MV\s)\s*`)
	reMTVariant    = regexp.MustCompile(`^M\.T\.\s*`)
)

// Words that mark a bare string as a company rather than a vessel name.
var companyTokens = map[string]struct{}{
	"LTD": {}, "INC": {}, "CORP": {}, "COMPANY": {}, "HOLDINGS": {},
	"AS": {}, "SA": {}, "LLC": {}, "GMBH": {},
}

// VesselName canonicalizes a vessel name: whitespace collapsed, upper
// case, prefix variants rewritten to M/V (MT kept, tankers are not motor
// vessels), and bare names prefixed with M/V when the policy says so.
// Applying it twice yields the same result as applying it once.
func (s *Standardizer) VesselName(value any) internal.FieldResult {
	str, absent := stringify(value)
	if absent {
		return internal.Absent()
	}
	name := strings.ToUpper(util.CollapseSpaces(str))
	if isNullish(name) {
		return internal.Absent()
	}

	name = reMVVariant.ReplaceAllString(name, "M/V ")
	name = reMTVariant.ReplaceAllString(name, "MT ")

	if !vesselPrefixRe.MatchString(name) && s.policy.VesselPrefixBare && !looksLikeCompany(name) {
		name = "M/V " + name
	}

	return internal.Normalized(util.CollapseSpaces(name))
}

func looksLikeCompany(name string) bool {
	for _, token := range strings.Fields(name) {
		if _, ok := companyTokens[strings.Trim(token, ".,")]; ok {
			return true
		}
	}
	return false
}
