package annot

import "regexp"

// Ordered extraction rules for reference-SNP identifiers. The RS#-marker
// form takes precedence over the bare rs form; both must be anchored at
// the end of the normalization string.
var rsIDRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)RS#:([0-9]+)$`),
	regexp.MustCompile(`rs([0-9]+)$`),
}

// CanonicalVariantID extracts a canonical rsID from the free-text
// normalization string of a mutation mention. It reports false when no
// rule matches, which is the expected common case; malformed input never
// produces an error.
func CanonicalVariantID(normalized string) (string, bool) {
	for _, rule := range rsIDRules {
		if m := rule.FindStringSubmatch(normalized); m != nil {
			return "rs" + m[1], true
		}
	}
	return "", false
}
