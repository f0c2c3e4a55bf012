package dataset

import (
	"regexp"
	"strings"
)

// sectionHeaders are the lines that split a list into boards, compared
// lowercase with any trailing colon removed.
var sectionHeaders = map[string]struct{}{
	"deck":       {},
	"main":       {},
	"maindeck":   {},
	"main deck":  {},
	"mainboard":  {},
	"sideboard":  {},
	"side board": {},
	"companion":  {},
	"commander":  {},
	"maybeboard": {},
}

// IsSectionHeader reports whether a card line marks a section instead of naming a card.
func IsSectionHeader(line string) bool {
	label := strings.ToLower(strings.TrimSpace(line))
	label = strings.TrimSpace(strings.TrimSuffix(label, ":"))
	_, ok := sectionHeaders[label]
	return ok
}

// IsCard reports whether a card line takes part in comparisons, which excludes
// section headers and blank lines.
func IsCard(line string) bool {
	return strings.TrimSpace(line) != "" && !IsSectionHeader(line)
}

var quantityPrefix = regexp.MustCompile(`^(\d+)x?\s+`)

// CardName returns the identity of a card line, which is its name with the
// leading quantity and surrounding whitespace stripped.
func CardName(line string) string {
	line = strings.TrimSpace(line)
	line = quantityPrefix.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
