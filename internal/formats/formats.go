// Package formats holds the constructed formats that are tracked and the ways
// each external source refers to them.
package formats

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
)

type Format struct {
	// Name is the display name, it also keys the metagame shares of a dataset.
	Name string
	// Code is the event site's format code, it keys event records.
	Code string
	// Slug is the metagame site's path segment.
	Slug string
}

var All = []Format{
	{Name: "Standard", Code: "ST", Slug: "standard"},
	{Name: "Modern", Code: "MO", Slug: "modern"},
	{Name: "Pioneer", Code: "PI", Slug: "pioneer"},
	{Name: "Legacy", Code: "LE", Slug: "legacy"},
	{Name: "Vintage", Code: "VI", Slug: "vintage"},
	{Name: "Pauper", Code: "PAU", Slug: "pauper"},
}

// minSimilarity is the Jaro-Winkler score under which a misspelled
// format name is not considered a match.
const minSimilarity = 0.85

// ByCode returns the format with the given event site code.
func ByCode(code string) (Format, bool) {
	for _, f := range All {
		if strings.EqualFold(f.Code, code) {
			return f, true
		}
	}
	return Format{}, false
}

// Resolve finds a format by display name, code or slug, ignoring case.
// When nothing matches exactly, the most similar display name is used if it is
// close enough.
func Resolve(input string) (Format, error) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return Format{}, fmt.Errorf("empty format name")
	}

	for _, f := range All {
		if needle == strings.ToLower(f.Name) ||
			needle == strings.ToLower(f.Code) ||
			needle == f.Slug {
			return f, nil
		}
	}

	var best Format
	var bestScore float64
	for _, f := range All {
		score := matchr.JaroWinkler(needle, f.Slug, false)
		if score > bestScore {
			bestScore = score
			best = f
		}
	}
	if bestScore >= minSimilarity {
		return best, nil
	}

	return Format{}, fmt.Errorf("unknown format: %s", input)
}

// Lookback is a coarse time window in days.
type Lookback int

const (
	Last3Days Lookback = 3
	LastWeek  Lookback = 7
	LastMonth Lookback = 30
)

var Lookbacks = []Lookback{Last3Days, LastWeek, LastMonth}

// Days returns the window length, unknown values snap up to the next
// supported window.
func (l Lookback) Days() int {
	for _, supported := range Lookbacks {
		if int(l) <= int(supported) {
			return int(supported)
		}
	}
	return int(LastMonth)
}

func (l Lookback) String() string {
	return fmt.Sprintf("%d days", l.Days())
}
