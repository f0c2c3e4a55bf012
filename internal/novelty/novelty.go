// Package novelty finds the "spicy" cards of a list: the ones that are rare
// among a comparison pool of similar lists.
package novelty

import (
	"fmt"
	"math"
	"strings"

	"metagame-tracker/internal/dataset"
)

type Policy int

const (
	// StrictAbsence marks a card spicy when no comparison list plays it.
	StrictAbsence Policy = iota
	// FrequencyRatio marks a card spicy when it occurs fewer than
	// max(1, floor(FrequencyRatioThreshold * number of lists)) times across
	// the comparison lists.
	FrequencyRatio
)

const DefaultPolicy = StrictAbsence

const FrequencyRatioThreshold = 0.2

func (p Policy) String() string {
	switch p {
	case StrictAbsence:
		return "strict"
	case FrequencyRatio:
		return "frequency"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "strict":
		return StrictAbsence, nil
	case "frequency":
		return FrequencyRatio, nil
	}
	return 0, fmt.Errorf("unknown spicy policy %q, expected strict or frequency", name)
}

type Classified struct {
	Line   string
	Spicy  bool
	Header bool
}

func normalize(line string) string {
	return strings.ToLower(dataset.CardName(line))
}

// occurrences counts the card lines of each normalized name across all pools.
func occurrences(pools [][]string) map[string]int {
	counts := map[string]int{}
	for _, pool := range pools {
		for _, line := range pool {
			if !dataset.IsCard(line) {
				continue
			}
			counts[normalize(line)]++
		}
	}
	return counts
}

// Threshold is the occurrence count under which FrequencyRatio calls a card spicy.
func Threshold(poolCount int) int {
	return max(1, int(math.Floor(FrequencyRatioThreshold*float64(poolCount))))
}

// Classify labels every line of target, in order. With no comparison data
// nothing is spicy.
func Classify(target []string, pools [][]string, policy Policy) []Classified {
	counts := occurrences(pools)
	threshold := Threshold(len(pools))

	out := make([]Classified, 0, len(target))
	for _, line := range target {
		entry := Classified{Line: line, Header: dataset.IsSectionHeader(line)}
		if !dataset.IsCard(line) || len(counts) == 0 {
			out = append(out, entry)
			continue
		}

		count := counts[normalize(line)]
		switch policy {
		case FrequencyRatio:
			entry.Spicy = count < threshold
		default:
			entry.Spicy = count == 0
		}
		out = append(out, entry)
	}
	return out
}

// SpicyLines returns the lines marked spicy, in order.
func SpicyLines(classified []Classified) []string {
	var out []string
	for _, entry := range classified {
		if entry.Spicy {
			out = append(out, entry.Line)
		}
	}
	return out
}
