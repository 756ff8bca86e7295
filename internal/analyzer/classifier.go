package analyzer

import (
	"strings"

	"github.com/mkondo/erabu/internal/config"
)

// Importance is the ordinal note importance tier.
type Importance int

const (
	// ImportanceLow is the default tier when no keyword category matches.
	ImportanceLow Importance = iota
	// ImportanceMedium indicates reference material (ideas, summaries, plans).
	ImportanceMedium
	// ImportanceHigh indicates decision or action content.
	ImportanceHigh
	// ImportanceCritical indicates urgent or deadline-bearing content.
	ImportanceCritical
)

// String returns a string representation of the importance tier.
func (i Importance) String() string {
	switch i {
	case ImportanceCritical:
		return "critical"
	case ImportanceHigh:
		return "high"
	case ImportanceMedium:
		return "medium"
	case ImportanceLow:
		return "low"
	default:
		return "unknown"
	}
}

// Classifier assigns an importance tier by scanning note text for the
// configured keyword categories. The keyword table is plain configuration
// so hosts can tune it without touching scoring.
type Classifier struct {
	critical []string
	high     []string
	medium   []string
}

// NewClassifier builds a classifier from a keyword table. An empty table
// falls back to the built-in defaults.
func NewClassifier(table config.KeywordTable) *Classifier {
	if table.Empty() {
		table = config.DefaultKeywordTable()
	}
	return &Classifier{
		critical: lowerAll(table.Critical),
		high:     lowerAll(table.High),
		medium:   lowerAll(table.Medium),
	}
}

// Classify returns the importance tier for the given normalized text along
// with the total keyword hit count across all categories. The tier is the
// highest category with at least one match, defaulting to low.
func (c *Classifier) Classify(normalized string) (Importance, int) {
	lower := strings.ToLower(normalized)

	criticalHits := countOccurrences(lower, c.critical)
	highHits := countOccurrences(lower, c.high)
	mediumHits := countOccurrences(lower, c.medium)
	total := criticalHits + highHits + mediumHits

	switch {
	case criticalHits > 0:
		return ImportanceCritical, total
	case highHits > 0:
		return ImportanceHigh, total
	case mediumHits > 0:
		return ImportanceMedium, total
	default:
		return ImportanceLow, total
	}
}

func countOccurrences(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		count += strings.Count(text, term)
	}
	return count
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}
