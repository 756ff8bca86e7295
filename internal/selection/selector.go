// Package selection packs a ranked note list into a bounded, diverse subset
// under a character budget, a count limit, and per-group quotas.
package selection

import (
	"math"

	"github.com/mkondo/erabu/internal/config"
	"github.com/mkondo/erabu/internal/ranking"
)

// charsPerWord is the serialized-size estimate per word used for budget
// packing.
const charsPerWord = 6

// SkipReason classifies why a candidate was rejected during packing.
type SkipReason int

const (
	// SkipDuplicate means the note's content fingerprint was already selected.
	SkipDuplicate SkipReason = iota
	// SkipUnderLength means the note's word count is below the minimum.
	SkipUnderLength
	// SkipQuota means the note's group already filled its quota.
	SkipQuota
	// SkipBudget means accepting the note would exceed the character budget.
	SkipBudget
)

// String returns a string representation of the skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipDuplicate:
		return "duplicate"
	case SkipUnderLength:
		return "under_length"
	case SkipQuota:
		return "quota"
	case SkipBudget:
		return "budget"
	default:
		return "unknown"
	}
}

// SkipHistogram counts rejected candidates per reason.
type SkipHistogram struct {
	Duplicate   int `json:"duplicate"`
	UnderLength int `json:"under_length"`
	Quota       int `json:"quota"`
	Budget      int `json:"budget"`
}

// Total returns the number of rejected candidates across all reasons.
func (h SkipHistogram) Total() int {
	return h.Duplicate + h.UnderLength + h.Quota + h.Budget
}

// Pick is one selected note with its score and size estimate. Insertion
// order in the result equals selection order, which is rank order.
type Pick struct {
	Path           string            `json:"path"`
	Score          ranking.NoteScore `json:"score"`
	EstimatedChars int               `json:"estimated_chars"`
}

// SelectionResult is the ordered outcome of one packing run. It is fully
// determined by the ranked input and the criteria: no clock, no randomness.
type SelectionResult struct {
	Picks        []Pick        `json:"picks"`
	RunningChars int           `json:"running_chars"`
	SkippedCount int           `json:"skipped_count"`
	Skips        SkipHistogram `json:"skips"`
}

// Paths returns the selected note paths in selection order.
func (r *SelectionResult) Paths() []string {
	paths := make([]string, len(r.Picks))
	for i, p := range r.Picks {
		paths[i] = p.Path
	}
	return paths
}

// EstimateChars returns the estimated serialized length of a note.
func EstimateChars(wordCount int) int {
	return wordCount * charsPerWord
}

// Selector packs ranked notes under the configured constraints.
type Selector struct {
	criteria *config.Criteria
}

// NewSelector creates a Selector after validating the criteria.
func NewSelector(criteria *config.Criteria) (*Selector, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return &Selector{criteria: criteria}, nil
}

// GroupCap returns the maximum picks allowed per group on the strict pass:
// floor(max_notes * max_per_group_ratio), never below 1. The epsilon guards
// against products like 5*0.6 landing just under an integer.
func (s *Selector) GroupCap() int {
	n := int(math.Floor(float64(s.criteria.MaxNotes)*s.criteria.MaxPerGroupRatio + 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

// Select greedily packs the ranked list. The strict pass enforces duplicate
// suppression, the minimum word count, the per-group quota, and the
// character budget; when the strict pass leaves the result under-filled
// because of quota rejections, a second relaxed pass revisits the
// quota-rejected candidates in rank order with the quota disabled but all
// other checks retained.
//
// An empty ranked list is a valid input and yields an empty result.
func (s *Selector) Select(ranked []*ranking.RankedNote) *SelectionResult {
	var (
		picks        []Pick
		seenHashes   = make(map[string]struct{})
		groupCounts  = make(map[string]int)
		runningChars = 0
		reasons      = make(map[string]SkipReason, len(ranked))
		quotaSkipped []*ranking.RankedNote
	)

	avoidDuplicates := s.criteria.AvoidDuplicatesOrDefault()
	maxNotes := s.criteria.MaxNotes
	groupCap := s.GroupCap()

	accept := func(n *ranking.RankedNote) {
		picks = append(picks, Pick{
			Path:           n.Record.Path,
			Score:          n.Score,
			EstimatedChars: EstimateChars(n.Record.WordCount),
		})
		seenHashes[n.Metrics.ContentHash] = struct{}{}
		groupCounts[n.Record.Group]++
		runningChars += EstimateChars(n.Record.WordCount)
		delete(reasons, n.Record.Path)
	}

	// Strict pass.
	for i, n := range ranked {
		if len(picks) == maxNotes {
			break
		}
		if avoidDuplicates {
			if _, dup := seenHashes[n.Metrics.ContentHash]; dup {
				reasons[n.Record.Path] = SkipDuplicate
				continue
			}
		}
		if n.Record.WordCount < s.criteria.MinWordCount {
			reasons[n.Record.Path] = SkipUnderLength
			continue
		}
		if groupCounts[n.Record.Group] >= groupCap {
			// Relax the quota only when strict enforcement cannot fill
			// the result from what remains.
			remaining := len(ranked) - i
			needed := maxNotes - len(picks)
			if remaining >= needed {
				reasons[n.Record.Path] = SkipQuota
				quotaSkipped = append(quotaSkipped, n)
				continue
			}
		}
		if projected := runningChars + EstimateChars(n.Record.WordCount); projected > s.criteria.CharBudget && len(picks) > 0 {
			// Never abort on one oversized note; later, smaller
			// candidates may still fit.
			reasons[n.Record.Path] = SkipBudget
			continue
		}
		accept(n)
	}

	// Relaxed pass over quota rejects, same rank order, quota disabled.
	if len(picks) < maxNotes {
		for _, n := range quotaSkipped {
			if len(picks) == maxNotes {
				break
			}
			if avoidDuplicates {
				if _, dup := seenHashes[n.Metrics.ContentHash]; dup {
					reasons[n.Record.Path] = SkipDuplicate
					continue
				}
			}
			if projected := runningChars + EstimateChars(n.Record.WordCount); projected > s.criteria.CharBudget && len(picks) > 0 {
				reasons[n.Record.Path] = SkipBudget
				continue
			}
			accept(n)
		}
	}

	var hist SkipHistogram
	for _, reason := range reasons {
		switch reason {
		case SkipDuplicate:
			hist.Duplicate++
		case SkipUnderLength:
			hist.UnderLength++
		case SkipQuota:
			hist.Quota++
		case SkipBudget:
			hist.Budget++
		}
	}

	return &SelectionResult{
		Picks:        picks,
		RunningChars: runningChars,
		SkippedCount: hist.Total(),
		Skips:        hist,
	}
}
