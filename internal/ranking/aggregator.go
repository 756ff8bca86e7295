// Package ranking combines content metrics, freshness, importance, and send
// history into one composite score per note with a fully deterministic
// tie-break order.
package ranking

import (
	"sort"
	"time"

	"github.com/mkondo/erabu/internal/analyzer"
	"github.com/mkondo/erabu/internal/config"
	"github.com/mkondo/erabu/internal/models"
	"github.com/mkondo/erabu/pkg/utils"
)

// importanceScale maps each tier onto the fixed ordinal score used by the
// importance component.
var importanceScale = map[analyzer.Importance]float64{
	analyzer.ImportanceCritical: 1.0,
	analyzer.ImportanceHigh:     0.75,
	analyzer.ImportanceMedium:   0.5,
	analyzer.ImportanceLow:      0.25,
}

// ImportanceScale returns the ordinal score for a tier.
func ImportanceScale(tier analyzer.Importance) float64 {
	return importanceScale[tier]
}

// NoteScore is the per-note scoring breakdown. Composite is the weighted sum
// of the four static components; Diversity is fixed at 1.0 before packing
// because group quotas are enforced by the selector, not folded into the
// static ranking.
type NoteScore struct {
	Path       string  `json:"path"`
	Composite  float64 `json:"composite"`
	Content    float64 `json:"content"`
	Freshness  float64 `json:"freshness"`
	Importance float64 `json:"importance"`
	History    float64 `json:"history"`
	Diversity  float64 `json:"diversity"`
}

// AnalyzedNote pairs a record with its content metrics, ready for scoring.
type AnalyzedNote struct {
	Record  *models.NoteRecord
	Metrics *analyzer.ContentMetrics
}

// RankedNote holds a note with its computed score.
type RankedNote struct {
	Record  *models.NoteRecord
	Metrics *analyzer.ContentMetrics
	Score   NoteScore
}

// Aggregator computes composite scores from criteria weights.
type Aggregator struct {
	criteria *config.Criteria
}

// NewAggregator creates an Aggregator after validating the criteria.
func NewAggregator(criteria *config.Criteria) (*Aggregator, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{criteria: criteria}, nil
}

// Score computes the scoring breakdown for one analyzed note at the given
// instant.
func (g *Aggregator) Score(note *models.NoteRecord, m *analyzer.ContentMetrics, now time.Time) NoteScore {
	content := (m.StructureScore + m.ReadabilityScore) / 2
	freshness := m.FreshnessScore
	importance := importanceScale[m.Importance]
	history := g.historyComponent(note, now)

	w := g.criteria.Weights
	composite := (w.Content * content) +
		(w.Freshness * freshness) +
		(w.Importance * importance) +
		(w.History * history)

	return NoteScore{
		Path:       note.Path,
		Composite:  composite,
		Content:    content,
		Freshness:  freshness,
		Importance: importance,
		History:    history,
		Diversity:  1.0,
	}
}

// historyComponent is 1.0 for notes never sent; otherwise it ramps linearly
// from 0 at a just-sent note up to 1.0 once the cooldown window has fully
// elapsed. Never negative.
func (g *Aggregator) historyComponent(note *models.NoteRecord, now time.Time) float64 {
	if note.NeverSent() {
		return 1.0
	}
	cooldown := float64(g.criteria.HistoryCooldownDays)
	return utils.Clamp01(note.DaysSinceSent(now) / cooldown)
}

// ScoreAll scores every analyzed note and returns the list sorted descending
// by (composite, tie-break key). This ordering is the single ranking all
// downstream packing consumes.
func (g *Aggregator) ScoreAll(notes []AnalyzedNote, now time.Time) []*RankedNote {
	ranked := make([]*RankedNote, 0, len(notes))
	for _, n := range notes {
		ranked = append(ranked, &RankedNote{
			Record:  n.Record,
			Metrics: n.Metrics,
			Score:   g.Score(n.Record, n.Metrics, now),
		})
	}
	SortRanked(ranked)
	return ranked
}

// SortRanked orders notes descending by composite score, breaking exact ties
// by importance tier (desc), freshness (desc), then path (asc). The order is
// total: no two notes with distinct paths compare equal.
func SortRanked(ranked []*RankedNote) {
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score.Composite != b.Score.Composite {
			return a.Score.Composite > b.Score.Composite
		}
		if a.Metrics.Importance != b.Metrics.Importance {
			return a.Metrics.Importance > b.Metrics.Importance
		}
		if a.Metrics.FreshnessScore != b.Metrics.FreshnessScore {
			return a.Metrics.FreshnessScore > b.Metrics.FreshnessScore
		}
		return a.Record.Path < b.Record.Path
	})
}
