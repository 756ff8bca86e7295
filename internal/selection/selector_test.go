package selection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mkondo/erabu/internal/analyzer"
	"github.com/mkondo/erabu/internal/apperr"
	"github.com/mkondo/erabu/internal/config"
	"github.com/mkondo/erabu/internal/models"
	"github.com/mkondo/erabu/internal/ranking"
)

// candidate builds a ranked note. Composite scores are assigned by position
// via rankedList, so callers pass lists already in descending rank order.
func candidate(path, hash, group string, words int) *ranking.RankedNote {
	return &ranking.RankedNote{
		Record:  &models.NoteRecord{Path: path, Group: group, WordCount: words},
		Metrics: &analyzer.ContentMetrics{ContentHash: hash},
		Score:   ranking.NoteScore{Path: path, Diversity: 1.0},
	}
}

// rankedList assigns descending composites so input order is rank order.
func rankedList(notes ...*ranking.RankedNote) []*ranking.RankedNote {
	for i, n := range notes {
		n.Score.Composite = 1.0 - float64(i)*0.01
	}
	return notes
}

func testCriteria(mutate func(*config.Criteria)) *config.Criteria {
	c := config.DefaultCriteria()
	c.MinWordCount = 1
	c.CharBudget = 100000
	c.MaxPerGroupRatio = 1.0
	if mutate != nil {
		mutate(&c)
	}
	return &c
}

func mustSelector(t *testing.T, criteria *config.Criteria) *Selector {
	t.Helper()
	s, err := NewSelector(criteria)
	if err != nil {
		t.Fatalf("NewSelector error: %v", err)
	}
	return s
}

func TestNewSelector_InvalidCriteria(t *testing.T) {
	c := config.DefaultCriteria()
	c.CharBudget = 0
	if _, err := NewSelector(&c); !errors.Is(err, apperr.ErrInvalidCriteria) {
		t.Errorf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestSelect_EmptyPool(t *testing.T) {
	s := mustSelector(t, testCriteria(nil))

	result := s.Select(nil)
	if len(result.Picks) != 0 {
		t.Errorf("picks = %d, want 0", len(result.Picks))
	}
	if result.RunningChars != 0 || result.SkippedCount != 0 {
		t.Errorf("empty pool result not empty: %+v", result)
	}
}

func TestSelect_CountBound(t *testing.T) {
	s := mustSelector(t, testCriteria(func(c *config.Criteria) { c.MaxNotes = 3 }))

	var notes []*ranking.RankedNote
	for i := 0; i < 10; i++ {
		notes = append(notes, candidate(fmt.Sprintf("n%d.md", i), fmt.Sprintf("h%d", i), "g", 50))
	}

	result := s.Select(rankedList(notes...))
	if len(result.Picks) != 3 {
		t.Errorf("picks = %d, want exactly max_notes when enough candidates exist", len(result.Picks))
	}
	// Selection order is rank order.
	for i, want := range []string{"n0.md", "n1.md", "n2.md"} {
		if result.Picks[i].Path != want {
			t.Errorf("pick %d = %s, want %s", i, result.Picks[i].Path, want)
		}
	}
}

func TestSelect_DuplicateSuppression(t *testing.T) {
	// Five notes, three unique hashes (two duplicate pairs): exactly three
	// selected, no two sharing a hash.
	s := mustSelector(t, testCriteria(func(c *config.Criteria) { c.MaxNotes = 3 }))

	result := s.Select(rankedList(
		candidate("a1.md", "h1", "g", 50),
		candidate("a2.md", "h1", "g", 50),
		candidate("b1.md", "h2", "g", 50),
		candidate("b2.md", "h2", "g", 50),
		candidate("c.md", "h3", "g", 50),
	))

	if len(result.Picks) != 3 {
		t.Fatalf("picks = %d, want 3", len(result.Picks))
	}
	seen := map[string]bool{}
	for _, p := range result.Picks {
		switch p.Path {
		case "a1.md":
			seen["h1"] = true
		case "b1.md":
			seen["h2"] = true
		case "c.md":
			seen["h3"] = true
		default:
			t.Errorf("unexpected pick %s (duplicate admitted?)", p.Path)
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected three distinct hashes, got %v", seen)
	}
	if result.Skips.Duplicate != 2 {
		t.Errorf("duplicate skips = %d, want 2", result.Skips.Duplicate)
	}
}

func TestSelect_DuplicatesAllowedWhenDisabled(t *testing.T) {
	avoid := false
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 2
		c.AvoidDuplicates = &avoid
	}))

	result := s.Select(rankedList(
		candidate("a1.md", "h1", "g", 50),
		candidate("a2.md", "h1", "g", 50),
	))
	if len(result.Picks) != 2 {
		t.Errorf("picks = %d, want 2 with duplicate suppression off", len(result.Picks))
	}
}

func TestSelect_MinWordCount(t *testing.T) {
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 5
		c.MinWordCount = 10
	}))

	result := s.Select(rankedList(
		candidate("short.md", "h1", "g", 3),
		candidate("long.md", "h2", "g", 50),
	))

	if len(result.Picks) != 1 || result.Picks[0].Path != "long.md" {
		t.Errorf("picks = %+v, want only long.md", result.Picks)
	}
	if result.Skips.UnderLength != 1 {
		t.Errorf("under-length skips = %d, want 1", result.Skips.UnderLength)
	}
}

func TestSelect_GroupQuotaStrictPass(t *testing.T) {
	// Three groups of five high scorers each, ratio 0.34, max 3: at most
	// one per group on the strict pass.
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 3
		c.MaxPerGroupRatio = 0.34
	}))

	var notes []*ranking.RankedNote
	for g := 0; g < 3; g++ {
		for i := 0; i < 5; i++ {
			path := fmt.Sprintf("g%d-n%d.md", g, i)
			notes = append(notes, candidate(path, path, fmt.Sprintf("group%d", g), 50))
		}
	}

	result := s.Select(rankedList(notes...))
	if len(result.Picks) != 3 {
		t.Fatalf("picks = %d, want 3", len(result.Picks))
	}
	groupCounts := map[string]int{}
	for _, p := range result.Picks {
		groupCounts[p.Path[:2]]++
	}
	for g, n := range groupCounts {
		if n > 1 {
			t.Errorf("group %s has %d picks, want at most 1 on the strict pass", g, n)
		}
	}
}

func TestSelect_GroupQuotaRelaxedPass(t *testing.T) {
	// A single group cannot fill max_notes under the quota; the relaxed
	// pass tops the result up from the quota rejects, in rank order.
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 3
		c.MaxPerGroupRatio = 0.34
	}))

	result := s.Select(rankedList(
		candidate("n0.md", "h0", "only", 50),
		candidate("n1.md", "h1", "only", 50),
		candidate("n2.md", "h2", "only", 50),
		candidate("n3.md", "h3", "only", 50),
	))

	if len(result.Picks) != 3 {
		t.Fatalf("picks = %d, want 3 after relaxed pass", len(result.Picks))
	}
	// n0 is taken strictly; n1 and n2 are quota-rejected while enough
	// candidates remain; n3 is admitted by the inline fallback (only one
	// candidate left for two open slots); the relaxed pass then recovers
	// n1, the highest-ranked quota reject.
	for i, want := range []string{"n0.md", "n3.md", "n1.md"} {
		if result.Picks[i].Path != want {
			t.Errorf("pick %d = %s, want %s", i, result.Picks[i].Path, want)
		}
	}
	if result.Skips.Quota != 1 {
		t.Errorf("quota skips = %d, want 1 (n2.md left over)", result.Skips.Quota)
	}
}

func TestSelect_RelaxedPassRetainsBudgetAndDuplicateChecks(t *testing.T) {
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 4
		c.MaxPerGroupRatio = 0.25 // cap 1 per group
		c.CharBudget = 700       // fits two 50-word notes (300 chars each), not three
	}))

	result := s.Select(rankedList(
		candidate("n0.md", "h0", "only", 50),
		candidate("dup.md", "h0", "only", 50), // duplicate of n0
		candidate("n2.md", "h2", "only", 50),
		candidate("n3.md", "h3", "only", 50),
	))

	paths := result.Paths()
	if len(paths) != 2 || paths[0] != "n0.md" || paths[1] != "n2.md" {
		t.Errorf("picks = %v, want [n0.md n2.md]", paths)
	}
	if result.RunningChars > 700 {
		t.Errorf("running chars %d exceeds budget", result.RunningChars)
	}
	if result.Skips.Duplicate != 1 {
		t.Errorf("duplicate skips = %d, want 1", result.Skips.Duplicate)
	}
	if result.Skips.Budget != 1 {
		t.Errorf("budget skips = %d, want 1", result.Skips.Budget)
	}
}

func TestSelect_BudgetRespected(t *testing.T) {
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 5
		c.CharBudget = 1000
	}))

	// 100 words ~ 600 chars each: only one fits; a smaller later note
	// still packs in.
	result := s.Select(rankedList(
		candidate("big1.md", "h1", "g", 100),
		candidate("big2.md", "h2", "g", 100),
		candidate("small.md", "h3", "g", 20), // 120 chars
	))

	if result.RunningChars > 1000 {
		t.Errorf("running chars %d exceeds budget", result.RunningChars)
	}
	paths := result.Paths()
	if len(paths) != 2 || paths[0] != "big1.md" || paths[1] != "small.md" {
		t.Errorf("picks = %v, want [big1.md small.md]", paths)
	}
	if result.Skips.Budget != 1 {
		t.Errorf("budget skips = %d, want 1", result.Skips.Budget)
	}
}

func TestSelect_SingleOversizedNote(t *testing.T) {
	// Even when the top note alone exceeds the budget, it is selected
	// alone rather than returning an empty result.
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 3
		c.CharBudget = 100
	}))

	result := s.Select(rankedList(
		candidate("huge.md", "h1", "g", 500),
		candidate("other.md", "h2", "g", 500),
	))

	if len(result.Picks) != 1 || result.Picks[0].Path != "huge.md" {
		t.Errorf("picks = %+v, want only huge.md", result.Picks)
	}
}

func TestSelect_QuotaFallbackWhenPoolBarelyFills(t *testing.T) {
	// When fewer candidates remain than open slots, strict quota
	// enforcement is relaxed inline so the pass does not starve.
	s := mustSelector(t, testCriteria(func(c *config.Criteria) {
		c.MaxNotes = 3
		c.MaxPerGroupRatio = 0.34
	}))

	result := s.Select(rankedList(
		candidate("a.md", "h1", "only", 50),
		candidate("b.md", "h2", "only", 50),
		candidate("c.md", "h3", "only", 50),
	))

	if len(result.Picks) != 3 {
		t.Errorf("picks = %d, want 3 (inline fallback fills from the tail)", len(result.Picks))
	}
}

func TestGroupCap(t *testing.T) {
	tests := []struct {
		maxNotes int
		ratio    float64
		want     int
	}{
		{3, 0.34, 1},
		{5, 0.6, 3},
		{5, 1.0, 5},
		{4, 0.5, 2},
		{1, 0.1, 1},
		{10, 0.25, 2},
	}
	for _, tt := range tests {
		s := mustSelector(t, testCriteria(func(c *config.Criteria) {
			c.MaxNotes = tt.maxNotes
			c.MaxPerGroupRatio = tt.ratio
		}))
		if got := s.GroupCap(); got != tt.want {
			t.Errorf("GroupCap(max=%d, ratio=%v) = %d, want %d", tt.maxNotes, tt.ratio, got, tt.want)
		}
	}
}

func TestEstimateChars(t *testing.T) {
	if got := EstimateChars(50); got != 300 {
		t.Errorf("EstimateChars(50) = %d, want 300", got)
	}
}

func TestSkipReason_String(t *testing.T) {
	tests := []struct {
		reason SkipReason
		want   string
	}{
		{SkipDuplicate, "duplicate"},
		{SkipUnderLength, "under_length"},
		{SkipQuota, "quota"},
		{SkipBudget, "budget"},
		{SkipReason(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("SkipReason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}
