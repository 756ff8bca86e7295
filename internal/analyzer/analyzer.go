// Package analyzer computes per-note content metrics and fingerprints.
//
// Analysis is a pure function of (note, now) plus the analyzer
// configuration: no wall clock, no I/O, no hidden state. Identical inputs
// always produce identical metrics, which is what makes duplicate detection
// and the downstream ranking deterministic.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/mkondo/erabu/internal/apperr"
	"github.com/mkondo/erabu/internal/config"
	"github.com/mkondo/erabu/internal/models"
	"github.com/mkondo/erabu/pkg/utils"
)

// Structural marker weights used by the structure score. Headers indicate
// organized content, code and TODO markers indicate actionable content,
// links and list items count for less.
const (
	headerWeight   = 5
	codeWeight     = 3
	todoWeight     = 3
	linkWeight     = 2
	listItemWeight = 1
)

var (
	headerPattern   = regexp.MustCompile(`(?m)^#{1,6}\s+.+$`)
	codePattern     = regexp.MustCompile("(?s)```.*?```|`[^`\n]+`")
	linkPattern     = regexp.MustCompile(`\[[^\]]+\]\([^)]*\)|https?://[^\s]+`)
	todoPattern     = regexp.MustCompile(`(?mi)(?:^|\s)(?:TODO|FIXME|XXX|NOTE):`)
	listItemPattern = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
	vowelPattern    = regexp.MustCompile(`[aeiouAEIOU]+`)
)

// ContentMetrics holds the derived analysis for one note. Metrics are
// immutable: a new analysis run produces a wholly new value.
type ContentMetrics struct {
	// ContentHash is the SHA-256 fingerprint of the whitespace-normalized
	// text; notes with identical normalized text share a hash regardless
	// of path or metadata.
	ContentHash string
	// StructureScore in [0,1] measures the density of structural markers.
	StructureScore float64
	// ReadabilityScore in [0,1]; higher is easier to read.
	ReadabilityScore float64
	// Importance is the keyword-derived tier.
	Importance Importance
	// FreshnessScore in [0,1] decays exponentially with age.
	FreshnessScore float64

	// Raw counts, kept for observability and tuning.
	WordCount   int
	LineCount   int
	Headers     int
	CodeBlocks  int
	Links       int
	ListItems   int
	TodoItems   int
	KeywordHits int
}

// Analyzer computes ContentMetrics from note records.
type Analyzer struct {
	halfLifeDays float64
	classifier   *Classifier
}

// NewAnalyzer creates an Analyzer from the given configuration. A nil config
// uses built-in defaults.
func NewAnalyzer(cfg *config.AnalyzerConfig) *Analyzer {
	halfLife := 14.0
	table := config.DefaultKeywordTable()
	if cfg != nil {
		if cfg.FreshnessHalfLifeDays > 0 {
			halfLife = cfg.FreshnessHalfLifeDays
		}
		if !cfg.Keywords.Empty() {
			table = cfg.Keywords
		}
	}
	return &Analyzer{
		halfLifeDays: halfLife,
		classifier:   NewClassifier(table),
	}
}

// Classifier exposes the importance classifier, mainly for tests and hosts
// that want tier information without a full analysis.
func (a *Analyzer) Classifier() *Classifier {
	return a.classifier
}

// Analyze computes metrics for one note at the given instant. It fails with
// apperr.ErrInvalidNote when the record carries empty text or a negative
// word count; any other input is analyzable.
func (a *Analyzer) Analyze(note *models.NoteRecord, now time.Time) (*ContentMetrics, error) {
	if strings.TrimSpace(note.RawText) == "" {
		return nil, fmt.Errorf("%w: %s has empty text", apperr.ErrInvalidNote, note.Path)
	}
	if note.WordCount < 0 {
		return nil, fmt.Errorf("%w: %s has negative word count %d", apperr.ErrInvalidNote, note.Path, note.WordCount)
	}

	text := note.RawText
	normalized := utils.NormalizeWhitespace(text)

	wordCount := len(strings.Fields(text))
	lineCount := len(strings.Split(strings.TrimRight(text, "\n"), "\n"))

	headers := len(headerPattern.FindAllString(text, -1))
	codeBlocks := len(codePattern.FindAllString(text, -1))
	links := len(linkPattern.FindAllString(text, -1))
	listItems := len(listItemPattern.FindAllString(text, -1))
	todoItems := len(todoPattern.FindAllString(text, -1))

	tier, hits := a.classifier.Classify(normalized)

	return &ContentMetrics{
		ContentHash:      Fingerprint(text),
		StructureScore:   structureScore(headers, codeBlocks, links, listItems, todoItems, lineCount),
		ReadabilityScore: readability(text, wordCount),
		Importance:       tier,
		FreshnessScore:   a.freshness(note.AgeDays(now)),
		WordCount:        wordCount,
		LineCount:        lineCount,
		Headers:          headers,
		CodeBlocks:       codeBlocks,
		Links:            links,
		ListItems:        listItems,
		TodoItems:        todoItems,
		KeywordHits:      hits,
	}, nil
}

// Fingerprint returns the SHA-256 hex digest of the whitespace-normalized
// text. This is the duplicate-detection primitive: runs of whitespace
// collapse, case is preserved.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(utils.NormalizeWhitespace(text)))
	return hex.EncodeToString(sum[:])
}

// structureScore is the weighted marker count normalized by line count,
// capped at 1.0. A document whose every line carries structure saturates.
func structureScore(headers, codeBlocks, links, listItems, todoItems, lineCount int) float64 {
	if lineCount < 1 {
		lineCount = 1
	}
	weighted := headers*headerWeight +
		codeBlocks*codeWeight +
		todoItems*todoWeight +
		links*linkWeight +
		listItems*listItemWeight
	return utils.Clamp01(float64(weighted) / float64(lineCount))
}

// readability is a simplified Flesch Reading Ease over average sentence
// length and vowel-group syllable proxy, rescaled from [0,100] to [0,1].
func readability(text string, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}

	sentenceCount := len(sentencePattern.FindAllString(text, -1))
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	syllableCount := len(vowelPattern.FindAllString(text, -1))
	if syllableCount == 0 {
		syllableCount = wordCount
	}

	avgSentenceLen := float64(wordCount) / float64(sentenceCount)
	avgSyllablesPerWord := float64(syllableCount) / float64(wordCount)

	flesch := 206.835 - (1.015 * avgSentenceLen) - (84.6 * avgSyllablesPerWord)
	return utils.Rescale(flesch, 0, 100)
}

// freshness decays exponentially with age: 1.0 at age zero, asymptotically
// approaching but never reaching zero.
func (a *Analyzer) freshness(ageDays float64) float64 {
	return math.Exp(-ageDays / a.halfLifeDays)
}
