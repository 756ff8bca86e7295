// Package engine runs the full selection pipeline: analyze -> score -> select.
//
// The engine is the only component that logs or touches collaborators;
// analysis, scoring, and packing stay pure so that a run is fully determined
// by (pool, criteria, now).
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkondo/erabu/internal/analyzer"
	"github.com/mkondo/erabu/internal/config"
	"github.com/mkondo/erabu/internal/models"
	"github.com/mkondo/erabu/internal/ranking"
	"github.com/mkondo/erabu/internal/selection"
)

// Engine orchestrates one selection run over a candidate pool.
type Engine struct {
	analyzer *analyzer.Analyzer
	logger   *zap.Logger
}

// New creates an Engine from the analyzer configuration. A nil logger
// disables logging.
func New(cfg *config.AnalyzerConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		analyzer: analyzer.NewAnalyzer(cfg),
		logger:   logger,
	}
}

// Run executes the pipeline over the pool at the given instant. Criteria
// validation failures abort the run; malformed individual records are
// excluded and logged rather than failing the batch. Duplicate paths in the
// pool violate the scanner contract; the first occurrence wins.
func (e *Engine) Run(ctx context.Context, pool []models.NoteRecord, criteria *config.Criteria, now time.Time) (*selection.SelectionResult, error) {
	aggregator, err := ranking.NewAggregator(criteria)
	if err != nil {
		return nil, err
	}
	selector, err := selection.NewSelector(criteria)
	if err != nil {
		return nil, err
	}

	log := e.logger.With(zap.String("run_id", uuid.NewString()))
	log.Debug("selection run starting",
		zap.Int("pool_size", len(pool)),
		zap.Time("now", now))

	analyzed := make([]ranking.AnalyzedNote, 0, len(pool))
	seenPaths := make(map[string]struct{}, len(pool))
	failures := 0

	for i := range pool {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record := &pool[i]
		if _, dup := seenPaths[record.Path]; dup {
			log.Warn("duplicate path in pool, keeping first occurrence",
				zap.String("path", record.Path))
			continue
		}
		seenPaths[record.Path] = struct{}{}

		metrics, err := e.analyzer.Analyze(record, now)
		if err != nil {
			failures++
			log.Warn("excluding malformed record",
				zap.String("path", record.Path),
				zap.Error(err))
			continue
		}
		analyzed = append(analyzed, ranking.AnalyzedNote{Record: record, Metrics: metrics})
	}

	ranked := aggregator.ScoreAll(analyzed, now)
	result := selector.Select(ranked)

	log.Info("selection run complete",
		zap.Int("pool_size", len(pool)),
		zap.Int("analyzed", len(analyzed)),
		zap.Int("analyze_failures", failures),
		zap.Int("selected", len(result.Picks)),
		zap.Int("running_chars", result.RunningChars),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("skipped_duplicate", result.Skips.Duplicate),
		zap.Int("skipped_under_length", result.Skips.UnderLength),
		zap.Int("skipped_quota", result.Skips.Quota),
		zap.Int("skipped_budget", result.Skips.Budget))

	return result, nil
}

// RunFromSource pulls the candidate pool from a NoteSource and runs the
// pipeline over it.
func (e *Engine) RunFromSource(ctx context.Context, src NoteSource, criteria *config.Criteria, now time.Time) (*selection.SelectionResult, error) {
	pool, err := src.Notes(ctx)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, pool, criteria, now)
}
