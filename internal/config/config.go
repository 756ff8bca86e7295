// Package config provides configuration loading and structs for the selection engine.
package config

import (
	"fmt"
	"math"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/mkondo/erabu/internal/apperr"
)

// weightSumTolerance is the allowed deviation of the criteria weight sum from 1.0.
const weightSumTolerance = 1e-6

// Config holds all configuration for the engine.
type Config struct {
	Debug     bool           `yaml:"debug"`
	Analyzer  AnalyzerConfig `yaml:"analyzer"`
	Selection Criteria       `yaml:"selection"`
}

// AnalyzerConfig holds content analysis settings.
type AnalyzerConfig struct {
	// FreshnessHalfLifeDays controls the exponential freshness decay:
	// score = exp(-ageDays / half_life).
	FreshnessHalfLifeDays float64 `yaml:"freshness_half_life_days"`
	// Keywords maps importance categories to their trigger terms. When
	// empty the built-in table is used.
	Keywords KeywordTable `yaml:"keywords"`
}

// KeywordTable maps importance categories to the terms that trigger them.
// The table is deliberately plain data so hosts can tune it without
// touching the classifier.
type KeywordTable struct {
	Critical []string `yaml:"critical"`
	High     []string `yaml:"high"`
	Medium   []string `yaml:"medium"`
}

// Empty reports whether no category has any terms.
func (k KeywordTable) Empty() bool {
	return len(k.Critical) == 0 && len(k.High) == 0 && len(k.Medium) == 0
}

// Weights holds the per-component scoring weights. All five must sum to 1.0
// within tolerance; the diversity weight is reserved for packing-time quotas
// and is never folded into the static composite.
type Weights struct {
	Content    float64 `yaml:"content"`
	Freshness  float64 `yaml:"freshness"`
	Importance float64 `yaml:"importance"`
	History    float64 `yaml:"history"`
	Diversity  float64 `yaml:"diversity"`
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.Content + w.Freshness + w.Importance + w.History + w.Diversity
}

// Criteria configures one selection run. Immutable once validated.
type Criteria struct {
	Weights Weights `yaml:"weights"`
	// MinWordCount rejects notes shorter than this during packing.
	MinWordCount int `yaml:"min_word_count"`
	// MaxNotes caps the result size; must be in [1, 20].
	MaxNotes int `yaml:"max_notes"`
	// CharBudget caps the estimated serialized size of the selection.
	CharBudget int `yaml:"char_budget"`
	// HistoryCooldownDays is the window inside which a previously sent
	// note scores near zero on the history axis.
	HistoryCooldownDays int `yaml:"history_cooldown_days"`
	// MaxPerGroupRatio bounds how much of the selection one group may
	// occupy; (0, 1].
	MaxPerGroupRatio float64 `yaml:"max_per_group_ratio"`
	// AvoidDuplicates suppresses notes whose content fingerprint was
	// already selected. Defaults to true when unset.
	AvoidDuplicates *bool `yaml:"avoid_duplicates"`
}

// AvoidDuplicatesOrDefault returns whether duplicate suppression is active;
// defaults to true when unset.
func (c *Criteria) AvoidDuplicatesOrDefault() bool {
	if c.AvoidDuplicates != nil {
		return *c.AvoidDuplicates
	}
	return true
}

// Validate checks the criteria and returns an error wrapping
// apperr.ErrInvalidCriteria when any constraint is violated.
func (c *Criteria) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.MaxNotes, validation.Required, validation.Min(1), validation.Max(20)),
		validation.Field(&c.CharBudget, validation.Required, validation.Min(1)),
		validation.Field(&c.HistoryCooldownDays, validation.Required, validation.Min(1)),
		validation.Field(&c.MinWordCount, validation.Min(0)),
		validation.Field(&c.MaxPerGroupRatio, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(1.0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidCriteria, err)
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", apperr.ErrInvalidCriteria, sum)
	}
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"content", c.Weights.Content},
		{"freshness", c.Weights.Freshness},
		{"importance", c.Weights.Importance},
		{"history", c.Weights.History},
		{"diversity", c.Weights.Diversity},
	} {
		if w.value < 0 {
			return fmt.Errorf("%w: %s weight is negative", apperr.ErrInvalidCriteria, w.name)
		}
	}
	return nil
}

// Validate checks analyzer settings.
func (a *AnalyzerConfig) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.FreshnessHalfLifeDays, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Analyzer.Validate(); err != nil {
		return err
	}
	return c.Selection.Validate()
}

// Load reads and parses the config file at path and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to path. Used for persisting tuned weights and
// keyword tables.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
