package config

// DefaultKeywordTable returns the built-in importance keyword table.
// Categories are checked from critical down; a single match in a category
// assigns its tier.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		Critical: []string{
			"urgent", "critical", "important", "deadline", "asap", "emergency",
			"breaking", "alert", "warning", "error", "bug", "issue", "problem",
		},
		High: []string{
			"meeting", "presentation", "interview", "review", "decision", "action",
			"follow-up", "milestone", "release", "launch", "deploy", "fix",
		},
		Medium: []string{
			"idea", "note", "research", "analysis", "summary", "plan", "draft",
			"concept", "proposal", "suggestion", "feedback", "update",
		},
	}
}

// DefaultCriteria returns selection criteria with the stock weights and limits.
func DefaultCriteria() Criteria {
	avoid := true
	return Criteria{
		Weights: Weights{
			Content:    0.30,
			Freshness:  0.25,
			Importance: 0.20,
			History:    0.15,
			Diversity:  0.10,
		},
		MinWordCount:        10,
		MaxNotes:            5,
		CharBudget:          10000,
		HistoryCooldownDays: 30,
		MaxPerGroupRatio:    0.6,
		AvoidDuplicates:     &avoid,
	}
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Analyzer.FreshnessHalfLifeDays == 0 {
		cfg.Analyzer.FreshnessHalfLifeDays = 14
	}
	if cfg.Analyzer.Keywords.Empty() {
		cfg.Analyzer.Keywords = DefaultKeywordTable()
	}

	def := DefaultCriteria()
	sel := &cfg.Selection
	if sel.Weights == (Weights{}) {
		sel.Weights = def.Weights
	}
	if sel.MinWordCount == 0 {
		sel.MinWordCount = def.MinWordCount
	}
	if sel.MaxNotes == 0 {
		sel.MaxNotes = def.MaxNotes
	}
	if sel.CharBudget == 0 {
		sel.CharBudget = def.CharBudget
	}
	if sel.HistoryCooldownDays == 0 {
		sel.HistoryCooldownDays = def.HistoryCooldownDays
	}
	if sel.MaxPerGroupRatio == 0 {
		sel.MaxPerGroupRatio = def.MaxPerGroupRatio
	}
	if sel.AvoidDuplicates == nil {
		avoid := true
		sel.AvoidDuplicates = &avoid
	}
}
