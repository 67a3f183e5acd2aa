package aggregator

import (
	"time"

	"github.com/strrl/agentsim/internal/pipeline"
	"github.com/strrl/agentsim/internal/simulator"
)

type Config struct {
	// IncludeEmpty lists categories that received no prompts.
	IncludeEmpty bool
}

func DefaultConfig() Config {
	return Config{
		IncludeEmpty: false,
	}
}

type CategoryStats struct {
	Category   simulator.Category
	Count      int
	Share      float64
	TotalDelay time.Duration
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

type Summary struct {
	CreatedAt  time.Time
	Prompts    int
	Responded  int
	Rejected   int
	Categories []CategoryStats
	TotalDelay time.Duration
	TimeRange  TimeRange
	// Dominant is the most frequent category; ties go to the higher priority.
	Dominant simulator.Category
}

type Aggregator struct {
	config Config
	now    time.Time
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{
		config: cfg,
		now:    time.Now(),
	}
}

func (a *Aggregator) Aggregate(exchanges []pipeline.Exchange) *Summary {
	summary := &Summary{
		CreatedAt: a.now,
		Prompts:   len(exchanges),
	}

	counts := make(map[simulator.Category]*CategoryStats)
	for _, ex := range exchanges {
		if ex.Response == nil {
			summary.Rejected++
			continue
		}

		resp := ex.Response
		summary.Responded++
		summary.TotalDelay += resp.Delay
		a.extendRange(&summary.TimeRange, resp.CreatedAt)

		stats, ok := counts[resp.Category]
		if !ok {
			stats = &CategoryStats{Category: resp.Category}
			counts[resp.Category] = stats
		}
		stats.Count++
		stats.TotalDelay += resp.Delay
	}

	best := 0
	for _, cat := range simulator.Categories {
		stats, ok := counts[cat]
		if !ok {
			if a.config.IncludeEmpty {
				summary.Categories = append(summary.Categories, CategoryStats{Category: cat})
			}
			continue
		}

		stats.Share = float64(stats.Count) / float64(summary.Responded)
		summary.Categories = append(summary.Categories, *stats)

		if stats.Count > best {
			best = stats.Count
			summary.Dominant = cat
		}
	}

	return summary
}

func (a *Aggregator) extendRange(r *TimeRange, t time.Time) {
	if t.IsZero() {
		return
	}
	if r.Start.IsZero() || t.Before(r.Start) {
		r.Start = t
	}
	if r.End.IsZero() || t.After(r.End) {
		r.End = t
	}
}
