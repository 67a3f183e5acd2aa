package aggregator

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/strrl/agentsim/internal/pipeline"
	"github.com/strrl/agentsim/internal/simulator"
)

func exchange(cat simulator.Category, delay time.Duration, at time.Time) pipeline.Exchange {
	return pipeline.Exchange{
		Response: &simulator.Response{Category: cat, Delay: delay, CreatedAt: at},
	}
}

func TestAggregate(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	exchanges := []pipeline.Exchange{
		exchange(simulator.CategoryWebSearch, 2*time.Second, base.Add(3*time.Second)),
		exchange(simulator.CategoryCodeExecution, time.Second, base),
		{Err: simulator.ErrInvalidInput},
		exchange(simulator.CategoryWebSearch, 2*time.Second, base.Add(time.Second)),
		exchange(simulator.CategoryCodeExecution, time.Second, base.Add(5*time.Second)),
	}

	agg := NewAggregator(DefaultConfig())
	got := agg.Aggregate(exchanges)

	want := &Summary{
		CreatedAt: agg.now,
		Prompts:   5,
		Responded: 4,
		Rejected:  1,
		Categories: []CategoryStats{
			{Category: simulator.CategoryCodeExecution, Count: 2, Share: 0.5, TotalDelay: 2 * time.Second},
			{Category: simulator.CategoryWebSearch, Count: 2, Share: 0.5, TotalDelay: 4 * time.Second},
		},
		TotalDelay: 6 * time.Second,
		TimeRange:  TimeRange{Start: base, End: base.Add(5 * time.Second)},
		Dominant:   simulator.CategoryCodeExecution,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_IncludeEmpty(t *testing.T) {
	agg := NewAggregator(Config{IncludeEmpty: true})
	got := agg.Aggregate([]pipeline.Exchange{
		exchange(simulator.CategoryGeneral, 0, time.Time{}),
	})

	if len(got.Categories) != len(simulator.Categories) {
		t.Fatalf("expected %d categories, got %d", len(simulator.Categories), len(got.Categories))
	}
	if got.Dominant != simulator.CategoryGeneral {
		t.Errorf("expected dominant general, got %s", got.Dominant)
	}
	if !got.TimeRange.Start.IsZero() {
		t.Errorf("zero timestamps must not extend the range")
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := NewAggregator(DefaultConfig()).Aggregate(nil)
	if got.Prompts != 0 || got.Dominant != "" || len(got.Categories) != 0 {
		t.Errorf("unexpected summary for no exchanges: %+v", got)
	}
}
