package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/strrl/agentsim/internal/parser"
	"github.com/strrl/agentsim/internal/simulator"
)

func TestProcess(t *testing.T) {
	defer goleak.VerifyNone(t)

	sim := simulator.New(simulator.Config{
		// Earlier prompts finish last.
		Delays: map[simulator.Category]time.Duration{
			simulator.CategoryCodeExecution: 40 * time.Millisecond,
			simulator.CategoryWebSearch:     20 * time.Millisecond,
		},
	})
	p := New(sim, Config{Concurrency: 3})

	prompts := []parser.Prompt{
		{Line: 1, Value: "write fibonacci code"},
		{Line: 2, Value: int64(7)},
		{Line: 3, Value: "search golang"},
		{Line: 4, Value: ""},
		{Line: 5, Value: nil},
	}

	exchanges, stats, err := p.Process(context.Background(), prompts)
	require.NoError(t, err)

	assert.Equal(t, Stats{TotalPrompts: 5, Accepted: 3, Rejected: 2, Responded: 3, CodeBlocks: 2}, stats)
	require.Len(t, exchanges, 5)

	for i, ex := range exchanges {
		assert.Equal(t, i+1, ex.Line)
	}

	assert.Equal(t, simulator.CategoryCodeExecution, exchanges[0].Response.Category)
	require.Len(t, exchanges[0].CodeBlocks, 2)
	assert.Equal(t, "python", exchanges[0].CodeBlocks[0].Language)
	assert.Equal(t, "text", exchanges[0].CodeBlocks[1].Language)

	assert.Nil(t, exchanges[1].Response)
	assert.True(t, errors.Is(exchanges[1].Err, simulator.ErrInvalidInput))

	assert.Equal(t, simulator.CategoryWebSearch, exchanges[2].Response.Category)
	assert.Equal(t, simulator.CategoryGeneral, exchanges[3].Response.Category)
	assert.True(t, errors.Is(exchanges[4].Err, simulator.ErrInvalidInput))
}

func TestProcess_Empty(t *testing.T) {
	p := New(simulator.New(simulator.Config{}), Config{})

	exchanges, stats, err := p.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
	assert.Equal(t, Stats{}, stats)
}

func TestProcess_Canceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	sim := simulator.New(simulator.Config{
		Delays: map[simulator.Category]time.Duration{simulator.CategoryGeneral: time.Hour},
	})
	p := New(sim, Config{Concurrency: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := p.Process(ctx, []parser.Prompt{{Line: 1, Value: "hi"}, {Line: 2, Value: "yo"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFilter(t *testing.T) {
	f := NewFilter(nil)

	candidates, rejected := f.Filter([]parser.Prompt{
		{Line: 1, Value: "ok"},
		{Line: 2, Value: 3.14},
	})

	assert.Equal(t, []Candidate{{Line: 1, Input: "ok"}}, candidates)
	require.Len(t, rejected, 1)
	assert.Equal(t, 2, rejected[0].Line)
}
