package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/strrl/agentsim/internal/parser"
	"github.com/strrl/agentsim/internal/render"
	"github.com/strrl/agentsim/internal/simulator"
)

// Exchange is one prompt and what the simulator made of it. Rejected prompts
// carry Err and no Response.
type Exchange struct {
	Line       int
	Input      string
	Response   *simulator.Response
	CodeBlocks []render.CodeBlock
	Err        error
}

type Pipeline struct {
	filter    *Filter
	responder *Responder
	extractor *Extractor
	logger    *zap.Logger
}

type Config struct {
	Concurrency int
	Logger      *zap.Logger
}

func New(sim *simulator.Simulator, cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		filter:    NewFilter(logger),
		responder: NewResponder(sim, cfg.Concurrency),
		extractor: NewExtractor(),
		logger:    logger,
	}
}

type Stats struct {
	TotalPrompts int
	Accepted     int
	Rejected     int
	Responded    int
	CodeBlocks   int
}

// Process answers every prompt. Responses are produced concurrently but the
// returned exchanges follow prompt order.
func (p *Pipeline) Process(ctx context.Context, prompts []parser.Prompt) ([]Exchange, Stats, error) {
	stats := Stats{
		TotalPrompts: len(prompts),
	}

	candidates, rejected := p.filter.Filter(prompts)
	stats.Accepted = len(candidates)
	stats.Rejected = len(rejected)

	answered, err := p.responder.Respond(ctx, candidates)
	if err != nil {
		return nil, stats, fmt.Errorf("respond failed: %w", err)
	}
	stats.Responded = len(answered)

	stats.CodeBlocks = p.extractor.Extract(answered)

	exchanges := append(answered, rejected...)
	sort.SliceStable(exchanges, func(i, j int) bool {
		return exchanges[i].Line < exchanges[j].Line
	})

	p.logger.Info("Replay processed",
		zap.Int("prompts", stats.TotalPrompts),
		zap.Int("responded", stats.Responded),
		zap.Int("rejected", stats.Rejected),
	)

	return exchanges, stats, nil
}
