package pipeline

import (
	"go.uber.org/zap"

	"github.com/strrl/agentsim/internal/parser"
	"github.com/strrl/agentsim/internal/simulator"
)

type Candidate struct {
	Line  int
	Input string
}

type Filter struct {
	logger *zap.Logger
}

func NewFilter(logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{logger: logger}
}

// Filter splits prompts into valid candidates and rejected exchanges. Empty
// strings are valid: they get a general response.
func (f *Filter) Filter(prompts []parser.Prompt) ([]Candidate, []Exchange) {
	var (
		candidates []Candidate
		rejected   []Exchange
	)

	for _, prompt := range prompts {
		input, err := simulator.Input(prompt.Value)
		if err != nil {
			f.logger.Warn("Skipping prompt", zap.Int("line", prompt.Line), zap.Error(err))
			rejected = append(rejected, Exchange{Line: prompt.Line, Err: err})
			continue
		}

		candidates = append(candidates, Candidate{
			Line:  prompt.Line,
			Input: input,
		})
	}

	return candidates, rejected
}
