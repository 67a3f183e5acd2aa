package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/strrl/agentsim/internal/simulator"
)

const defaultConcurrency = 4

type Responder struct {
	sim         *simulator.Simulator
	concurrency int
}

func NewResponder(sim *simulator.Simulator, concurrency int) *Responder {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Responder{sim: sim, concurrency: concurrency}
}

func (r *Responder) Respond(ctx context.Context, candidates []Candidate) ([]Exchange, error) {
	results := make([]Exchange, len(candidates))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)

	for i, cand := range candidates {
		eg.Go(func() error {
			resp, err := r.sim.Respond(egCtx, cand.Input)
			if err != nil {
				return err
			}
			results[i] = Exchange{
				Line:     cand.Line,
				Input:    cand.Input,
				Response: resp,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
