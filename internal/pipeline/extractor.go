package pipeline

import "github.com/strrl/agentsim/internal/render"

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract attaches the fenced code blocks of each response and returns how
// many were found in total.
func (e *Extractor) Extract(exchanges []Exchange) int {
	total := 0
	for i := range exchanges {
		if exchanges[i].Response == nil {
			continue
		}
		exchanges[i].CodeBlocks = render.ExtractCodeBlocks(exchanges[i].Response.Text)
		total += len(exchanges[i].CodeBlocks)
	}
	return total
}
