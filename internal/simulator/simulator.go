// Package simulator fakes an agent: it routes free text to a category by
// keyword and answers with that category's canned response after a simulated
// processing delay.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

// Rand is the subset of *rand.Rand the templates use.
type Rand interface {
	IntN(n int) int
}

type Config struct {
	// Delays is the simulated processing cost per category. Missing entries
	// mean no delay.
	Delays map[Category]time.Duration
	// ThinkingDelay is added before every response regardless of category.
	ThinkingDelay time.Duration
	Keywords      KeywordSet
	Rand          Rand
	Now           func() time.Time
	Logger        *zap.Logger
}

func DefaultDelays() map[Category]time.Duration {
	return map[Category]time.Duration{
		CategoryCodeExecution: 1500 * time.Millisecond,
		CategoryFileOperation: 1200 * time.Millisecond,
		CategoryWebSearch:     2000 * time.Millisecond,
		CategoryPlanning:      1800 * time.Millisecond,
		CategoryDataAnalysis:  2200 * time.Millisecond,
		CategoryGeneral:       1000 * time.Millisecond,
	}
}

func DefaultConfig() Config {
	return Config{
		Delays:   DefaultDelays(),
		Keywords: DefaultKeywords,
	}
}

type Response struct {
	ID        string
	Category  Category
	Text      string
	Delay     time.Duration
	CreatedAt time.Time
}

type Simulator struct {
	delays        map[Category]time.Duration
	thinkingDelay time.Duration
	keywords      KeywordSet
	templates     map[Category]Template
	rand          Rand
	now           func() time.Time
	logger        *zap.Logger
}

func New(cfg Config) *Simulator {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	delays := make(map[Category]time.Duration, len(cfg.Delays))
	for cat, d := range cfg.Delays {
		if d > 0 {
			delays[cat] = d
		}
	}

	var src Rand = globalRand{}
	if cfg.Rand != nil {
		src = &lockedRand{r: cfg.Rand}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Simulator{
		delays:        delays,
		thinkingDelay: cfg.ThinkingDelay,
		keywords:      keywords,
		templates:     defaultTemplates,
		rand:          src,
		now:           now,
		logger:        logger,
	}
}

func (s *Simulator) Classify(input string) Category {
	return s.keywords.Match(input)
}

// Delay reports how long a response in cat takes to arrive.
func (s *Simulator) Delay(cat Category) time.Duration {
	return s.thinkingDelay + s.delays[cat]
}

// Respond classifies input and returns the category's response once the
// simulated delay has elapsed. It is safe to call from many goroutines;
// completion order across calls is unspecified.
func (s *Simulator) Respond(ctx context.Context, input string) (*Response, error) {
	id := uuid.NewString()
	cat := s.Classify(input)
	delay := s.Delay(cat)

	s.logger.Debug("Simulating response",
		zap.String("request_id", id),
		zap.String("category", string(cat)),
		zap.Duration("delay", delay),
		zap.Int("input_len", len(input)),
	)

	if err := wait(ctx, delay); err != nil {
		s.logger.Debug("Response abandoned", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}

	now := s.now()
	tmpl, ok := s.templates[cat]
	if !ok {
		tmpl = s.templates[CategoryGeneral]
	}

	text := tmpl(Request{
		Input:   input,
		Lowered: strings.ToLower(input),
		Now:     now,
		Rand:    s.rand,
	})

	return &Response{
		ID:        id,
		Category:  cat,
		Text:      text,
		Delay:     delay,
		CreatedAt: now,
	}, nil
}

func (s *Simulator) ClassifyAndRespond(ctx context.Context, input string) (string, error) {
	resp, err := s.Respond(ctx, input)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Input checks a value arriving from an untyped boundary (decoded JSON, a
// database row) and returns it as message text. Anything but a string is
// rejected; values are never coerced.
func Input(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrInvalidInput, v)
	}
	return s, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}
