package assistant

import (
	"context"

	"github.com/sirupsen/logrus"

	"llamaid/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// Generator produces text for a fully composed prompt. *backend.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service answers crew queries. It holds no per-request state and is safe for concurrent use.
type Service struct {
	generator Generator
	preamble  string
	presets   []string
}

// NewService creates a Service that prefixes every query with preamble.
func NewService(generator Generator, preamble string, presets []string) *Service {
	p := make([]string, len(presets))
	copy(p, presets)
	return &Service{
		generator: generator,
		preamble:  preamble,
		presets:   p,
	}
}

// ComposePrompt joins the preamble and the user's text. No escaping or truncation is applied.
func ComposePrompt(preamble, prompt string) string {
	return preamble + prompt
}

// Ask forwards the composed prompt to the generator once and returns its text unmodified.
func (s *Service) Ask(ctx context.Context, prompt string) (string, error) {
	full := ComposePrompt(s.preamble, prompt)
	log.Debugf("Composed prompt of %d bytes (query %d bytes)", len(full), len(prompt))
	return s.generator.Generate(ctx, full)
}

// Presets returns the canned queries. The caller owns the returned slice.
func (s *Service) Presets() []string {
	out := make([]string, len(s.presets))
	copy(out, s.presets)
	return out
}
