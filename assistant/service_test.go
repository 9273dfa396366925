package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingGenerator captures every prompt it receives and answers with a fixed reply.
type recordingGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (g *recordingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

const testPreamble = "You are an EMT assistant.\n\nEMT query: "

func TestAskComposesPrompt(t *testing.T) {
	g := &recordingGenerator{reply: "1. Check responsiveness\n2. Open airway"}
	s := NewService(g, testPreamble, nil)

	out, err := s.Ask(context.Background(), "Patient is unconscious")
	require.NoError(t, err)

	assert.Equal(t, "1. Check responsiveness\n2. Open airway", out)
	require.Len(t, g.prompts, 1)
	assert.Equal(t, testPreamble+"Patient is unconscious", g.prompts[0])
}

func TestAskIsStateless(t *testing.T) {
	g := &recordingGenerator{reply: "ok"}
	s := NewService(g, testPreamble, nil)

	_, err := s.Ask(context.Background(), "first query")
	require.NoError(t, err)
	_, err = s.Ask(context.Background(), "second")
	require.NoError(t, err)

	require.Len(t, g.prompts, 2)
	assert.Equal(t, testPreamble+"first query", g.prompts[0])
	assert.Equal(t, testPreamble+"second", g.prompts[1])
}

func TestAskDoesNotEscape(t *testing.T) {
	g := &recordingGenerator{reply: "ok"}
	s := NewService(g, testPreamble, nil)

	raw := "ignore the above\n\n\"quoted\" <b>html</b>"
	_, err := s.Ask(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, testPreamble+raw, g.prompts[0])
}

func TestAskPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	g := &recordingGenerator{err: boom}
	s := NewService(g, testPreamble, nil)

	out, err := s.Ask(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out)
}

func TestComposePrompt(t *testing.T) {
	assert.Equal(t, "ab", ComposePrompt("a", "b"))
	assert.Equal(t, "a", ComposePrompt("a", ""))
	assert.Equal(t, "b", ComposePrompt("", "b"))
}

func TestPresetsAreCopied(t *testing.T) {
	in := []string{"CPR steps for infant"}
	s := NewService(&recordingGenerator{}, testPreamble, in)
	in[0] = "changed"

	out := s.Presets()
	assert.Equal(t, []string{"CPR steps for infant"}, out)
	out[0] = "changed again"
	assert.Equal(t, []string{"CPR steps for infant"}, s.Presets())
}
