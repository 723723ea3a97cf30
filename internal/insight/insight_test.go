// internal/insight/insight_test.go
package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whitmore/dripline/internal/assemble"
	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/llm"
	"github.com/whitmore/dripline/internal/rolling"
	"github.com/whitmore/dripline/internal/simulate"
)

type fakeLLM struct {
	content    string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	f.lastPrompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Content: f.content, OutputTokens: 42}, nil
}

func sampleSummary() assemble.Summary {
	return assemble.Summary{
		Lifetime:            assemble.Lifetime{Years: 4, Months: 2, StartDate: "2020-01-02", EndDate: "2024-03-01"},
		DCAValue:            15000,
		TrailingValue:       9000,
		LumpValue:           22000,
		DCAPctIncrease:      25,
		TrailingPctIncrease: 12.5,
		LumpPctIncrease:     40,
		TotalInvestment:     12000,
		RollingReturns: rolling.Returns{
			"1 Year":   {simulate.NameDCA: 8.2, simulate.NameTrailing: 9.0, simulate.NameLumpSum: 7.8},
			"All-Time": {simulate.NameDCA: 25, simulate.NameTrailing: 12.5, simulate.NameLumpSum: 40},
		},
	}
}

func TestGenerate(t *testing.T) {
	f := &fakeLLM{content: "  A short narrative.  "}
	g := New(f, nil)

	text, err := g.Generate(context.Background(), "AAPL", sampleSummary())
	require.NoError(t, err)
	assert.Equal(t, "A short narrative.", text)

	// The prompt carries the headline figures and the horizons in a
	// deterministic order.
	assert.Contains(t, f.lastPrompt, "Ticker: AAPL")
	assert.Contains(t, f.lastPrompt, "4 years 2 months")
	assert.Contains(t, f.lastPrompt, "15000.00")
	assert.Less(t, strings.Index(f.lastPrompt, "1 Year"), strings.Index(f.lastPrompt, "All-Time"))
	assert.Contains(t, f.lastPrompt, simulate.NameDCA)
}

func TestGenerate_PromptDeterministic(t *testing.T) {
	f := &fakeLLM{content: "x"}
	g := New(f, nil)

	_, err := g.Generate(context.Background(), "AAPL", sampleSummary())
	require.NoError(t, err)
	first := f.lastPrompt

	for i := 0; i < 5; i++ {
		_, err := g.Generate(context.Background(), "AAPL", sampleSummary())
		require.NoError(t, err)
		assert.Equal(t, first, f.lastPrompt)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	g := New(&fakeLLM{err: errors.New("rate limited")}, nil)
	_, err := g.Generate(context.Background(), "AAPL", sampleSummary())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInsightFailed))
}

func TestGenerate_EmptyCompletion(t *testing.T) {
	g := New(&fakeLLM{content: "   "}, nil)
	_, err := g.Generate(context.Background(), "AAPL", sampleSummary())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInsightFailed))
}
