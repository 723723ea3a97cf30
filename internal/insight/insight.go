// Package insight turns an assembled strategy summary into a short
// plain-language narrative via an LLM. Strictly optional: failures are
// reported to the caller to log, never to abort an analysis.
package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/whitmore/dripline/internal/assemble"
	"github.com/whitmore/dripline/internal/core"
	"github.com/whitmore/dripline/internal/llm"
	"go.uber.org/zap"
)

const systemPrompt = `You are a financial writing assistant. Given the results of a historical comparison between lump-sum investing, dollar-cost averaging and a buy-the-dip strategy, write a short neutral summary (at most 120 words) of how the strategies compared. State figures plainly, note that rolling-horizon numbers are estimates, and do not give investment advice.`

// Generator produces narratives from analysis summaries.
type Generator struct {
	provider llm.Provider
	logger   *zap.Logger
}

// New creates a Generator backed by the given LLM provider.
func New(provider llm.Provider, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: provider, logger: logger}
}

// Generate asks the LLM for a narrative over the summary.
func (g *Generator) Generate(ctx context.Context, ticker string, s assemble.Summary) (string, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:    systemPrompt,
		Prompt:    buildPrompt(ticker, s),
		MaxTokens: 512,
	})
	if err != nil {
		return "", core.WrapError(core.ErrInsightFailed, err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", core.WrapError(core.ErrInsightFailed, fmt.Errorf("empty completion"))
	}

	g.logger.Debug("insight generated",
		zap.String("ticker", ticker),
		zap.String("llm", g.provider.Name()),
		zap.Int("output_tokens", resp.OutputTokens),
	)
	return text, nil
}

func buildPrompt(ticker string, s assemble.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticker: %s\n", ticker)
	fmt.Fprintf(&b, "History: %d years %d months (%s to %s)\n",
		s.Lifetime.Years, s.Lifetime.Months, s.Lifetime.StartDate, s.Lifetime.EndDate)
	fmt.Fprintf(&b, "Total capital committed: %.2f\n\n", s.TotalInvestment)
	fmt.Fprintf(&b, "Final values: DCA %.2f (%+.2f%%), buy-the-dip %.2f (%+.2f%%), lump-sum %.2f (%+.2f%%)\n",
		s.DCAValue, s.DCAPctIncrease,
		s.TrailingValue, s.TrailingPctIncrease,
		s.LumpValue, s.LumpPctIncrease)

	if len(s.RollingReturns) > 0 {
		b.WriteString("\nRolling horizons (estimated percentage returns):\n")
		labels := make([]string, 0, len(s.RollingReturns))
		for label := range s.RollingReturns {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&b, "- %s:", label)
			strategies := s.RollingReturns[label]
			names := make([]string, 0, len(strategies))
			for name := range strategies {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(&b, " %s %+.1f%%;", name, strategies[name])
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
