package insight

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/agenthands/vizboard/internal/config"
	"github.com/agenthands/vizboard/internal/core/common"
	"github.com/agenthands/vizboard/internal/core/model"
	"github.com/agenthands/vizboard/internal/core/viz"
	"github.com/agenthands/vizboard/internal/llm"
)

var ErrInsightDisabled = errors.New("insight is disabled: no llm provider configured")

type Describer struct {
	LLM     llm.LLMClient
	Prompts config.InsightPrompts
}

func NewDescriber(llmClient llm.LLMClient, prompts config.InsightPrompts) *Describer {
	if prompts.Dataset == "" {
		prompts.Dataset = config.DefaultDatasetPrompt
	}
	return &Describer{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// Describe asks the model for a short narrative of ds. A reply that is not
// the expected JSON is returned as plain text.
func (d *Describer) Describe(ctx context.Context, ds *model.Dataset) (string, error) {
	if d == nil || d.LLM == nil {
		return "", ErrInsightDisabled
	}

	prompt := fmt.Sprintf(d.Prompts.Dataset, ds.Name, columnList(ds), correlationList(ds))

	response, err := d.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate insight: %w", err)
	}

	result, err := common.ParseJSON[model.DatasetInsight](response)
	if err == nil && result.Summary != "" {
		return result.Summary, nil
	}
	return strings.TrimSpace(response), nil
}

func columnList(ds *model.Dataset) string {
	var b strings.Builder
	for _, s := range ds.Summary() {
		fmt.Fprintf(&b, "- %s (%s, %d non-empty", s.Name, s.Kind, s.NonNull)
		if s.Min != nil {
			fmt.Fprintf(&b, ", range %g to %g", *s.Min, *s.Max)
		}
		b.WriteString(")\n")
	}
	return b.String()
}

func correlationList(ds *model.Dataset) string {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return "(fewer than two numeric columns)\n"
	}

	m := viz.CorrelationMatrix(numeric)
	var b strings.Builder
	for i := range numeric {
		for j := i + 1; j < len(numeric); j++ {
			if math.IsNaN(m[i][j]) {
				continue
			}
			fmt.Fprintf(&b, "- %s ~ %s: %.2f\n", numeric[i].Name, numeric[j].Name, m[i][j])
		}
	}
	if b.Len() == 0 {
		return "(no defined correlations)\n"
	}
	return b.String()
}
