//go:build integration

package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/vizboard/internal/config"
	"github.com/agenthands/vizboard/internal/core/dataset"
	"github.com/agenthands/vizboard/internal/core/insight"
	"github.com/agenthands/vizboard/internal/llm"
)

const measurementsCSV = `x,y,z
1,2,3
2,4,5
3,6,8
4,8,9
`

func TestDescribeDataset(t *testing.T) {
	_ = godotenv.Load("../../.env")

	cfg := config.Default()
	cfg.ApplyEnv(os.Getenv)
	if cfg.LLM.Provider == "" {
		t.Skip("Skipping integration test: LLM_PROVIDER not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := llm.NewClient(ctx, cfg.LLM)
	require.NoError(t, err)

	ds, err := dataset.Parse("measurements.csv", strings.NewReader(measurementsCSV), dataset.DefaultOptions())
	require.NoError(t, err)

	summary, err := insight.NewDescriber(client, cfg.Prompts).Describe(ctx, ds)
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	t.Logf("Summary: %s", summary)
}
