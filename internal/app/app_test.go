package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/codeguard/pkg/config"
)

func TestNew_CSVOnly(t *testing.T) {
	cfg := &config.Config{
		Credential:      config.NewCredential(""),
		DeepSeekURL:     "http://127.0.0.1:1/chat/completions",
		DeepSeekModel:   "deepseek-coder",
		RequestTimeout:  time.Second,
		ActivityLogPath: filepath.Join(t.TempDir(), "logs", "business_data.csv"),
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "deepseek-coder", a.Audit.ModelName())
	n, err := a.Activity.Served(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNew_BadDatabaseURL(t *testing.T) {
	cfg := &config.Config{
		ActivityLogPath:     filepath.Join(t.TempDir(), "business_data.csv"),
		ActivityDatabaseURL: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, cfg)
	assert.Error(t, err)
}
