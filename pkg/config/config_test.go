package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/winequality/dataset"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), envconfig.MapLookuper(nil))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 0.8, cfg.SplitRatio)
	assert.Equal(t, "standard", cfg.Scaler)
	assert.True(t, cfg.RunScaled)
	assert.True(t, cfg.RunUnscaled)
	assert.Equal(t, "decision_tree_example.tex", cfg.ReportPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Data)
	assert.Equal(t, []bool{true, false}, cfg.Runs())
	assert.Equal(t, dataset.Embedded().Name(), cfg.Source().Name())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
		"WINEQ_SEED":        "7",
		"WINEQ_SPLIT_RATIO": "0.5",
		"WINEQ_SCALER":      "minmax",
		"WINEQ_RUN_SCALED":  "false",
		"WINEQ_REPORT_PATH": "out.tex",
		"WINEQ_DATA":        "/tmp/wine.csv.gz",
		"SEED":              "99",
	}))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, []bool{false}, cfg.Runs())
	assert.Equal(t, "/tmp/wine.csv.gz", cfg.Source().Name())

	pc := cfg.PipelineConfig(false)
	assert.Equal(t, uint64(7), pc.Seed)
	assert.Equal(t, 0.5, pc.SplitRatio)
	assert.Equal(t, "minmax", pc.Scaler)
	assert.False(t, pc.ApplyScaling)
	assert.Equal(t, "out.tex", pc.ReportPath)
	assert.NoError(t, pc.Validate())
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(context.Background(), envconfig.MapLookuper(map[string]string{
		"WINEQ_SEED": "-1",
	}))
	assert.Error(t, err)
}
