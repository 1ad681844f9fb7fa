package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withobsrvr/attestor/decimal"
)

func TestDefaultMatchesSpecLiterals(t *testing.T) {
	ctx := decimal.NewContext(28)
	cfg := Default()

	floor, err := cfg.ForwardFloor(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(floor, decimal.MustParse("-0.01")))

	bound, err := cfg.SmoothnessBound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(bound, decimal.MustParse("10")))

	tol, err := cfg.GateTolerance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(tol, decimal.MustParse("0.000001")))

	require.NoError(t, cfg.Validate(ctx))
}

func TestVolGridSpansMinToMaxInclusive(t *testing.T) {
	ctx := decimal.NewContext(28)
	cfg := Default()

	grid, err := cfg.VolGrid(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, grid)
	assert.Equal(t, 0, decimal.Cmp(grid[0], decimal.MustParse("-5")))
	assert.Equal(t, 0, decimal.Cmp(grid[len(grid)-1], decimal.MustParse("5")))
}

func TestSVISigmaGridMatchesSpecSet(t *testing.T) {
	ctx := decimal.NewContext(28)
	cfg := Default()

	grid, err := cfg.SVISigmaGrid(ctx)
	require.NoError(t, err)
	require.Len(t, grid, 7)
	assert.Equal(t, 0, decimal.Cmp(grid[0], decimal.MustParse("0.05")))
	assert.Equal(t, 0, decimal.Cmp(grid[6], decimal.MustParse("0.50")))
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	ctx := decimal.NewContext(28)
	dir := t.TempDir()
	path := filepath.Join(dir, "quickstart.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gate:\n  forward_floor: \"-0.02\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	floor, err := cfg.ForwardFloor(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(floor, decimal.MustParse("-0.02")))

	bound, err := cfg.SmoothnessBound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, decimal.Cmp(bound, decimal.MustParse("10")))
}

func TestValidateRejectsUnknownDayCountConvention(t *testing.T) {
	ctx := decimal.NewContext(28)
	cfg := Default()
	cfg.Calibration.DefaultDayCountConvention = "NOT/A/CONVENTION"
	assert.Error(t, cfg.Validate(ctx))
}

func TestValidateRejectsUnparsableThreshold(t *testing.T) {
	ctx := decimal.NewContext(28)
	cfg := Default()
	cfg.Gate.Tolerance = "not-a-number"
	assert.Error(t, cfg.Validate(ctx))
}
