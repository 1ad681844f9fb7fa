// Package config loads the literal thresholds and grid resolutions the
// oracle gates and calibration routines run against. Thresholds are kept
// as YAML strings and parsed into *decimal.Decimal through a caller's
// Context, matching the rest of the module's avoidance of binary
// floating point for anything that reaches a gate comparison.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/withobsrvr/attestor/decimal"
)

// GateConfig holds the thresholds AF-YC/AF-VS gate evaluation runs
// against: the forward-rate floor and curvature bound for the yield
// curve, and the tolerance and log-moneyness grid resolution for the
// volatility surface.
type GateConfig struct {
	ForwardFloor    string `yaml:"forward_floor"`
	SmoothnessBound string `yaml:"smoothness_bound"`
	Tolerance       string `yaml:"tolerance"`
	VolGridMin      string `yaml:"vol_grid_min"`
	VolGridMax      string `yaml:"vol_grid_max"`
	VolGridStep     string `yaml:"vol_grid_step"`
}

// CalibrationConfig holds the defaults the calibration routines fall
// back to when an order or quote does not name its own convention.
type CalibrationConfig struct {
	DefaultDayCountConvention string   `yaml:"default_day_count_convention"`
	SVISigmaGrid              []string `yaml:"svi_sigma_grid"`
}

// Config is the top-level document config.LoadConfig reads.
type Config struct {
	Gate        GateConfig        `yaml:"gate"`
	Calibration CalibrationConfig `yaml:"calibration"`
}

// Default returns the literal thresholds named in the calibration and
// arbitrage-gate section: forward floor -0.01, smoothness bound 10,
// tolerance 1e-6, a [-5,5] log-moneyness grid stepped by 0.1, the
// ACT/365 day-count default, and the fixed SVI sigma grid.
func Default() *Config {
	return &Config{
		Gate: GateConfig{
			ForwardFloor:    "-0.01",
			SmoothnessBound: "10",
			Tolerance:       "0.000001",
			VolGridMin:      "-5",
			VolGridMax:      "5",
			VolGridStep:     "0.1",
		},
		Calibration: CalibrationConfig{
			DefaultDayCountConvention: "ACT/365",
			SVISigmaGrid:              []string{"0.05", "0.10", "0.15", "0.20", "0.30", "0.40", "0.50"},
		},
	}
}

// LoadConfig reads a YAML document from path and overlays it onto
// Default() — fields the document leaves blank keep their default
// value rather than zeroing out.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every threshold parses as a decimal and that
// the day-count convention is one Phase A recognizes.
func (c *Config) Validate(ctx *decimal.Context) error {
	fields := map[string]string{
		"forward_floor":    c.Gate.ForwardFloor,
		"smoothness_bound": c.Gate.SmoothnessBound,
		"tolerance":        c.Gate.Tolerance,
		"vol_grid_min":     c.Gate.VolGridMin,
		"vol_grid_max":     c.Gate.VolGridMax,
		"vol_grid_step":    c.Gate.VolGridStep,
	}
	for name, v := range fields {
		if _, err := ctx.Parse(v); err != nil {
			return fmt.Errorf("gate.%s: %w", name, err)
		}
	}
	for i, v := range c.Calibration.SVISigmaGrid {
		if _, err := ctx.Parse(v); err != nil {
			return fmt.Errorf("calibration.svi_sigma_grid[%d]: %w", i, err)
		}
	}
	switch decimal.DayCountConvention(c.Calibration.DefaultDayCountConvention) {
	case decimal.ACT360, decimal.ACT365, decimal.Thirty360, decimal.Thirty360E,
		decimal.ActActISDA, decimal.ActActICMA, decimal.ACT365L, decimal.BUS252:
	default:
		return fmt.Errorf("calibration.default_day_count_convention: unknown convention %q", c.Calibration.DefaultDayCountConvention)
	}
	return nil
}

// ForwardFloor parses the configured forward-rate floor.
func (c *Config) ForwardFloor(ctx *decimal.Context) (*decimal.Decimal, error) {
	return ctx.Parse(c.Gate.ForwardFloor)
}

// SmoothnessBound parses the configured curvature bound.
func (c *Config) SmoothnessBound(ctx *decimal.Context) (*decimal.Decimal, error) {
	return ctx.Parse(c.Gate.SmoothnessBound)
}

// GateTolerance parses the configured arbitrage-gate tolerance.
func (c *Config) GateTolerance(ctx *decimal.Context) (*decimal.Decimal, error) {
	return ctx.Parse(c.Gate.Tolerance)
}

// VolGrid parses the configured symmetric log-moneyness grid
// (VolGridMin..VolGridMax stepped by VolGridStep, inclusive).
func (c *Config) VolGrid(ctx *decimal.Context) ([]*decimal.Decimal, error) {
	min, err := ctx.Parse(c.Gate.VolGridMin)
	if err != nil {
		return nil, err
	}
	max, err := ctx.Parse(c.Gate.VolGridMax)
	if err != nil {
		return nil, err
	}
	step, err := ctx.Parse(c.Gate.VolGridStep)
	if err != nil {
		return nil, err
	}
	if decimal.Sign(step) <= 0 {
		return nil, fmt.Errorf("vol_grid_step must be positive, got %s", decimal.String(step))
	}

	var grid []*decimal.Decimal
	k := min
	for decimal.Cmp(k, max) <= 0 {
		grid = append(grid, k)
		next, err := ctx.Add(k, step)
		if err != nil {
			return nil, err
		}
		k = next
	}
	return grid, nil
}

// SVISigmaGrid parses the configured sigma grid used by per-slice SVI
// calibration's grid search.
func (c *Config) SVISigmaGrid(ctx *decimal.Context) ([]*decimal.Decimal, error) {
	grid := make([]*decimal.Decimal, 0, len(c.Calibration.SVISigmaGrid))
	for _, v := range c.Calibration.SVISigmaGrid {
		d, err := ctx.Parse(v)
		if err != nil {
			return nil, err
		}
		grid = append(grid, d)
	}
	return grid, nil
}
