// Package trend fits an ordinary least-squares line to a historical
// index series and classifies its direction.
package trend

import (
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
)

// DefaultThreshold is the slope magnitude (index points per step) above
// which a series counts as moving rather than stable. The Forecaster
// shares this constant.
const DefaultThreshold = 2.0

// Config holds the direction-classification threshold.
type Config struct {
	Threshold float64
}

// DefaultConfig returns the standard trend configuration.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold}
}

// Estimator classifies historical index series. Safe for concurrent use.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an Estimator with the given threshold.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate fits an OLS slope to the series (oldest first) and classifies
// the direction. Fewer than two points degrade to stable with slope 0.
func (e *Estimator) Estimate(series []int) models.TrendResult {
	n := len(series)
	if n < 2 {
		return models.TrendResult{Direction: models.TrendStable, Slope: 0}
	}

	// OLS of index value against position 0..n-1.
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range series {
		x := float64(i)
		y := float64(v)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return models.TrendResult{Direction: models.TrendStable, Slope: 0}
	}
	slope := (fn*sumXY - sumX*sumY) / denom

	dir := models.TrendStable
	switch {
	case slope > e.cfg.Threshold:
		dir = models.TrendIncreasing
	case slope < -e.cfg.Threshold:
		dir = models.TrendImproving
	}
	return models.TrendResult{Direction: dir, Slope: slope}
}
