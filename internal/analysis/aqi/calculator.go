package aqi

import (
	"math"
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
)

// Calculator converts pollutant concentrations into a composite index.
// It holds only immutable configuration and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator with the given breakpoint tables.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Compute derives the IndexResult for a reading. Missing or negative
// concentrations score a sub-index of 0; the computation never fails on
// structurally valid input.
func (c *Calculator) Compute(r models.Reading) models.IndexResult {
	res := c.ComputeConcentrations(r.Concentrations, r.Timestamp)
	res.LocationID = r.LocationID
	return res
}

// ComputeConcentrations derives an IndexResult from a bare concentration
// set. Used directly by the Forecaster and Policy Simulator on projected
// pollutant sets.
func (c *Calculator) ComputeConcentrations(conc map[models.Pollutant]float64, ts time.Time) models.IndexResult {
	sub := make(map[models.Pollutant]int, len(models.AllPollutants))
	composite := 0
	dominant := models.AllPollutants[0]

	for _, p := range models.AllPollutants {
		si := c.subIndex(p, conc[p])
		sub[p] = si
		if si > composite {
			composite = si
			dominant = p
		}
	}

	return models.IndexResult{
		AQI:        composite,
		Category:   CategoryFor(composite),
		SubIndices: sub,
		Dominant:   dominant,
		Timestamp:  ts,
	}
}

// subIndex interpolates one pollutant's concentration onto the index
// scale. Values above the top bracket clamp to MaxIndex.
func (c *Calculator) subIndex(p models.Pollutant, conc float64) int {
	if conc <= 0 || math.IsNaN(conc) {
		return 0
	}
	brackets, ok := c.cfg.Breakpoints[p]
	if !ok {
		return 0
	}
	for _, b := range brackets {
		if conc <= b.High {
			span := b.High - b.Low
			if span <= 0 {
				return b.IndexHigh
			}
			v := float64(b.IndexHigh-b.IndexLow)/span*(conc-b.Low) + float64(b.IndexLow)
			si := int(math.Round(v))
			if si < 0 {
				si = 0
			}
			return si
		}
	}
	return c.cfg.MaxIndex
}
