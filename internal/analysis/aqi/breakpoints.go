// Package aqi implements the composite air-quality index: piecewise-linear
// breakpoint interpolation per pollutant, with the composite taken as the
// maximum sub-index. It also owns the single category and risk-tier
// threshold ladders used everywhere else in the engine.
package aqi

import (
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
)

// Breakpoint maps one concentration bracket onto an index bracket.
type Breakpoint struct {
	Low       float64
	High      float64
	IndexLow  int
	IndexHigh int
}

// Config holds the breakpoint tables used by a Calculator. Tables are
// immutable after construction; tests may inject alternates.
type Config struct {
	Breakpoints map[models.Pollutant][]Breakpoint
	MaxIndex    int // sub-index clamp above the top bracket
}

// DefaultConfig returns the standard breakpoint tables (CPCB-style
// brackets; concentrations in µg/m³ except CO in mg/m³).
func DefaultConfig() Config {
	return Config{
		MaxIndex: 500,
		Breakpoints: map[models.Pollutant][]Breakpoint{
			models.PM25: {
				{0, 25, 0, 50},
				{26, 60, 51, 100},
				{61, 90, 101, 200},
				{91, 120, 201, 300},
				{121, 250, 301, 400},
				{251, 500, 401, 500},
			},
			models.PM10: {
				{0, 50, 0, 50},
				{51, 100, 51, 100},
				{101, 250, 101, 200},
				{251, 350, 201, 300},
				{351, 430, 301, 400},
				{431, 600, 401, 500},
			},
			models.NO2: {
				{0, 40, 0, 50},
				{41, 80, 51, 100},
				{81, 180, 101, 200},
				{181, 280, 201, 300},
				{281, 400, 301, 400},
				{401, 600, 401, 500},
			},
			models.SO2: {
				{0, 40, 0, 50},
				{41, 80, 51, 100},
				{81, 380, 101, 200},
				{381, 800, 201, 300},
				{801, 1600, 301, 400},
				{1601, 2000, 401, 500},
			},
			models.CO: {
				{0, 1, 0, 50},
				{1.1, 2, 51, 100},
				{2.1, 10, 101, 200},
				{10.1, 17, 201, 300},
				{17.1, 34, 301, 400},
				{34.1, 50, 401, 500},
			},
		},
	}
}

// categoryBands is the single source of truth for index → category
// assignment. Upper bounds are inclusive, ascending.
var categoryBands = []struct {
	upTo     int
	category models.Category
}{
	{50, models.CategoryGood},
	{100, models.CategorySatisfactory},
	{200, models.CategoryModerate},
	{300, models.CategoryPoor},
	{400, models.CategorySevere},
}

// CategoryFor assigns the qualitative band for a composite index.
func CategoryFor(index int) models.Category {
	for _, b := range categoryBands {
		if index <= b.upTo {
			return b.category
		}
	}
	return models.CategoryHazardous
}

// TierFor grades an index level on the risk-tier ladder shared by the
// Risk Detector's hotspot tagging and citizen guidance.
func TierFor(index int) models.RiskTier {
	switch {
	case index > 400:
		return models.RiskHazardous
	case index > 300:
		return models.RiskSevere
	case index >= 200:
		return models.RiskHigh
	case index >= 100:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}
