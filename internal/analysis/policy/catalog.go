// Package policy simulates the projected impact of pollution-control
// interventions on a baseline reading. Each catalog entry models an
// intervention as fixed percentage reductions per pollutant, optionally
// gated to the months it can realistically run in.
package policy

import (
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
)

// DefaultCatalog returns the built-in intervention catalog. Reduction
// percentages are deliberately conservative: they model the measured
// short-term effect of each scheme, not its announced target.
func DefaultCatalog() []models.PolicyEffect {
	return []models.PolicyEffect{
		{
			Key:         "odd_even",
			Name:        "Odd-Even Vehicle Rationing",
			Description: "Private vehicles allowed on alternate days by plate number.",
			Reductions: map[models.Pollutant]float64{
				models.NO2:  -25,
				models.CO:   -20,
				models.PM25: -10,
			},
			Effective:  "medium",
			Cost:       "low",
			Acceptance: "medium",
		},
		{
			Key:         "construction_ban",
			Name:        "Construction Activity Ban",
			Description: "Halt on demolition and construction dust sources.",
			Reductions: map[models.Pollutant]float64{
				models.PM10: -30,
				models.PM25: -15,
			},
			Effective:  "high",
			Cost:       "high",
			Acceptance: "low",
		},
		{
			Key:         "stubble_ban",
			Name:        "Crop Residue Burning Ban",
			Description: "Enforcement and subsidy drive against stubble burning in feeder districts.",
			Reductions: map[models.Pollutant]float64{
				models.PM25: -30,
				models.PM10: -20,
			},
			Months:     []time.Month{time.October, time.November, time.December},
			Effective:  "high",
			Cost:       "medium",
			Acceptance: "low",
		},
		{
			Key:         "industrial_emission_control",
			Name:        "Industrial Emission Controls",
			Description: "Mandated scrubbers and fuel switching for industrial clusters.",
			Reductions: map[models.Pollutant]float64{
				models.SO2:  -35,
				models.NO2:  -15,
				models.PM25: -10,
			},
			Effective:  "high",
			Cost:       "high",
			Acceptance: "medium",
		},
		{
			Key:         "public_transport_boost",
			Name:        "Public Transport Expansion",
			Description: "Extra bus and metro frequency with fare incentives.",
			Reductions: map[models.Pollutant]float64{
				models.NO2:  -15,
				models.CO:   -12,
				models.PM25: -8,
			},
			Effective:  "medium",
			Cost:       "medium",
			Acceptance: "high",
		},
		{
			Key:         "firecracker_ban",
			Name:        "Firecracker Ban",
			Description: "Sale and use ban through the festival season.",
			Reductions: map[models.Pollutant]float64{
				models.PM25: -20,
				models.PM10: -15,
				models.SO2:  -10,
			},
			Months:     []time.Month{time.October, time.November},
			Effective:  "medium",
			Cost:       "low",
			Acceptance: "medium",
		},
	}
}
