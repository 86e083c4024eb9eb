// Package attribution scores candidate pollution sources (traffic,
// biomass burning, industrial, meteorological) from contextual signals
// and normalizes the scores into percentages that sum to exactly 100.
// Scoring is fully deterministic.
package attribution

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

// Config holds the scoring constants. Base scores seed each source,
// ceilings cap the boosted score so no single source dominates
// unrealistically, and MinorShare is the percentage above which a
// secondary source is named in the explanation.
type Config struct {
	Base          map[models.Source]float64
	Ceiling       map[models.Source]float64
	MinorShare    int
	BiomassMonths []time.Month
}

// DefaultConfig returns the standard scoring constants. The
// meteorological base acts as a floor guaranteeing a positive
// normalization denominator.
func DefaultConfig() Config {
	return Config{
		Base: map[models.Source]float64{
			models.SourceTraffic:        25,
			models.SourceBiomass:        10,
			models.SourceIndustrial:     15,
			models.SourceMeteorological: 20,
		},
		Ceiling: map[models.Source]float64{
			models.SourceTraffic:        60,
			models.SourceBiomass:        55,
			models.SourceIndustrial:     50,
			models.SourceMeteorological: 55,
		},
		MinorShare:    15,
		BiomassMonths: []time.Month{time.October, time.November, time.December, time.January},
	}
}

// Attributor scores pollution sources for a reading. Immutable after
// construction, safe for concurrent use.
type Attributor struct {
	cfg Config
}

// NewAttributor creates an Attributor with the given scoring constants.
func NewAttributor(cfg Config) *Attributor {
	return &Attributor{cfg: cfg}
}

// Attribute scores every candidate source for the reading, normalizes
// to percentages summing to 100, and renders an explanation keyed off
// the main cause.
func (a *Attributor) Attribute(r models.Reading) models.AttributionResult {
	scores := a.rawScores(r)

	// Clamp to per-source ceilings.
	for s, v := range scores {
		if ceil, ok := a.cfg.Ceiling[s]; ok && v > ceil {
			scores[s] = ceil
		}
	}

	shares := Normalize(scores)
	main := mainCause(shares)

	return models.AttributionResult{
		LocationID:  r.LocationID,
		Shares:      shares,
		MainCause:   main,
		Explanation: a.explain(r, shares, main),
	}
}

// rawScores applies the contextual boosts on top of the base scores.
func (a *Attributor) rawScores(r models.Reading) map[models.Source]float64 {
	scores := make(map[models.Source]float64, len(models.AllSources))
	for s, base := range a.cfg.Base {
		scores[s] = base
	}

	local := utils.ToIST(r.Timestamp)
	hour := local.Hour()
	month := local.Month()

	no2 := r.Concentration(models.NO2)
	co := r.Concentration(models.CO)
	pm25 := r.Concentration(models.PM25)
	pm10 := r.Concentration(models.PM10)
	so2 := r.Concentration(models.SO2)
	w := r.Weather

	// Traffic: NO2/CO enrichment, rush-hour window, busy-road metadata.
	switch {
	case no2 > 80:
		scores[models.SourceTraffic] += 20
	case no2 > 40:
		scores[models.SourceTraffic] += 10
	}
	switch {
	case co > 2:
		scores[models.SourceTraffic] += 10
	case co > 1:
		scores[models.SourceTraffic] += 5
	}
	if utils.IsRushHour(hour) {
		scores[models.SourceTraffic] += 10
	}
	if r.Area != nil {
		switch r.Area.TrafficLevel {
		case models.LevelHigh:
			scores[models.SourceTraffic] += 10
		case models.LevelMedium:
			scores[models.SourceTraffic] += 5
		}
	}

	// Biomass burning: boosts apply only inside the burning season.
	if a.inBiomassSeason(month) {
		scores[models.SourceBiomass] += 10
		switch {
		case pm25 > 120:
			scores[models.SourceBiomass] += 15
		case pm25 > 60:
			scores[models.SourceBiomass] += 8
		}
		if pm10 > 250 {
			scores[models.SourceBiomass] += 10
		}
	}

	// Industrial: SO2 enrichment and industrial surroundings.
	switch {
	case so2 > 80:
		scores[models.SourceIndustrial] += 20
	case so2 > 40:
		scores[models.SourceIndustrial] += 10
	}
	if r.Area != nil {
		if r.Area.Type == models.AreaIndustrial {
			scores[models.SourceIndustrial] += 10
		}
		switch r.Area.IndustrialLevel {
		case models.LevelHigh:
			scores[models.SourceIndustrial] += 10
		case models.LevelMedium:
			scores[models.SourceIndustrial] += 5
		}
	}

	// Meteorological: stagnant air traps whatever is emitted.
	switch {
	case w.WindSpeed < 2:
		scores[models.SourceMeteorological] += 15
	case w.WindSpeed < 4:
		scores[models.SourceMeteorological] += 8
	}
	if w.Inversion {
		scores[models.SourceMeteorological] += 10
	}
	if w.Humidity > 0 && w.Humidity < 40 {
		scores[models.SourceMeteorological] += 5
	}

	return scores
}

func (a *Attributor) inBiomassSeason(m time.Month) bool {
	for _, bm := range a.cfg.BiomassMonths {
		if bm == m {
			return true
		}
	}
	return false
}

// Normalize converts clamped raw scores into integer percentages summing
// to exactly 100. Rounding drift is reconciled onto the largest
// contributor. The caller guarantees at least one positive score.
func Normalize(scores map[models.Source]float64) map[models.Source]int {
	total := 0.0
	for _, s := range models.AllSources {
		total += scores[s]
	}
	shares := make(map[models.Source]int, len(models.AllSources))
	if total <= 0 {
		// Degenerate input; park everything on meteorological.
		for _, s := range models.AllSources {
			shares[s] = 0
		}
		shares[models.SourceMeteorological] = 100
		return shares
	}

	sum := 0
	for _, s := range models.AllSources {
		pct := int(math.Round(scores[s] / total * 100))
		shares[s] = pct
		sum += pct
	}

	if drift := 100 - sum; drift != 0 {
		shares[mainCause(shares)] += drift
	}
	return shares
}

// mainCause returns the source with the largest share, resolving ties to
// the earliest source in canonical order.
func mainCause(shares map[models.Source]int) models.Source {
	best := models.AllSources[0]
	for _, s := range models.AllSources[1:] {
		if shares[s] > shares[best] {
			best = s
		}
	}
	return best
}

// explain renders the templated natural-language attribution summary.
func (a *Attributor) explain(r models.Reading, shares map[models.Source]int, main models.Source) string {
	local := utils.ToIST(r.Timestamp)
	var sb strings.Builder

	switch main {
	case models.SourceTraffic:
		sb.WriteString(fmt.Sprintf("Vehicular emissions dominate: NO2 at %.0f µg/m³",
			r.Concentration(models.NO2)))
		if utils.IsRushHour(local.Hour()) {
			sb.WriteString(fmt.Sprintf(" during the %02d:00 rush window", local.Hour()))
		}
		sb.WriteString(".")
	case models.SourceBiomass:
		sb.WriteString(fmt.Sprintf("Biomass burning is the main driver: PM2.5 at %.0f µg/m³ in the %s burning season.",
			r.Concentration(models.PM25), utils.Season(local.Month())))
	case models.SourceIndustrial:
		sb.WriteString(fmt.Sprintf("Industrial emissions dominate: SO2 at %.0f µg/m³.",
			r.Concentration(models.SO2)))
	case models.SourceMeteorological:
		sb.WriteString(fmt.Sprintf("Weather is trapping pollutants: wind at %.1f m/s", r.Weather.WindSpeed))
		if r.Weather.Inversion {
			sb.WriteString(" under a thermal inversion")
		}
		sb.WriteString(".")
	}

	if secondary := a.secondaries(shares, main); len(secondary) > 0 {
		sb.WriteString(" Secondary contributors: ")
		sb.WriteString(strings.Join(secondary, ", "))
		sb.WriteString(".")
	}
	return sb.String()
}

// secondaries lists non-main sources at or above the minor-contribution
// threshold, largest first.
func (a *Attributor) secondaries(shares map[models.Source]int, main models.Source) []string {
	type entry struct {
		source models.Source
		pct    int
	}
	var list []entry
	for _, s := range models.AllSources {
		if s == main {
			continue
		}
		if shares[s] >= a.cfg.MinorShare {
			list = append(list, entry{s, shares[s]})
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].pct > list[j].pct })

	out := make([]string, len(list))
	for i, e := range list {
		out[i] = fmt.Sprintf("%s (%d%%)", sourceLabel(e.source), e.pct)
	}
	return out
}

func sourceLabel(s models.Source) string {
	switch s {
	case models.SourceTraffic:
		return "traffic"
	case models.SourceBiomass:
		return "biomass burning"
	case models.SourceIndustrial:
		return "industrial"
	case models.SourceMeteorological:
		return "meteorological"
	default:
		return string(s)
	}
}
