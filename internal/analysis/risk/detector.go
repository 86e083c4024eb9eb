// Package risk scans the current readings of every monitored location,
// flags hotspots above the high-risk threshold, mines historical peak
// and safe hour windows, and renders tiered guidance for authorities
// and citizens.
package risk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/aqi"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/attribution"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

// ErrNoReadings is returned when Detect is called with no current
// readings to scan.
var ErrNoReadings = errors.New("no readings to scan")

// Config holds the detection thresholds.
type Config struct {
	HotspotThreshold int // index at or above which a location is a hotspot
	PeakWindows      int // how many peak and safe hour windows to report
}

// DefaultConfig returns the standard detection configuration.
func DefaultConfig() Config {
	return Config{
		HotspotThreshold: 200,
		PeakWindows:      3,
	}
}

// Detector runs the city-wide risk scan. Immutable after construction,
// safe for concurrent use.
type Detector struct {
	cfg  Config
	calc *aqi.Calculator
	attr *attribution.Attributor
}

// NewDetector creates a Detector.
func NewDetector(cfg Config, calc *aqi.Calculator, attr *attribution.Attributor) *Detector {
	return &Detector{cfg: cfg, calc: calc, attr: attr}
}

// evaluation pairs a location's computed index with its attribution.
type evaluation struct {
	reading models.Reading
	index   models.IndexResult
	attr    models.AttributionResult
}

// Detect scans the current readings and compiles the full risk report.
// Locations are evaluated concurrently. history carries past readings
// across all locations and feeds the hour-of-day window mining; it may
// be empty.
func (d *Detector) Detect(ctx context.Context, current, history []models.Reading) (models.RiskReport, error) {
	if len(current) == 0 {
		return models.RiskReport{}, ErrNoReadings
	}

	evals := make([]evaluation, len(current))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range current {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			evals[i] = evaluation{
				reading: r,
				index:   d.calc.Compute(r),
				attr:    d.attr.Attribute(r),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.RiskReport{}, fmt.Errorf("scanning locations: %w", err)
	}

	hotspots := d.hotspots(evals)
	peaks, safest := d.hourWindows(history)
	patterns := areaPatterns(evals)
	summary := summarize(evals, hotspots)

	generatedAt := current[0].Timestamp
	for _, r := range current[1:] {
		if r.Timestamp.After(generatedAt) {
			generatedAt = r.Timestamp
		}
	}

	return models.RiskReport{
		Hotspots:         hotspots,
		PeakWindows:      peaks,
		SafestWindows:    safest,
		Patterns:         patterns,
		AuthorityActions: d.authorityActions(hotspots, peaks),
		CitizenAdvice:    d.citizenAdvice(summary, peaks),
		Summary:          summary,
		GeneratedAt:      generatedAt,
	}, nil
}

// hotspots filters evaluations at or above the threshold, worst first.
func (d *Detector) hotspots(evals []evaluation) []models.Hotspot {
	var out []models.Hotspot
	for _, e := range evals {
		if e.index.AQI < d.cfg.HotspotThreshold {
			continue
		}
		out = append(out, models.Hotspot{
			LocationID: e.reading.LocationID,
			Name:       e.reading.Name,
			AQI:        e.index.AQI,
			Category:   e.index.Category,
			Tier:       aqi.TierFor(e.index.AQI),
			MainCause:  e.attr.MainCause,
			Timestamp:  e.reading.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AQI > out[j].AQI })
	return out
}

// hourWindows buckets historical readings by IST hour of day and returns
// the top-N and bottom-N hours by average index, each merged into
// contiguous windows. Peak candidates must average at or above the
// hotspot threshold; clean hours never count as peaks. Safest windows
// are unfiltered.
func (d *Detector) hourWindows(history []models.Reading) (peaks, safest []models.PeakWindow) {
	var sums [24]int
	var counts [24]int
	for _, r := range history {
		h := utils.ToIST(r.Timestamp).Hour()
		sums[h] += d.calc.Compute(r).AQI
		counts[h]++
	}

	type hourStat struct {
		hour, avg, samples int
	}
	var stats []hourStat
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		stats = append(stats, hourStat{
			hour:    h,
			avg:     int(math.Round(float64(sums[h]) / float64(counts[h]))),
			samples: counts[h],
		})
	}
	if len(stats) == 0 {
		return nil, nil
	}

	pick := func(descending bool) []models.PeakWindow {
		candidates := stats
		if descending {
			candidates = nil
			for _, s := range stats {
				if s.avg >= d.cfg.HotspotThreshold {
					candidates = append(candidates, s)
				}
			}
			if len(candidates) == 0 {
				return nil
			}
		}

		n := d.cfg.PeakWindows
		if n > len(candidates) {
			n = len(candidates)
		}

		sorted := make([]hourStat, len(candidates))
		copy(sorted, candidates)
		sort.SliceStable(sorted, func(i, j int) bool {
			if descending {
				return sorted[i].avg > sorted[j].avg
			}
			return sorted[i].avg < sorted[j].avg
		})
		top := sorted[:n]

		// Merge adjacent hours into contiguous windows.
		sort.Slice(top, func(i, j int) bool { return top[i].hour < top[j].hour })
		var windows []models.PeakWindow
		for _, s := range top {
			if len(windows) > 0 && windows[len(windows)-1].EndHour == s.hour {
				w := &windows[len(windows)-1]
				total := w.AverageAQI*w.Samples + s.avg*s.samples
				w.Samples += s.samples
				w.AverageAQI = int(math.Round(float64(total) / float64(w.Samples)))
				w.EndHour = s.hour + 1
				continue
			}
			windows = append(windows, models.PeakWindow{
				StartHour:  s.hour,
				EndHour:    s.hour + 1,
				AverageAQI: s.avg,
				Samples:    s.samples,
			})
		}
		sort.SliceStable(windows, func(i, j int) bool {
			if descending {
				return windows[i].AverageAQI > windows[j].AverageAQI
			}
			return windows[i].AverageAQI < windows[j].AverageAQI
		})
		return windows
	}

	return pick(true), pick(false)
}

// areaPatterns aggregates current indices by area type. Readings without
// area metadata count as mixed.
func areaPatterns(evals []evaluation) []models.AreaPattern {
	byType := make(map[models.AreaType]*models.AreaPattern)
	sums := make(map[models.AreaType]int)
	for _, e := range evals {
		at := models.AreaMixed
		if e.reading.Area != nil {
			at = e.reading.Area.Type
		}
		p, ok := byType[at]
		if !ok {
			p = &models.AreaPattern{Type: at, MinAQI: e.index.AQI, MaxAQI: e.index.AQI}
			byType[at] = p
		}
		if e.index.AQI < p.MinAQI {
			p.MinAQI = e.index.AQI
		}
		if e.index.AQI > p.MaxAQI {
			p.MaxAQI = e.index.AQI
		}
		p.Locations++
		sums[at] += e.index.AQI
	}

	out := make([]models.AreaPattern, 0, len(byType))
	for at, p := range byType {
		p.AverageAQI = int(math.Round(float64(sums[at]) / float64(p.Locations)))
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageAQI > out[j].AverageAQI })
	return out
}

// summarize condenses the scan into headline numbers.
func summarize(evals []evaluation, hotspots []models.Hotspot) models.RiskSummary {
	total := 0
	for _, e := range evals {
		total += e.index.AQI
	}
	s := models.RiskSummary{
		HighRiskCount: len(hotspots),
		AverageAQI:    int(math.Round(float64(total) / float64(len(evals)))),
	}
	if len(hotspots) > 0 {
		worst := hotspots[0]
		s.Worst = &worst
	}
	return s
}

// authorityActions renders intervention guidance keyed off the worst
// hotspot's tier and dominant source, a staggering suggestion for the
// worst peak window, and standing structural measures.
func (d *Detector) authorityActions(hotspots []models.Hotspot, peaks []models.PeakWindow) []string {
	if len(hotspots) == 0 {
		return []string{"No locations above the high-risk threshold; maintain routine monitoring."}
	}
	worst := hotspots[0]

	var actions []string
	switch worst.Tier {
	case models.RiskHazardous:
		actions = append(actions,
			fmt.Sprintf("Declare an emergency response for %s (AQI %d): close schools and halt outdoor public works.", worst.Name, worst.AQI))
	case models.RiskSevere:
		actions = append(actions,
			fmt.Sprintf("Activate severe-episode protocol for %s (AQI %d): restrict heavy vehicle entry and intensify dust suppression.", worst.Name, worst.AQI))
	default:
		actions = append(actions,
			fmt.Sprintf("Step up enforcement around %s (AQI %d).", worst.Name, worst.AQI))
	}

	switch worst.MainCause {
	case models.SourceTraffic:
		actions = append(actions, "Deploy traffic diversion and no-idling enforcement at the worst corridors.")
	case models.SourceBiomass:
		actions = append(actions, "Coordinate with feeder districts on residue-burning enforcement and issue smoke advisories.")
	case models.SourceIndustrial:
		actions = append(actions, "Audit industrial units near the hotspot for emission-norm compliance.")
	case models.SourceMeteorological:
		actions = append(actions, "Dispersion is weather-limited; prioritise emission cuts since ventilation will not help.")
	}

	if len(hotspots) > 1 {
		actions = append(actions, fmt.Sprintf("%d locations are above the high-risk threshold; consider city-wide measures over spot fixes.", len(hotspots)))
	}

	if len(peaks) > 0 {
		actions = append(actions, fmt.Sprintf("Stagger office and school hours to move commuter traffic out of the %s peak window.",
			utils.FormatHourRange(peaks[0].StartHour, peaks[0].EndHour)))
	}
	actions = append(actions,
		"Enforce dust-control norms at construction sites and mechanise road cleaning on arterial routes.",
		"Accelerate the shift of public transport and last-mile fleets to cleaner fuels.")
	return actions
}

// citizenAdvice renders public guidance keyed off the city-wide average
// tier, plus peak-hour avoidance when window data exists.
func (d *Detector) citizenAdvice(summary models.RiskSummary, peaks []models.PeakWindow) []string {
	var advice []string
	switch aqi.TierFor(summary.AverageAQI) {
	case models.RiskHazardous:
		advice = append(advice,
			"Stay indoors with windows closed; use air purifiers if available.",
			"Wear an N95 mask for any unavoidable outdoor exposure.")
	case models.RiskSevere:
		advice = append(advice,
			"Avoid all outdoor physical activity.",
			"Sensitive groups should remain indoors; others should wear N95 masks outside.")
	case models.RiskHigh:
		advice = append(advice,
			"Limit prolonged outdoor exertion.",
			"Children, the elderly, and people with respiratory conditions should stay indoors.")
	case models.RiskModerate:
		advice = append(advice,
			"Sensitive groups should reduce heavy outdoor exertion.")
	default:
		advice = append(advice,
			"Air quality is acceptable; no restrictions needed.")
	}

	if len(peaks) > 0 {
		advice = append(advice, fmt.Sprintf("Avoid outdoor activity during the %s peak window.",
			utils.FormatHourRange(peaks[0].StartHour, peaks[0].EndHour)))
	}
	return advice
}
