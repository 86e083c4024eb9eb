// Package forecast projects pollutant levels over fixed horizons using
// the historical trend, wind-driven retention factors, and bounded
// injectable noise. It is not a statistical model: the projection is a
// deliberately simple rule-based extrapolation, reproducible given a
// seeded generator.
package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/aqi"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/trend"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

// Config holds the forecasting constants.
type Config struct {
	Horizons       []int   // hours, ascending
	TrendThreshold float64 // shared with the trend estimator
	BaseConfidence int
	MinConfidence  int
	MaxConfidence  int
	NoiseAmplitude float64 // perturbation drawn from [1-a, 1+a]
	SpikeHigh      int     // projected index above this flags a high spike
	SpikeSevere    int     // ... and above this a severe spike
}

// DefaultConfig returns the standard forecast configuration.
func DefaultConfig() Config {
	return Config{
		Horizons:       []int{24, 48, 72},
		TrendThreshold: trend.DefaultThreshold,
		BaseConfidence: 60,
		MinConfidence:  30,
		MaxConfidence:  95,
		NoiseAmplitude: 0.08,
		SpikeHigh:      300,
		SpikeSevere:    400,
	}
}

// Forecaster projects a reading forward. The noise source is injected at
// construction; a nil source falls back to a time-seeded generator.
// Forecasters are NOT safe for concurrent use (the generator is shared);
// create one per goroutine.
type Forecaster struct {
	cfg  Config
	calc *aqi.Calculator
	est  *trend.Estimator
	rng  *rand.Rand
}

// NewForecaster creates a Forecaster. Pass a seeded rand.Rand for
// reproducible projections; nil seeds from the clock.
func NewForecaster(cfg Config, calc *aqi.Calculator, rng *rand.Rand) *Forecaster {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Forecaster{
		cfg:  cfg,
		calc: calc,
		est:  trend.NewEstimator(trend.Config{Threshold: cfg.TrendThreshold}),
		rng:  rng,
	}
}

// Forecast projects the current reading across the configured horizons.
// history is the ordered index series (oldest first) for the location.
func (f *Forecaster) Forecast(current models.Reading, history []int) models.ForecastResult {
	tr := f.est.Estimate(history)
	score := f.confidenceScore(current, history)

	horizons := make([]models.HorizonForecast, 0, len(f.cfg.Horizons))
	for _, h := range f.cfg.Horizons {
		conc := f.project(current, tr.Slope, h)
		idx := f.calc.ComputeConcentrations(conc, current.Timestamp.Add(time.Duration(h)*time.Hour))
		idx.LocationID = current.LocationID
		horizons = append(horizons, models.HorizonForecast{
			Hours:          h,
			Concentrations: conc,
			Index:          idx,
		})
	}

	level := confidenceLevel(score)
	return models.ForecastResult{
		LocationID:      current.LocationID,
		Horizons:        horizons,
		Confidence:      level,
		ConfidenceScore: score,
		Trend:           tr.Direction,
		Explanation:     explain(horizons, tr.Direction, level),
		GeneratedAt:     current.Timestamp,
	}
}

// project extrapolates every pollutant for one horizon.
func (f *Forecaster) project(r models.Reading, slope float64, hours int) map[models.Pollutant]float64 {
	trendFactor := 1 + slope*float64(hours)/100
	if trendFactor < 0 {
		trendFactor = 0
	}

	// Projected wind decides whether pollutants are retained or flushed.
	projWind := r.Weather.WindSpeed * f.noise()
	weatherFactor := 1.0
	switch {
	case projWind < 2:
		weatherFactor = 1.15
	case projWind < 4:
		weatherFactor = 1.05
	case projWind > 8:
		weatherFactor = 0.85
	}

	conc := make(map[models.Pollutant]float64, len(models.AllPollutants))
	for _, p := range models.AllPollutants {
		v := r.Concentration(p) * trendFactor * weatherFactor * f.noise()
		if v < 0 {
			v = 0
		}
		conc[p] = v
	}
	return conc
}

// noise draws a bounded multiplicative perturbation from [1-a, 1+a].
func (f *Forecaster) noise() float64 {
	return 1 + (f.rng.Float64()*2-1)*f.cfg.NoiseAmplitude
}

// confidenceScore grades forecast reliability from wind band, seasonal
// stability, and how much history backs the trend. Clamped to
// [MinConfidence, MaxConfidence].
func (f *Forecaster) confidenceScore(r models.Reading, history []int) int {
	score := float64(f.cfg.BaseConfidence)

	w := r.Weather.WindSpeed
	switch {
	case w >= 3 && w <= 12:
		score += 10 // steady moderate wind, dispersion is predictable
	case w < 1:
		score -= 15 // near-calm air behaves erratically
	}

	switch seasonStability(utils.ToIST(r.Timestamp).Month()) {
	case stabilityLow:
		score -= 10
	case stabilityHigh:
		score += 10
	}

	// Data quality: a full day of hourly history earns full weight.
	quality := math.Min(1, float64(len(history))/24)
	score *= 0.75 + 0.25*quality

	s := int(math.Round(score))
	if s < f.cfg.MinConfidence {
		s = f.cfg.MinConfidence
	}
	if s > f.cfg.MaxConfidence {
		s = f.cfg.MaxConfidence
	}
	return s
}

func confidenceLevel(score int) models.ConfidenceLevel {
	switch {
	case score >= 75:
		return models.ConfidenceHigh
	case score >= 55:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

type stability int

const (
	stabilityLow stability = iota
	stabilityMedium
	stabilityHigh
)

// seasonStability maps the calendar onto forecast stability: winter
// inversions make projections unreliable, dry summer is steady, the
// monsoon sits in between.
func seasonStability(m time.Month) stability {
	switch utils.Season(m) {
	case "winter":
		return stabilityLow
	case "summer":
		return stabilityHigh
	default:
		return stabilityMedium
	}
}

// explain compares the nearest and farthest horizons.
func explain(horizons []models.HorizonForecast, dir models.TrendDirection, level models.ConfidenceLevel) string {
	if len(horizons) == 0 {
		return "No horizons configured."
	}
	first := horizons[0]
	last := horizons[len(horizons)-1]

	var movement string
	switch {
	case last.Index.AQI > first.Index.AQI:
		movement = fmt.Sprintf("worsen from %s to %s", first.Index.Category, last.Index.Category)
	case last.Index.AQI < first.Index.AQI:
		movement = fmt.Sprintf("improve from %s to %s", first.Index.Category, last.Index.Category)
	default:
		movement = fmt.Sprintf("hold at %s", first.Index.Category)
	}
	return fmt.Sprintf("Air quality is expected to %s over the next %d hours; overall trend %s, %s confidence.",
		movement, last.Hours, dir, level)
}

// DetectSpikes flags horizons whose projected index crosses the severity
// thresholds.
func (f *Forecaster) DetectSpikes(fr models.ForecastResult) []models.SpikeAlert {
	var alerts []models.SpikeAlert
	for _, h := range fr.Horizons {
		switch {
		case h.Index.AQI > f.cfg.SpikeSevere:
			alerts = append(alerts, models.SpikeAlert{Hours: h.Hours, AQI: h.Index.AQI, Severity: models.SpikeSevere})
		case h.Index.AQI > f.cfg.SpikeHigh:
			alerts = append(alerts, models.SpikeAlert{Hours: h.Hours, AQI: h.Index.AQI, Severity: models.SpikeHigh})
		}
	}
	return alerts
}

// HourlySeries produces a fixed-interval projected series for dashboard
// charts: PM2.5 shaped by a daily sine cycle with wind modulation, every
// stepHours up to hours ahead.
func (f *Forecaster) HourlySeries(current models.Reading, hours, stepHours int) []models.ForecastPoint {
	if stepHours <= 0 {
		stepHours = 1
	}
	basePM := current.Concentration(models.PM25)
	baseWind := current.Weather.WindSpeed

	var points []models.ForecastPoint
	for i := 0; i < hours; i += stepHours {
		hourFactor := math.Sin(float64(i)/12*math.Pi) * 0.15
		pm := basePM*(1+hourFactor) + hourFactor*basePM*0.2

		wind := baseWind + math.Sin(float64(i)/8*math.Pi)*baseWind*0.2
		if wind < 2 {
			pm *= 1.1
		}
		if pm < 0 {
			pm = 0
		}

		ts := current.Timestamp.Add(time.Duration(i) * time.Hour)
		idx := f.calc.ComputeConcentrations(map[models.Pollutant]float64{models.PM25: pm}, ts)
		points = append(points, models.ForecastPoint{
			Time:     ts,
			AQI:      idx.AQI,
			Category: idx.Category,
			PM25:     math.Round(pm*10) / 10,
		})
	}
	return points
}
