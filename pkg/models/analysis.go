package models

import "time"

// Category is the qualitative air-quality band derived from the
// composite index. Bands are assigned by a single threshold ladder in
// the aqi package; every category lookup in the engine goes through it.
type Category string

const (
	CategoryGood         Category = "Good"
	CategorySatisfactory Category = "Satisfactory"
	CategoryModerate     Category = "Moderate"
	CategoryPoor         Category = "Poor"
	CategorySevere       Category = "Severe"
	CategoryHazardous    Category = "Hazardous"
)

// IndexResult is the outcome of running the Index Calculator on one set
// of pollutant concentrations. Invariant: AQI == max over SubIndices and
// Dominant is the first pollutant (in canonical order) attaining it.
type IndexResult struct {
	LocationID string            `json:"location_id,omitempty"`
	AQI        int               `json:"aqi"`
	Category   Category          `json:"category"`
	SubIndices map[Pollutant]int `json:"sub_indices"`
	Dominant   Pollutant         `json:"dominant"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Source is a candidate causal source of observed pollution.
type Source string

const (
	SourceTraffic        Source = "traffic"
	SourceBiomass        Source = "biomass_burning"
	SourceIndustrial     Source = "industrial"
	SourceMeteorological Source = "meteorological"
)

// AllSources lists the attribution sources in canonical order, used for
// deterministic iteration and tie-breaking.
var AllSources = []Source{SourceTraffic, SourceBiomass, SourceIndustrial, SourceMeteorological}

// AttributionResult assigns observed pollution to causal sources.
// Invariant: the Shares percentages sum to exactly 100.
type AttributionResult struct {
	LocationID  string         `json:"location_id,omitempty"`
	Shares      map[Source]int `json:"shares"` // percent
	MainCause   Source         `json:"main_cause"`
	Explanation string         `json:"explanation"`
}

// TrendDirection classifies the slope of a historical index series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing" // worsening air quality
	TrendImproving  TrendDirection = "improving"
	TrendStable     TrendDirection = "stable"
)

// TrendResult is the output of the Trend Estimator.
type TrendResult struct {
	Direction TrendDirection `json:"direction"`
	Slope     float64        `json:"slope"` // index points per series step
}

// ConfidenceLevel labels forecast reliability.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// HorizonForecast is the projection for a single fixed horizon.
type HorizonForecast struct {
	Hours          int                   `json:"hours"`
	Concentrations map[Pollutant]float64 `json:"concentrations"`
	Index          IndexResult           `json:"index"`
}

// ForecastResult carries the multi-horizon projection for one location.
type ForecastResult struct {
	LocationID      string            `json:"location_id"`
	Horizons        []HorizonForecast `json:"horizons"` // ascending by Hours
	Confidence      ConfidenceLevel   `json:"confidence"`
	ConfidenceScore int               `json:"confidence_score"` // 30–95
	Trend           TrendDirection    `json:"trend"`
	Explanation     string            `json:"explanation"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// SpikeSeverity grades a projected index spike.
type SpikeSeverity string

const (
	SpikeHigh   SpikeSeverity = "high"
	SpikeSevere SpikeSeverity = "severe"
)

// SpikeAlert flags a forecast horizon whose projected index crosses a
// severity threshold.
type SpikeAlert struct {
	Hours    int           `json:"hours"`
	AQI      int           `json:"aqi"`
	Severity SpikeSeverity `json:"severity"`
}

// ForecastPoint is one step of a fixed-interval projected series
// (hourly or daily dashboards).
type ForecastPoint struct {
	Time     time.Time `json:"time"`
	AQI      int       `json:"aqi"`
	Category Category  `json:"category"`
	PM25     float64   `json:"pm25"`
}

// PolicyEffect is the static model of one intervention: the percentage
// reduction it applies per pollutant, an optional seasonal gate, and
// qualitative deployment labels. Catalog entries are configuration, not
// per-request state.
type PolicyEffect struct {
	Key         string                `json:"key"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Reductions  map[Pollutant]float64 `json:"reductions"` // negative percent, e.g. -25
	Months      []time.Month          `json:"months,omitempty"`
	Effective   string                `json:"effectiveness"` // qualitative: low/medium/high
	Cost        string                `json:"cost"`
	Acceptance  string                `json:"acceptance"`
}

// AppliesIn reports whether the policy is active in month m. Policies
// with no declared months apply year-round.
func (p PolicyEffect) AppliesIn(m time.Month) bool {
	if len(p.Months) == 0 {
		return true
	}
	for _, am := range p.Months {
		if am == m {
			return true
		}
	}
	return false
}

// PolicyApplication records whether one policy in a simulation run was
// actually applied, and why not when it was skipped.
type PolicyApplication struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// PollutantDelta is a before/after pair for one pollutant.
type PollutantDelta struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// PolicySimulationResult reports the projected impact of applying one or
// more policies, in order, to a baseline reading.
type PolicySimulationResult struct {
	LocationID     string                       `json:"location_id"`
	Baseline       IndexResult                  `json:"baseline"`
	After          IndexResult                  `json:"after"`
	Improvement    int                          `json:"improvement"`     // absolute AQI drop
	ImprovementPct float64                      `json:"improvement_pct"` // (baseline-after)/baseline × 100
	Deltas         map[Pollutant]PollutantDelta `json:"deltas"`
	Policies       []PolicyApplication          `json:"policies"`
}

// LocationImpact ranks one location's response to a policy in a
// cross-location comparison.
type LocationImpact struct {
	LocationID     string  `json:"location_id"`
	Name           string  `json:"name"`
	Baseline       int     `json:"baseline"`
	After          int     `json:"after"`
	Improvement    int     `json:"improvement"`
	ImprovementPct float64 `json:"improvement_pct"`
}

// RiskTier grades how dangerous an index level is.
type RiskTier string

const (
	RiskLow       RiskTier = "low"
	RiskModerate  RiskTier = "moderate"
	RiskHigh      RiskTier = "high"
	RiskSevere    RiskTier = "severe"
	RiskHazardous RiskTier = "hazardous"
)

// Hotspot is a location whose current index exceeds the high-risk
// threshold.
type Hotspot struct {
	LocationID string    `json:"location_id"`
	Name       string    `json:"name"`
	AQI        int       `json:"aqi"`
	Category   Category  `json:"category"`
	Tier       RiskTier  `json:"tier"`
	MainCause  Source    `json:"main_cause"`
	Timestamp  time.Time `json:"timestamp"`
}

// PeakWindow is an hour-of-day range with an elevated (or, for safest
// windows, depressed) historical average index.
type PeakWindow struct {
	StartHour  int `json:"start_hour"` // 0–23, window covers [StartHour, EndHour)
	EndHour    int `json:"end_hour"`
	AverageAQI int `json:"average_aqi"`
	Samples    int `json:"samples"`
}

// AreaPattern aggregates current indices by area type.
type AreaPattern struct {
	Type       AreaType `json:"type"`
	AverageAQI int      `json:"average_aqi"`
	MinAQI     int      `json:"min_aqi"`
	MaxAQI     int      `json:"max_aqi"`
	Locations  int      `json:"locations"`
}

// RiskSummary condenses a risk report into headline numbers.
type RiskSummary struct {
	HighRiskCount int      `json:"high_risk_count"`
	AverageAQI    int      `json:"average_aqi"`
	Worst         *Hotspot `json:"worst,omitempty"`
}

// RiskReport is the full output of the Risk Detector.
type RiskReport struct {
	Hotspots         []Hotspot     `json:"hotspots"`
	PeakWindows      []PeakWindow  `json:"peak_windows"`
	SafestWindows    []PeakWindow  `json:"safest_windows"`
	Patterns         []AreaPattern `json:"patterns"`
	AuthorityActions []string      `json:"authority_actions"`
	CitizenAdvice    []string      `json:"citizen_advice"`
	Summary          RiskSummary   `json:"summary"`
	GeneratedAt      time.Time     `json:"generated_at"`
}
