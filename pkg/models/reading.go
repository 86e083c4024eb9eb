// Package models defines the shared value objects exchanged between the
// analysis engine, the data-acquisition collaborators, and the API layer.
// All types are plain immutable records; nothing here holds behaviour
// beyond small read-only accessors.
package models

import "time"

// Pollutant identifies a measured pollutant species.
type Pollutant string

const (
	PM25 Pollutant = "pm25" // fine particulate matter, µg/m³
	PM10 Pollutant = "pm10" // coarse particulate matter, µg/m³
	NO2  Pollutant = "no2"  // nitrogen dioxide, µg/m³
	SO2  Pollutant = "so2"  // sulphur dioxide, µg/m³
	CO   Pollutant = "co"   // carbon monoxide, mg/m³
)

// AllPollutants lists every pollutant in canonical order. The order is
// significant: tie-breaks (e.g. dominant pollutant selection) resolve to
// the first entry.
var AllPollutants = []Pollutant{PM25, PM10, NO2, SO2, CO}

// AreaType classifies the land use around a monitoring location.
type AreaType string

const (
	AreaUrban       AreaType = "urban"
	AreaResidential AreaType = "residential"
	AreaIndustrial  AreaType = "industrial"
	AreaMixed       AreaType = "mixed"
	AreaRural       AreaType = "rural"
)

// Level is a coarse three-step intensity scale used in area metadata.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// WeatherSnapshot captures the meteorological conditions accompanying a
// pollutant reading.
type WeatherSnapshot struct {
	WindSpeed   float64 `json:"wind_speed"`  // m/s
	Humidity    float64 `json:"humidity"`    // %
	Temperature float64 `json:"temperature"` // °C
	Inversion   bool    `json:"inversion"`   // thermal inversion present
	Pressure    float64 `json:"pressure"`    // hPa
}

// AreaMeta describes the surroundings of a monitoring location. It is
// optional on a Reading; scoring falls back to neutral defaults when it
// is absent.
type AreaMeta struct {
	Type            AreaType `json:"type"`
	TrafficLevel    Level    `json:"traffic_level"`
	IndustrialLevel Level    `json:"industrial_level"`
}

// Reading is a single raw observation from one location: pollutant
// concentrations plus the weather at measurement time. Readings are
// produced by data-acquisition collaborators (live or synthetic) and are
// never mutated by the engine.
type Reading struct {
	LocationID     string                `json:"location_id"`
	Name           string                `json:"name"`
	Timestamp      time.Time             `json:"timestamp"`
	Concentrations map[Pollutant]float64 `json:"concentrations"`
	Weather        WeatherSnapshot       `json:"weather"`
	Area           *AreaMeta             `json:"area,omitempty"`
}

// Concentration returns the measured value for p, coerced to a safe
// default: missing or negative values read as 0.
func (r Reading) Concentration(p Pollutant) float64 {
	v, ok := r.Concentrations[p]
	if !ok || v < 0 {
		return 0
	}
	return v
}
