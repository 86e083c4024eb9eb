package attribution

import (
	"strings"
	"testing"
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

func makeReading(conc map[models.Pollutant]float64, w models.WeatherSnapshot, ts time.Time) models.Reading {
	return models.Reading{
		LocationID:     "rk-puram",
		Name:           "RK Puram",
		Timestamp:      ts,
		Concentrations: conc,
		Weather:        w,
	}
}

// istTime builds an IST wall-clock instant so hour/month boosts are
// predictable regardless of the test host's zone.
func istTime(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, utils.IST)
}

func TestSharesSumToHundred(t *testing.T) {
	attr := NewAttributor(DefaultConfig())
	cases := []models.Reading{
		makeReading(map[models.Pollutant]float64{models.NO2: 120, models.CO: 3},
			models.WeatherSnapshot{WindSpeed: 6, Humidity: 55}, istTime(time.March, 3, 9)),
		makeReading(map[models.Pollutant]float64{models.PM25: 180, models.PM10: 320},
			models.WeatherSnapshot{WindSpeed: 1, Humidity: 30, Inversion: true}, istTime(time.November, 8, 23)),
		makeReading(map[models.Pollutant]float64{},
			models.WeatherSnapshot{}, istTime(time.June, 15, 14)),
		makeReading(map[models.Pollutant]float64{models.SO2: 200},
			models.WeatherSnapshot{WindSpeed: 9, Humidity: 70}, istTime(time.August, 1, 2)),
	}
	for i, r := range cases {
		res := attr.Attribute(r)
		sum := 0
		for _, pct := range res.Shares {
			sum += pct
		}
		if sum != 100 {
			t.Errorf("case %d: shares sum to %d, want 100 (%v)", i, sum, res.Shares)
		}
	}
}

func TestMainCauseIsArgmax(t *testing.T) {
	attr := NewAttributor(DefaultConfig())
	r := makeReading(map[models.Pollutant]float64{models.NO2: 150, models.CO: 4},
		models.WeatherSnapshot{WindSpeed: 7, Humidity: 60}, istTime(time.April, 10, 8))
	res := attr.Attribute(r)

	for s, pct := range res.Shares {
		if pct > res.Shares[res.MainCause] {
			t.Errorf("main cause %s (%d%%) is not the maximum; %s has %d%%",
				res.MainCause, res.Shares[res.MainCause], s, pct)
		}
	}
	if res.MainCause != models.SourceTraffic {
		t.Errorf("rush-hour NO2 episode: main cause got %s, want traffic", res.MainCause)
	}
}

func TestNormalizeReconcilesRounding(t *testing.T) {
	// Clamped raw scores from the scoring stage.
	shares := Normalize(map[models.Source]float64{
		models.SourceTraffic:        50,
		models.SourceBiomass:        0,
		models.SourceIndustrial:     20,
		models.SourceMeteorological: 20,
	})

	want := map[models.Source]int{
		models.SourceTraffic:        56,
		models.SourceBiomass:        0,
		models.SourceIndustrial:     22,
		models.SourceMeteorological: 22,
	}
	for s, pct := range want {
		if shares[s] != pct {
			t.Errorf("%s: got %d%%, want %d%%", s, shares[s], pct)
		}
	}
}

func TestNormalizeDriftGoesToLargest(t *testing.T) {
	// Thirds round to 33 each; the missing point lands on the largest
	// (first in canonical order on ties).
	shares := Normalize(map[models.Source]float64{
		models.SourceTraffic:        33,
		models.SourceBiomass:        33,
		models.SourceIndustrial:     33,
		models.SourceMeteorological: 0,
	})
	sum := 0
	for _, pct := range shares {
		sum += pct
	}
	if sum != 100 {
		t.Fatalf("sum: got %d, want 100", sum)
	}
	if shares[models.SourceTraffic] != 34 {
		t.Errorf("drift should land on traffic: got %v", shares)
	}
}

func TestBiomassSeasonalGate(t *testing.T) {
	attr := NewAttributor(DefaultConfig())
	conc := map[models.Pollutant]float64{models.PM25: 200, models.PM10: 300}
	w := models.WeatherSnapshot{WindSpeed: 6, Humidity: 60}

	nov := attr.Attribute(makeReading(conc, w, istTime(time.November, 5, 14)))
	jun := attr.Attribute(makeReading(conc, w, istTime(time.June, 5, 14)))

	if nov.Shares[models.SourceBiomass] <= jun.Shares[models.SourceBiomass] {
		t.Errorf("biomass share should rise in burning season: Nov %d%% vs Jun %d%%",
			nov.Shares[models.SourceBiomass], jun.Shares[models.SourceBiomass])
	}
	if nov.MainCause != models.SourceBiomass {
		t.Errorf("Nov PM episode: main cause got %s, want biomass_burning", nov.MainCause)
	}
}

func TestMeteorologicalFloor(t *testing.T) {
	attr := NewAttributor(DefaultConfig())
	// Empty reading: no boosts anywhere, base scores only.
	res := attr.Attribute(makeReading(nil, models.WeatherSnapshot{WindSpeed: 10, Humidity: 60},
		istTime(time.May, 20, 13)))
	if res.Shares[models.SourceMeteorological] <= 0 {
		t.Error("meteorological share should stay positive on a neutral reading")
	}
	sum := 0
	for _, pct := range res.Shares {
		sum += pct
	}
	if sum != 100 {
		t.Errorf("sum: got %d, want 100", sum)
	}
}

func TestAreaMetadataBoosts(t *testing.T) {
	attr := NewAttributor(DefaultConfig())
	conc := map[models.Pollutant]float64{models.SO2: 100}
	w := models.WeatherSnapshot{WindSpeed: 6, Humidity: 60}
	ts := istTime(time.March, 2, 13)

	plain := attr.Attribute(makeReading(conc, w, ts))

	industrial := makeReading(conc, w, ts)
	industrial.Area = &models.AreaMeta{
		Type:            models.AreaIndustrial,
		TrafficLevel:    models.LevelLow,
		IndustrialLevel: models.LevelHigh,
	}
	boosted := attr.Attribute(industrial)

	if boosted.Shares[models.SourceIndustrial] <= plain.Shares[models.SourceIndustrial] {
		t.Errorf("industrial area metadata should raise the industrial share: %d%% vs %d%%",
			boosted.Shares[models.SourceIndustrial], plain.Shares[models.SourceIndustrial])
	}
}

func TestExplanationNamesSecondaries(t *testing.T) {
	attr := NewAttributor(DefaultConfig())
	r := makeReading(map[models.Pollutant]float64{models.NO2: 150, models.SO2: 120},
		models.WeatherSnapshot{WindSpeed: 1, Inversion: true, Humidity: 35},
		istTime(time.February, 11, 18))
	res := attr.Attribute(r)

	if res.Explanation == "" {
		t.Fatal("explanation should not be empty")
	}
	for s, pct := range res.Shares {
		if s == res.MainCause || pct < DefaultConfig().MinorShare {
			continue
		}
		if !strings.Contains(res.Explanation, sourceLabel(s)) {
			t.Errorf("explanation should name secondary %s (%d%%): %q", s, pct, res.Explanation)
		}
	}
}

func TestAttributeDeterministic(t *testing.T) {
	attr := NewAttributor(DefaultConfig())
	r := makeReading(map[models.Pollutant]float64{models.NO2: 90, models.PM25: 130},
		models.WeatherSnapshot{WindSpeed: 2.5, Humidity: 45}, istTime(time.December, 25, 19))
	a := attr.Attribute(r)
	b := attr.Attribute(r)
	if a.MainCause != b.MainCause || a.Explanation != b.Explanation {
		t.Error("Attribute is not deterministic for identical input")
	}
	for s, pct := range a.Shares {
		if b.Shares[s] != pct {
			t.Errorf("share %s differs across calls", s)
		}
	}
}
