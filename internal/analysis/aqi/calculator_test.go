package aqi

import (
	"testing"
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
)

func testReading(conc map[models.Pollutant]float64) models.Reading {
	return models.Reading{
		LocationID:     "anand-vihar",
		Name:           "Anand Vihar",
		Timestamp:      time.Date(2026, time.November, 12, 9, 0, 0, 0, time.UTC),
		Concentrations: conc,
	}
}

func TestComputeBracketBoundary(t *testing.T) {
	// PM2.5 of 25 sits exactly at the top of the first bracket.
	calc := NewCalculator(DefaultConfig())
	res := calc.Compute(testReading(map[models.Pollutant]float64{
		models.PM25: 25, models.PM10: 45, models.NO2: 30, models.SO2: 10, models.CO: 0.8,
	}))

	if res.AQI != 50 {
		t.Errorf("AQI: got %d, want 50", res.AQI)
	}
	if res.Category != models.CategoryGood {
		t.Errorf("Category: got %s, want Good", res.Category)
	}
	if res.Dominant != models.PM25 {
		t.Errorf("Dominant: got %s, want pm25", res.Dominant)
	}
}

func TestComputeSevereEpisode(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	res := calc.Compute(testReading(map[models.Pollutant]float64{
		models.PM25: 200, models.PM10: 300, models.NO2: 90,
	}))

	// PM2.5 of 200 falls in the 121–250 bracket mapping onto 301–400.
	si := res.SubIndices[models.PM25]
	if si < 301 || si > 400 {
		t.Errorf("pm25 sub-index: got %d, want within [301,400]", si)
	}
	if res.AQI != si {
		t.Errorf("composite %d should equal pm25 sub-index %d", res.AQI, si)
	}
	if res.Dominant != models.PM25 {
		t.Errorf("Dominant: got %s, want pm25", res.Dominant)
	}
	if res.Category != models.CategorySevere {
		t.Errorf("Category: got %s, want Severe", res.Category)
	}
}

func TestCompositeIsMaxOfSubIndices(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	res := calc.Compute(testReading(map[models.Pollutant]float64{
		models.PM25: 80, models.PM10: 180, models.NO2: 120, models.SO2: 60, models.CO: 3,
	}))

	max := 0
	for _, si := range res.SubIndices {
		if si > max {
			max = si
		}
	}
	if res.AQI != max {
		t.Errorf("AQI %d != max sub-index %d", res.AQI, max)
	}
	if res.SubIndices[res.Dominant] != res.AQI {
		t.Errorf("dominant %s sub-index %d != AQI %d",
			res.Dominant, res.SubIndices[res.Dominant], res.AQI)
	}
}

func TestSubIndexMonotoneWithinBracket(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	prev := -1
	for c := 0.0; c <= 250; c += 5 {
		si := calc.subIndex(models.PM25, c)
		if si < prev {
			t.Fatalf("sub-index decreased at pm25=%.0f: %d < %d", c, si, prev)
		}
		prev = si
	}
}

func TestMissingAndNegativeConcentrations(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	res := calc.Compute(testReading(map[models.Pollutant]float64{
		models.PM25: -10, models.NO2: 120,
	}))

	if res.SubIndices[models.PM25] != 0 {
		t.Errorf("negative pm25 should score 0, got %d", res.SubIndices[models.PM25])
	}
	if res.SubIndices[models.PM10] != 0 {
		t.Errorf("missing pm10 should score 0, got %d", res.SubIndices[models.PM10])
	}
	if res.Dominant != models.NO2 {
		t.Errorf("Dominant: got %s, want no2", res.Dominant)
	}
}

func TestClampAboveTopBracket(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	if si := calc.subIndex(models.PM25, 900); si != 500 {
		t.Errorf("pm25=900: got %d, want 500", si)
	}
}

func TestComputeIdempotent(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	r := testReading(map[models.Pollutant]float64{
		models.PM25: 140, models.PM10: 260, models.NO2: 70,
	})
	a := calc.Compute(r)
	b := calc.Compute(r)
	if a.AQI != b.AQI || a.Category != b.Category || a.Dominant != b.Dominant {
		t.Error("Compute is not idempotent for identical input")
	}
	for p, si := range a.SubIndices {
		if b.SubIndices[p] != si {
			t.Errorf("sub-index %s differs across calls: %d vs %d", p, si, b.SubIndices[p])
		}
	}
}

func TestCategoryLadder(t *testing.T) {
	tests := []struct {
		index int
		want  models.Category
	}{
		{0, models.CategoryGood},
		{50, models.CategoryGood},
		{51, models.CategorySatisfactory},
		{100, models.CategorySatisfactory},
		{150, models.CategoryModerate},
		{250, models.CategoryPoor},
		{362, models.CategorySevere},
		{400, models.CategorySevere},
		{401, models.CategoryHazardous},
		{500, models.CategoryHazardous},
	}
	for _, tc := range tests {
		if got := CategoryFor(tc.index); got != tc.want {
			t.Errorf("CategoryFor(%d): got %s, want %s", tc.index, got, tc.want)
		}
	}
}

func TestTierLadder(t *testing.T) {
	tests := []struct {
		index int
		want  models.RiskTier
	}{
		{40, models.RiskLow},
		{100, models.RiskModerate},
		{199, models.RiskModerate},
		{200, models.RiskHigh},
		{320, models.RiskSevere},
		{410, models.RiskHazardous},
	}
	for _, tc := range tests {
		if got := TierFor(tc.index); got != tc.want {
			t.Errorf("TierFor(%d): got %s, want %s", tc.index, got, tc.want)
		}
	}
}

func TestAlternateBreakpointsInjectable(t *testing.T) {
	cfg := Config{
		MaxIndex: 100,
		Breakpoints: map[models.Pollutant][]Breakpoint{
			models.PM25: {{0, 100, 0, 100}},
		},
	}
	calc := NewCalculator(cfg)
	if si := calc.subIndex(models.PM25, 50); si != 50 {
		t.Errorf("linear table pm25=50: got %d, want 50", si)
	}
	if si := calc.subIndex(models.PM25, 500); si != 100 {
		t.Errorf("above top bracket: got %d, want clamp 100", si)
	}
}
