package policy

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/aqi"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

func newSimulator() *Simulator {
	return NewSimulator(aqi.NewCalculator(aqi.DefaultConfig()), DefaultCatalog())
}

func reading(conc map[models.Pollutant]float64, month time.Month) models.Reading {
	return models.Reading{
		LocationID:     "ito",
		Name:           "ITO",
		Timestamp:      time.Date(2026, month, 12, 11, 0, 0, 0, utils.IST),
		Concentrations: conc,
	}
}

func TestSimulateOddEvenReducesNO2(t *testing.T) {
	sim := newSimulator()
	r := reading(map[models.Pollutant]float64{
		models.NO2:  80,
		models.CO:   2,
		models.PM25: 150,
	}, time.March)

	res, err := sim.Simulate(r, "odd_even")
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if d := res.Deltas[models.NO2]; d.Before != 80 || d.After != 60 {
		t.Errorf("NO2 delta: got %.1f -> %.1f, want 80 -> 60", d.Before, d.After)
	}
	if d := res.Deltas[models.CO]; d.After != 1.6 {
		t.Errorf("CO after: got %.1f, want 1.6", d.After)
	}
	if res.After.AQI > res.Baseline.AQI {
		t.Errorf("index rose after mitigation: %d -> %d", res.Baseline.AQI, res.After.AQI)
	}
	if len(res.Policies) != 1 || !res.Policies[0].Applied {
		t.Errorf("applications: got %+v", res.Policies)
	}
}

func TestSimulateSequentialEqualsCombined(t *testing.T) {
	sim := newSimulator()
	r := reading(map[models.Pollutant]float64{
		models.PM25: 200,
		models.PM10: 300,
		models.NO2:  80,
		models.SO2:  40,
		models.CO:   2,
	}, time.March)

	combined, err := sim.Simulate(r, "odd_even", "construction_ban")
	if err != nil {
		t.Fatalf("combined: %v", err)
	}

	first, err := sim.Simulate(r, "odd_even")
	if err != nil {
		t.Fatalf("first step: %v", err)
	}
	mid := reading(nil, time.March)
	mid.Concentrations = make(map[models.Pollutant]float64)
	for p, d := range first.Deltas {
		mid.Concentrations[p] = d.After
	}
	second, err := sim.Simulate(mid, "construction_ban")
	if err != nil {
		t.Fatalf("second step: %v", err)
	}

	for _, p := range models.AllPollutants {
		if combined.Deltas[p].After != second.Deltas[p].After {
			t.Errorf("%s: combined %.1f vs sequential %.1f",
				p, combined.Deltas[p].After, second.Deltas[p].After)
		}
	}
	if combined.After.AQI != second.After.AQI {
		t.Errorf("final index: combined %d vs sequential %d", combined.After.AQI, second.After.AQI)
	}
}

func TestSimulateNeverIncreasesOrGoesNegative(t *testing.T) {
	sim := newSimulator()
	// CO 0.8 is the awkward case: a naive integer round of 0.64 would
	// push it back up to 1.
	r := reading(map[models.Pollutant]float64{
		models.PM25: 0.3,
		models.PM10: 1,
		models.NO2:  0.5,
		models.SO2:  0.2,
		models.CO:   0.8,
	}, time.November)

	for _, eff := range sim.Policies() {
		res, err := sim.Simulate(r, eff.Key)
		if err != nil {
			t.Fatalf("%s: %v", eff.Key, err)
		}
		for p, d := range res.Deltas {
			if d.After > d.Before {
				t.Errorf("%s raised %s: %.2f -> %.2f", eff.Key, p, d.Before, d.After)
			}
			if d.After < 0 {
				t.Errorf("%s drove %s negative: %.2f", eff.Key, p, d.After)
			}
		}
	}
}

func TestSimulateUnknownPolicy(t *testing.T) {
	sim := newSimulator()
	r := reading(map[models.Pollutant]float64{models.PM25: 100}, time.March)

	if _, err := sim.Simulate(r, "helicopter_sprinkling"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("got %v, want ErrUnknownPolicy", err)
	}
	if _, err := sim.Simulate(r); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("empty key list: got %v, want ErrUnknownPolicy", err)
	}
}

func TestSimulateSeasonalGate(t *testing.T) {
	sim := newSimulator()
	conc := map[models.Pollutant]float64{models.PM25: 180, models.PM10: 280}

	off, err := sim.Simulate(reading(conc, time.June), "stubble_ban")
	if err != nil {
		t.Fatalf("off-season: %v", err)
	}
	if off.Policies[0].Applied {
		t.Error("stubble_ban should be skipped in June")
	}
	if off.Policies[0].Reason == "" {
		t.Error("skipped policy should carry a reason")
	}
	if off.After.AQI != off.Baseline.AQI {
		t.Errorf("skipped policy changed the index: %d -> %d", off.Baseline.AQI, off.After.AQI)
	}

	on, err := sim.Simulate(reading(conc, time.November), "stubble_ban")
	if err != nil {
		t.Fatalf("in-season: %v", err)
	}
	if !on.Policies[0].Applied {
		t.Error("stubble_ban should apply in November")
	}
	if on.After.AQI >= on.Baseline.AQI {
		t.Errorf("in-season ban should lower the index: %d -> %d", on.Baseline.AQI, on.After.AQI)
	}
}

func TestCompareRanksByImprovement(t *testing.T) {
	sim := newSimulator()
	baselines := []models.Reading{
		reading(map[models.Pollutant]float64{models.NO2: 150, models.CO: 3}, time.March),
		reading(map[models.Pollutant]float64{models.SO2: 120}, time.March),
	}
	baselines[0].LocationID, baselines[0].Name = "ito", "ITO"
	baselines[1].LocationID, baselines[1].Name = "okhla", "Okhla"

	impacts, err := sim.Compare(baselines, "odd_even")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(impacts) != 2 {
		t.Fatalf("impacts: got %d, want 2", len(impacts))
	}
	// The traffic-heavy location responds to vehicle rationing; the SO2
	// site barely moves.
	if impacts[0].LocationID != "ito" {
		t.Errorf("best responder: got %s, want ito (%+v)", impacts[0].LocationID, impacts)
	}
	if impacts[0].Improvement < impacts[1].Improvement {
		t.Error("ranking is not descending by improvement")
	}
}

func TestCompareUnknownPolicy(t *testing.T) {
	sim := newSimulator()
	if _, err := sim.Compare(nil, "nope"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("got %v, want ErrUnknownPolicy", err)
	}
}

func TestRecommendNamesBestPolicy(t *testing.T) {
	sim := newSimulator()
	r := reading(map[models.Pollutant]float64{models.NO2: 160, models.CO: 4, models.PM25: 80}, time.April)

	text, err := sim.Recommend(r, []string{"odd_even", "construction_ban"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !strings.Contains(text, "Odd-Even") {
		t.Errorf("traffic-dominated baseline should recommend vehicle rationing: %q", text)
	}
}

func TestPoliciesPreservesCatalogOrder(t *testing.T) {
	sim := newSimulator()
	catalog := DefaultCatalog()
	got := sim.Policies()
	if len(got) != len(catalog) {
		t.Fatalf("catalog size: got %d, want %d", len(got), len(catalog))
	}
	for i := range catalog {
		if got[i].Key != catalog[i].Key {
			t.Errorf("position %d: got %s, want %s", i, got[i].Key, catalog[i].Key)
		}
	}
}
