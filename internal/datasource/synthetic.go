package datasource

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

// stationProfile is the static model of one monitored station: its
// metadata and typical fair-weather midday concentrations.
type stationProfile struct {
	info LocationInfo
	base map[models.Pollutant]float64
}

// stations is the built-in Delhi-NCR station set. Baselines approximate
// each station's typical profile: traffic corridors run NO2/CO-heavy,
// industrial belts SO2-heavy, green pockets low across the board.
var stations = []stationProfile{
	{
		info: LocationInfo{ID: "anand-vihar", Name: "Anand Vihar", Area: models.AreaMeta{
			Type: models.AreaUrban, TrafficLevel: models.LevelHigh, IndustrialLevel: models.LevelMedium}},
		base: map[models.Pollutant]float64{
			models.PM25: 160, models.PM10: 280, models.NO2: 95, models.SO2: 35, models.CO: 2.2},
	},
	{
		info: LocationInfo{ID: "ito", Name: "ITO", Area: models.AreaMeta{
			Type: models.AreaUrban, TrafficLevel: models.LevelHigh, IndustrialLevel: models.LevelLow}},
		base: map[models.Pollutant]float64{
			models.PM25: 120, models.PM10: 210, models.NO2: 110, models.SO2: 25, models.CO: 2.8},
	},
	{
		info: LocationInfo{ID: "okhla", Name: "Okhla Phase II", Area: models.AreaMeta{
			Type: models.AreaIndustrial, TrafficLevel: models.LevelMedium, IndustrialLevel: models.LevelHigh}},
		base: map[models.Pollutant]float64{
			models.PM25: 130, models.PM10: 240, models.NO2: 70, models.SO2: 90, models.CO: 1.5},
	},
	{
		info: LocationInfo{ID: "rk-puram", Name: "RK Puram", Area: models.AreaMeta{
			Type: models.AreaResidential, TrafficLevel: models.LevelMedium, IndustrialLevel: models.LevelLow}},
		base: map[models.Pollutant]float64{
			models.PM25: 95, models.PM10: 170, models.NO2: 55, models.SO2: 18, models.CO: 1.2},
	},
	{
		info: LocationInfo{ID: "dwarka", Name: "Dwarka Sector 8", Area: models.AreaMeta{
			Type: models.AreaResidential, TrafficLevel: models.LevelLow, IndustrialLevel: models.LevelLow}},
		base: map[models.Pollutant]float64{
			models.PM25: 80, models.PM10: 150, models.NO2: 45, models.SO2: 15, models.CO: 0.9},
	},
	{
		info: LocationInfo{ID: "lodhi-garden", Name: "Lodhi Garden", Area: models.AreaMeta{
			Type: models.AreaRural, TrafficLevel: models.LevelLow, IndustrialLevel: models.LevelLow}},
		base: map[models.Pollutant]float64{
			models.PM25: 60, models.PM10: 110, models.NO2: 30, models.SO2: 10, models.CO: 0.6},
	},
}

// Synthetic generates deterministic pseudo-readings: the reading for a
// given (seed, location, hour) triple is always the same, so repeated
// queries within an hour agree and tests can pin exact values. Safe for
// concurrent use.
type Synthetic struct {
	seed     int64
	profiles map[string]stationProfile
	order    []string
}

// NewSynthetic creates a Synthetic source. Seed 0 seeds from the clock,
// giving a different city on every run.
func NewSynthetic(seed int64) *Synthetic {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	profiles := make(map[string]stationProfile, len(stations))
	order := make([]string, 0, len(stations))
	for _, s := range stations {
		profiles[s.info.ID] = s
		order = append(order, s.info.ID)
	}
	return &Synthetic{seed: seed, profiles: profiles, order: order}
}

// Name implements Provider.
func (s *Synthetic) Name() string { return "synthetic" }

// Locations implements Provider.
func (s *Synthetic) Locations() []LocationInfo {
	out := make([]LocationInfo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.profiles[id].info)
	}
	return out
}

// Current implements Provider.
func (s *Synthetic) Current(ctx context.Context, locationID string) (models.Reading, error) {
	if err := ctx.Err(); err != nil {
		return models.Reading{}, err
	}
	return s.ReadingAt(locationID, utils.NowIST())
}

// CurrentAll implements Provider.
func (s *Synthetic) CurrentAll(ctx context.Context) ([]models.Reading, error) {
	now := utils.NowIST()
	out := make([]models.Reading, 0, len(s.order))
	for _, id := range s.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.ReadingAt(id, now)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// History implements Provider: hourly readings for the trailing window,
// oldest first.
func (s *Synthetic) History(ctx context.Context, locationID string, hours int) ([]models.Reading, error) {
	if hours <= 0 {
		return nil, nil
	}
	end := utils.NowIST().Truncate(time.Hour)
	out := make([]models.Reading, 0, hours)
	for i := hours - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.ReadingAt(locationID, end.Add(-time.Duration(i)*time.Hour))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ReadingAt generates the reading for one location at one instant.
// Deterministic: the same source produces the same reading for the same
// location and hour.
func (s *Synthetic) ReadingAt(locationID string, ts time.Time) (models.Reading, error) {
	prof, ok := s.profiles[locationID]
	if !ok {
		return models.Reading{}, fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}

	local := utils.ToIST(ts)
	rng := s.hourRNG(locationID, local)
	season := utils.Season(local.Month())
	hour := local.Hour()

	weather := genWeather(rng, season, hour)

	conc := make(map[models.Pollutant]float64, len(prof.base))
	for _, p := range models.AllPollutants {
		v := prof.base[p] * seasonFactor(season) * diurnalFactor(p, hour)
		if weather.Inversion {
			v *= 1.2
		}
		v *= 1 + (rng.Float64()*2-1)*0.15
		if v < 0 {
			v = 0
		}
		conc[p] = v
	}

	area := prof.info.Area
	return models.Reading{
		LocationID:     prof.info.ID,
		Name:           prof.info.Name,
		Timestamp:      local,
		Concentrations: conc,
		Weather:        weather,
		Area:           &area,
	}, nil
}

// hourRNG derives a generator from the source seed, the location, and
// the hour bucket, so readings are stable within an hour.
func (s *Synthetic) hourRNG(locationID string, local time.Time) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(locationID))
	bucket := local.Truncate(time.Hour).Unix()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(bucket >> (8 * i))
	}
	h.Write(buf[:])
	return rand.New(rand.NewSource(s.seed ^ int64(h.Sum64())))
}

// seasonFactor scales baselines by season: winter stagnation piles
// pollutants up, monsoon rain washes them out.
func seasonFactor(season string) float64 {
	switch season {
	case "winter":
		return 1.45
	case "post-monsoon":
		return 1.25
	case "monsoon":
		return 0.6
	default:
		return 0.95
	}
}

// diurnalFactor shapes the day: combustion pollutants spike in rush
// hours, everything settles overnight.
func diurnalFactor(p models.Pollutant, hour int) float64 {
	if utils.IsRushHour(hour) {
		switch p {
		case models.NO2, models.CO:
			return 1.3
		default:
			return 1.15
		}
	}
	if hour < 6 {
		return 0.85
	}
	return 1.0
}

// genWeather draws a weather snapshot consistent with season and hour.
// Winter mornings carry an inversion roughly half the time.
func genWeather(rng *rand.Rand, season string, hour int) models.WeatherSnapshot {
	var wind, humidity, temp float64
	switch season {
	case "winter":
		wind, humidity, temp = 1.5, 55, 12
	case "monsoon":
		wind, humidity, temp = 4.5, 80, 30
	case "summer":
		wind, humidity, temp = 3.5, 30, 39
	default:
		wind, humidity, temp = 2.5, 50, 26
	}
	wind += rng.Float64() * 2
	humidity += (rng.Float64()*2 - 1) * 10
	temp += (rng.Float64()*2 - 1) * 4

	inversion := season == "winter" && hour < 10 && rng.Float64() < 0.5

	return models.WeatherSnapshot{
		WindSpeed:   wind,
		Humidity:    humidity,
		Temperature: temp,
		Inversion:   inversion,
		Pressure:    1008 + (rng.Float64()*2-1)*6,
	}
}
