// Package datasource provides pollution readings for the monitored
// locations. It defines a common Provider interface; the built-in
// implementation is a seeded synthetic generator modelling Delhi-NCR
// station profiles with diurnal and seasonal shaping.
package datasource

import (
	"context"
	"errors"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
)

// Provider is the common interface all reading sources implement.
type Provider interface {
	// Name returns the human-readable name of this source.
	Name() string

	// Locations lists the monitored locations.
	Locations() []LocationInfo

	// Current returns the latest reading for one location.
	Current(ctx context.Context, locationID string) (models.Reading, error)

	// CurrentAll returns the latest reading for every location.
	CurrentAll(ctx context.Context) ([]models.Reading, error)

	// History returns hourly readings for the trailing window, oldest
	// first, ending at the current hour.
	History(ctx context.Context, locationID string, hours int) ([]models.Reading, error)
}

// LocationInfo describes one monitored location.
type LocationInfo struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Area models.AreaMeta `json:"area"`
}

// ErrUnknownLocation is returned when a location ID is not monitored.
var ErrUnknownLocation = errors.New("unknown location")
