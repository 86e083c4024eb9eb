package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaults(t *testing.T) {
	for _, e := range []string{"AIRDESK_API_PORT", "AIRDESK_LOGGING_LEVEL", "AIRDESK_RISK_HOTSPOT_THRESHOLD"} {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Engine.TrendThreshold != 2.0 {
		t.Errorf("Engine.TrendThreshold: got %f, want 2.0", cfg.Engine.TrendThreshold)
	}
	if cfg.Forecast.NoiseAmplitude != 0.08 {
		t.Errorf("Forecast.NoiseAmplitude: got %f, want 0.08", cfg.Forecast.NoiseAmplitude)
	}
	if cfg.Forecast.BaseConfidence != 60 {
		t.Errorf("Forecast.BaseConfidence: got %d, want 60", cfg.Forecast.BaseConfidence)
	}
	if cfg.Risk.HotspotThreshold != 200 {
		t.Errorf("Risk.HotspotThreshold: got %d, want 200", cfg.Risk.HotspotThreshold)
	}
	if cfg.Risk.PeakWindows != 3 {
		t.Errorf("Risk.PeakWindows: got %d, want 3", cfg.Risk.PeakWindows)
	}
	if cfg.Data.HistoryHours != 48 {
		t.Errorf("Data.HistoryHours: got %d, want 48", cfg.Data.HistoryHours)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want 0.0.0.0", cfg.API.Host)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want text", cfg.Logging.Format)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("AIRDESK_API_PORT", "9090")
	os.Setenv("AIRDESK_LOGGING_LEVEL", "debug")
	defer func() {
		os.Unsetenv("AIRDESK_API_PORT")
		os.Unsetenv("AIRDESK_LOGGING_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want env override 9090", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want env override debug", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
engine:
  trend_threshold: 3.5
risk:
  hotspot_threshold: 250
api:
  port: 7070
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Engine.TrendThreshold != 3.5 {
		t.Errorf("Engine.TrendThreshold: got %f, want 3.5", cfg.Engine.TrendThreshold)
	}
	if cfg.Risk.HotspotThreshold != 250 {
		t.Errorf("Risk.HotspotThreshold: got %d, want 250", cfg.Risk.HotspotThreshold)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port: got %d, want 7070", cfg.API.Port)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want json", cfg.Logging.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Forecast.BaseConfidence != 60 {
		t.Errorf("Forecast.BaseConfidence: got %d, want default 60", cfg.Forecast.BaseConfidence)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
