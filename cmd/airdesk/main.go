// AirDesk — rule-based air-quality decision engine for Delhi-NCR.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ShivamGupta789/AI-pollution-decision-platform/api"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/aqi"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/attribution"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/forecast"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/policy"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/risk"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/analysis/trend"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/config"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/internal/datasource"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/models"
	"github.com/ShivamGupta789/AI-pollution-decision-platform/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "airdesk",
	Short: "AirDesk — rule-based air-quality decision engine",
	Long: `AirDesk
A decision-support engine for urban air quality: composite index
calculation, source attribution, trend estimation, forecasting,
policy simulation, and city-wide risk detection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// newEngine wires the analysis components from the loaded config.
func newEngine() (datasource.Provider, *aqi.Calculator, *attribution.Attributor, *trend.Estimator) {
	calc := aqi.NewCalculator(aqi.DefaultConfig())
	attr := attribution.NewAttributor(attribution.DefaultConfig())
	est := trend.NewEstimator(trend.Config{Threshold: cfg.Engine.TrendThreshold})
	return datasource.NewSynthetic(cfg.Data.Seed), calc, attr, est
}

func newForecaster(calc *aqi.Calculator) *forecast.Forecaster {
	fcfg := forecast.DefaultConfig()
	fcfg.TrendThreshold = cfg.Engine.TrendThreshold
	if cfg.Forecast.NoiseAmplitude > 0 {
		fcfg.NoiseAmplitude = cfg.Forecast.NoiseAmplitude
	}
	if cfg.Forecast.BaseConfidence > 0 {
		fcfg.BaseConfidence = cfg.Forecast.BaseConfidence
	}
	var rng *rand.Rand
	if cfg.Forecast.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Forecast.Seed))
	}
	return forecast.NewForecaster(fcfg, calc, rng)
}

func historyIndices(ctx context.Context, provider datasource.Provider, calc *aqi.Calculator, id string) ([]int, error) {
	hours := cfg.Data.HistoryHours
	if hours <= 0 {
		hours = 48
	}
	readings, err := provider.History(ctx, id, hours)
	if err != nil {
		return nil, err
	}
	series := make([]int, len(readings))
	for i, r := range readings {
		series[i] = calc.Compute(r).AQI
	}
	return series, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("AirDesk %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Locations Command ---

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List monitored locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _, _, _ := newEngine()
		fmt.Println("📍 Monitored locations:")
		for _, loc := range provider.Locations() {
			fmt.Printf("  %-14s %-18s %s area, traffic %s, industry %s\n",
				loc.ID, loc.Name, loc.Area.Type, loc.Area.TrafficLevel, loc.Area.IndustrialLevel)
		}
		return nil
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [location]",
	Short: "Analyze current air quality for a location",
	Long:  "Compute the composite index, source attribution, and trend for one location, or all locations if none is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, calc, attr, est := newEngine()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		var readings []models.Reading
		if len(args) == 1 {
			r, err := provider.Current(ctx, args[0])
			if err != nil {
				return err
			}
			readings = append(readings, r)
		} else {
			all, err := provider.CurrentAll(ctx)
			if err != nil {
				return err
			}
			readings = all
		}

		for _, r := range readings {
			idx := calc.Compute(r)
			att := attr.Attribute(r)
			history, err := historyIndices(ctx, provider, calc, r.LocationID)
			if err != nil {
				return err
			}
			tr := est.Estimate(history)

			fmt.Printf("🔍 %s (%s)\n", r.Name, utils.FormatDateTimeIST(r.Timestamp))
			fmt.Printf("   AQI %d — %s (dominant: %s)\n", idx.AQI, idx.Category, idx.Dominant)
			fmt.Printf("   Trend: %s (slope %.1f/h)\n", tr.Direction, tr.Slope)
			fmt.Printf("   Sources:")
			for _, src := range models.AllSources {
				fmt.Printf(" %s %d%%", src, att.Shares[src])
			}
			fmt.Println()
			fmt.Printf("   %s\n\n", att.Explanation)
		}
		return nil
	},
}

// --- Forecast Command ---

var forecastCmd = &cobra.Command{
	Use:   "forecast [location]",
	Short: "Forecast air quality for a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, calc, _, _ := newEngine()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		current, err := provider.Current(ctx, args[0])
		if err != nil {
			return err
		}
		history, err := historyIndices(ctx, provider, calc, args[0])
		if err != nil {
			return err
		}

		f := newForecaster(calc)
		result := f.Forecast(current, history)

		fmt.Printf("🔮 Forecast for %s\n", current.Name)
		for _, h := range result.Horizons {
			fmt.Printf("   +%2dh: AQI %d — %s\n", h.Hours, h.Index.AQI, h.Index.Category)
		}
		fmt.Printf("   Confidence: %s (%d/100), trend %s\n",
			result.Confidence, result.ConfidenceScore, result.Trend)
		fmt.Printf("   %s\n", result.Explanation)

		for _, alert := range f.DetectSpikes(result) {
			fmt.Printf("   ⚠️  %s spike projected at +%dh (AQI %d)\n", alert.Severity, alert.Hours, alert.AQI)
		}
		return nil
	},
}

// --- Policies Command ---

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the intervention catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, calc, _, _ := newEngine()
		sim := policy.NewSimulator(calc, policy.DefaultCatalog())

		fmt.Println("📜 Intervention catalog:")
		for _, p := range sim.Policies() {
			window := "year-round"
			if len(p.Months) > 0 {
				names := make([]string, len(p.Months))
				for i, m := range p.Months {
					names[i] = m.String()[:3]
				}
				window = strings.Join(names, "/")
			}
			fmt.Printf("  %-28s %s\n", p.Key, p.Name)
			fmt.Printf("    %s\n", p.Description)
			fmt.Printf("    effectiveness %s, cost %s, acceptance %s, window %s\n",
				p.Effective, p.Cost, p.Acceptance, window)
		}
		return nil
	},
}

// --- Simulate Command ---

var simulateCmd = &cobra.Command{
	Use:   "simulate [location]",
	Short: "Simulate policy impact on a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, _ := cmd.Flags().GetStringSlice("policy")
		recommend, _ := cmd.Flags().GetBool("recommend")

		provider, calc, _, _ := newEngine()
		sim := policy.NewSimulator(calc, policy.DefaultCatalog())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		baseline, err := provider.Current(ctx, args[0])
		if err != nil {
			return err
		}

		if recommend {
			text, err := sim.Recommend(baseline, keys)
			if err != nil {
				return err
			}
			fmt.Printf("💡 %s\n", text)
			return nil
		}

		if len(keys) == 0 {
			return fmt.Errorf("provide at least one --policy, or use --recommend")
		}

		result, err := sim.Simulate(baseline, keys...)
		if err != nil {
			return err
		}

		fmt.Printf("🧪 Simulation for %s\n", baseline.Name)
		fmt.Printf("   AQI %d (%s) → %d (%s), improvement %d (%.1f%%)\n",
			result.Baseline.AQI, result.Baseline.Category,
			result.After.AQI, result.After.Category,
			result.Improvement, result.ImprovementPct)
		for _, app := range result.Policies {
			if app.Applied {
				fmt.Printf("   ✅ %s\n", app.Name)
			} else {
				fmt.Printf("   ⏭️  %s — %s\n", app.Name, app.Reason)
			}
		}
		for _, p := range models.AllPollutants {
			d := result.Deltas[p]
			if d.Before != d.After {
				fmt.Printf("   %-5s %.1f → %.1f\n", p, d.Before, d.After)
			}
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringSlice("policy", nil, "policy key to apply (repeatable)")
	simulateCmd.Flags().Bool("recommend", false, "recommend the most effective policy instead")
}

// --- Risk Command ---

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Run the city-wide risk scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, calc, attr, _ := newEngine()

		riskCfg := risk.DefaultConfig()
		if cfg.Risk.HotspotThreshold > 0 {
			riskCfg.HotspotThreshold = cfg.Risk.HotspotThreshold
		}
		if cfg.Risk.PeakWindows > 0 {
			riskCfg.PeakWindows = cfg.Risk.PeakWindows
		}
		detector := risk.NewDetector(riskCfg, calc, attr)

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		current, err := provider.CurrentAll(ctx)
		if err != nil {
			return err
		}
		hours := cfg.Data.HistoryHours
		if hours <= 0 {
			hours = 48
		}
		var history []models.Reading
		for _, loc := range provider.Locations() {
			past, err := provider.History(ctx, loc.ID, hours)
			if err != nil {
				return err
			}
			history = append(history, past...)
		}

		report, err := detector.Detect(ctx, current, history)
		if err != nil {
			return err
		}

		fmt.Printf("🚨 Risk report (%s)\n", utils.FormatDateTimeIST(report.GeneratedAt))
		fmt.Printf("   City average AQI %d, %d high-risk location(s)\n",
			report.Summary.AverageAQI, report.Summary.HighRiskCount)
		for _, h := range report.Hotspots {
			fmt.Printf("   🔥 %-18s AQI %d (%s, %s) — %s\n", h.Name, h.AQI, h.Category, h.Tier, h.MainCause)
		}
		if len(report.PeakWindows) > 0 {
			w := report.PeakWindows[0]
			fmt.Printf("   Peak hours: %s (avg AQI %d)\n", utils.FormatHourRange(w.StartHour, w.EndHour), w.AverageAQI)
		}
		if len(report.SafestWindows) > 0 {
			w := report.SafestWindows[0]
			fmt.Printf("   Safest hours: %s (avg AQI %d)\n", utils.FormatHourRange(w.StartHour, w.EndHour), w.AverageAQI)
		}
		fmt.Println("   For authorities:")
		for _, a := range report.AuthorityActions {
			fmt.Printf("     • %s\n", a)
		}
		fmt.Println("   For citizens:")
		for _, a := range report.CitizenAdvice {
			fmt.Printf("     • %s\n", a)
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		srv := api.NewServer(cfg, log)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  AirDesk — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  Time (IST):  %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Printf("  Season:      %s\n", utils.Season(utils.NowIST().Month()))
		fmt.Println()
		fmt.Println("  Configuration:")
		fmt.Printf("    Trend threshold:    %.1f\n", cfg.Engine.TrendThreshold)
		fmt.Printf("    Hotspot threshold:  %d\n", cfg.Risk.HotspotThreshold)
		fmt.Printf("    History window:     %dh\n", cfg.Data.HistoryHours)
		fmt.Printf("    API server:         %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Log level:          %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// newLogger builds the logrus logger from config plus the --log-level
// override.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()

	level := cfg.Logging.Level
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		level = override
	}
	if parsed, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	}

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
