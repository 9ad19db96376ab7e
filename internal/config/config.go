package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

// Output targets select the report branches a run produces.
const (
	TargetComparison      = "comparison"
	TargetBookings        = "bookings"
	TargetMedical         = "medical"
	TargetOutreachCSV     = "outreach-csv"
	TargetOutreachParquet = "outreach-parquet"
)

// KnownTargets lists every valid output target in run order.
var KnownTargets = []string{
	TargetComparison,
	TargetBookings,
	TargetMedical,
	TargetOutreachCSV,
	TargetOutreachParquet,
}

type Config struct {
	DatabaseURL           string        `mapstructure:"DATABASE_URL"`
	DBDriver              string        `mapstructure:"DB_DRIVER"`
	DBMaxConns            int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns            int32         `mapstructure:"DB_MIN_CONNS"`
	Env                   string        `mapstructure:"ENV"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	ReportDir             string        `mapstructure:"REPORT_DIR"`
	OutreachDir           string        `mapstructure:"OUTREACH_DIR"`
	DentalLocationPattern string        `mapstructure:"DENTAL_LOCATION_PATTERN"`
	OutreachLocation      string        `mapstructure:"OUTREACH_LOCATION_FILTER"`
	CampaignName          string        `mapstructure:"CAMPAIGN_NAME"`
	DigitsOnlyPhone       bool          `mapstructure:"DIGITS_ONLY_PHONE"`
	OutputTargets         []string      `mapstructure:"OUTPUT_TARGETS"`
	RecentWindowDays      int           `mapstructure:"RECENT_WINDOW_DAYS"`
	ComparisonPrefix      string        `mapstructure:"COMPARISON_PREFIX"`
	BookingsPrefix        string        `mapstructure:"BOOKINGS_PREFIX"`
	MedicalPrefix         string        `mapstructure:"MEDICAL_PREFIX"`
	Port                  string        `mapstructure:"PORT"`
	ReportCacheTTL        time.Duration `mapstructure:"REPORT_CACHE_TTL"`
}

var keys = []string{
	"DATABASE_URL", "DB_DRIVER", "DB_MAX_CONNS", "DB_MIN_CONNS", "ENV", "LOG_LEVEL",
	"REPORT_DIR", "OUTREACH_DIR", "DENTAL_LOCATION_PATTERN", "OUTREACH_LOCATION_FILTER",
	"CAMPAIGN_NAME", "DIGITS_ONLY_PHONE", "OUTPUT_TARGETS", "RECENT_WINDOW_DAYS",
	"COMPARISON_PREFIX", "BOOKINGS_PREFIX", "MEDICAL_PREFIX", "PORT", "REPORT_CACHE_TTL",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("DB_DRIVER", DriverPgx)
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REPORT_DIR", "reports")
	v.SetDefault("OUTREACH_DIR", "reports/outreach")
	v.SetDefault("DENTAL_LOCATION_PATTERN", "Dental")
	v.SetDefault("OUTREACH_LOCATION_FILTER", "")
	v.SetDefault("CAMPAIGN_NAME", "Dental_Outreach")
	v.SetDefault("DIGITS_ONLY_PHONE", false)
	v.SetDefault("OUTPUT_TARGETS", "comparison,bookings,outreach-csv")
	v.SetDefault("RECENT_WINDOW_DAYS", 182)
	v.SetDefault("COMPARISON_PREFIX", "MRN_Comparison")
	v.SetDefault("BOOKINGS_PREFIX", "Mobile_Dental_Bookings")
	v.SetDefault("MEDICAL_PREFIX", "Kept_Medical_Appointments")
	v.SetDefault("PORT", "8000")
	v.SetDefault("REPORT_CACHE_TTL", "10m")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.OutputTargets = ParseTargets(v.GetString("OUTPUT_TARGETS"))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// ParseTargets splits a comma-separated target list, dropping blanks.
func ParseTargets(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, strings.ToLower(t))
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the configured log level, defaulting to info when the value
// does not parse.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.DBDriver != DriverPgx && c.DBDriver != DriverPostgres {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPgx, DriverPostgres, c.DBDriver)
	}
	if c.RecentWindowDays <= 0 {
		return fmt.Errorf("RECENT_WINDOW_DAYS must be positive, got %d", c.RecentWindowDays)
	}
	if len(c.OutputTargets) == 0 {
		return fmt.Errorf("OUTPUT_TARGETS must name at least one target")
	}
	for _, t := range c.OutputTargets {
		if !isKnownTarget(t) {
			return fmt.Errorf("unknown output target %q (valid: %s)", t, strings.Join(KnownTargets, ", "))
		}
	}
	if strings.TrimSpace(c.DentalLocationPattern) == "" {
		return fmt.Errorf("DENTAL_LOCATION_PATTERN is required")
	}
	if strings.TrimSpace(c.CampaignName) == "" && (c.HasTarget(TargetOutreachCSV) || c.HasTarget(TargetOutreachParquet)) {
		return fmt.Errorf("CAMPAIGN_NAME is required for outreach targets")
	}
	if c.ReportDir == "" || c.OutreachDir == "" {
		return fmt.Errorf("REPORT_DIR and OUTREACH_DIR are required")
	}
	// Zero disables the report cache.
	if c.ReportCacheTTL < 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must not be negative, got %s", c.ReportCacheTTL)
	}
	return nil
}

// HasTarget reports whether target is enabled.
func (c *Config) HasTarget(target string) bool {
	for _, t := range c.OutputTargets {
		if t == target {
			return true
		}
	}
	return false
}

func isKnownTarget(t string) bool {
	for _, k := range KnownTargets {
		if k == t {
			return true
		}
	}
	return false
}
