package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/dentalrecon/internal/config"
	"github.com/ehr/dentalrecon/internal/domain/appointment"
	"github.com/ehr/dentalrecon/internal/pipeline"
	"github.com/ehr/dentalrecon/internal/platform/db"
	"github.com/ehr/dentalrecon/internal/platform/export"
	"github.com/ehr/dentalrecon/internal/platform/prompt"
)

type options struct {
	date       string
	targets    string
	campaign   string
	location   string
	digitsOnly bool
}

// targetSelector picks the targets a subcommand runs from the loaded config.
type targetSelector func(cfg *config.Config) []string

func targetsConfigured(cfg *config.Config) []string { return cfg.OutputTargets }

func targetsReconcile(*config.Config) []string { return []string{config.TargetComparison} }

func targetsBookings(*config.Config) []string { return []string{config.TargetBookings} }

// targetsOutreach keeps the configured outreach formats, CSV when none is.
func targetsOutreach(cfg *config.Config) []string {
	var out []string
	for _, t := range cfg.OutputTargets {
		if t == config.TargetOutreachCSV || t == config.TargetOutreachParquet {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = []string{config.TargetOutreachCSV}
	}
	return out
}

// applyOverrides folds command-line flags into the loaded configuration.
func applyOverrides(cfg *config.Config, opts *options, flagSet func(string) bool) {
	if opts.targets != "" {
		cfg.OutputTargets = config.ParseTargets(opts.targets)
	}
	if opts.campaign != "" {
		cfg.CampaignName = opts.campaign
	}
	if flagSet("location") {
		cfg.OutreachLocation = opts.location
	}
	if flagSet("digits-only") {
		cfg.DigitsOnlyPhone = opts.digitsOnly
	}
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func pipelineConfig(cfg *config.Config, targets []string) pipeline.Config {
	pc := pipeline.Config{
		ReportDir:             cfg.ReportDir,
		OutreachDir:           cfg.OutreachDir,
		DentalLocationPattern: cfg.DentalLocationPattern,
		LocationFilter:        cfg.OutreachLocation,
		CampaignName:          cfg.CampaignName,
		DigitsOnlyPhone:       cfg.DigitsOnlyPhone,
		RecentWindowDays:      cfg.RecentWindowDays,
		ComparisonPrefix:      cfg.ComparisonPrefix,
		BookingsPrefix:        cfg.BookingsPrefix,
		MedicalPrefix:         cfg.MedicalPrefix,
	}
	for _, t := range targets {
		pc.Targets = append(pc.Targets, pipeline.Target(t))
	}
	return pc
}

func writers() pipeline.Writers {
	return pipeline.Writers{
		Workbook:        export.NewXLSXWriter(),
		OutreachCSV:     export.NewOutreachCSV(),
		OutreachParquet: export.NewOutreachParquet(),
	}
}

// resolveDate parses --date or, when it is empty, prompts for the date.
func resolveDate(raw string, in io.Reader, out io.Writer) (time.Time, error) {
	if raw != "" {
		return prompt.ParseDate(raw)
	}
	return prompt.NewDatePrompter(in, out).Date("Enter the dental event date")
}

// database bundles the query source with what the health check needs.
type database struct {
	source appointment.Source
	pinger db.Pinger
	stats  func() *db.PoolStats
	close  func()
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		x, err := db.NewSQLX(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, err
		}
		return &database{
			source: appointment.NewSourceSQLX(x),
			pinger: db.PingFunc(x.PingContext),
			stats:  func() *db.PoolStats { return db.GetSQLStats(x) },
			close:  func() { x.Close() },
		}, nil
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		return &database{
			source: appointment.NewSourcePG(pool),
			pinger: pool,
			stats:  func() *db.PoolStats { return db.GetPoolStats(pool) },
			close:  pool.Close,
		}, nil
	}
}

func loadConfig(cmd *cobra.Command, opts *options, selectTargets targetSelector) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flagSet := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if err := prepareConfig(cfg, opts, flagSet, selectTargets); err != nil {
		return nil, err
	}
	return cfg, nil
}

// prepareConfig applies flag overrides, narrows OutputTargets to the
// subcommand's selection and validates the result. The targets that run are
// the targets that get validated.
func prepareConfig(cfg *config.Config, opts *options, flagSet func(string) bool, selectTargets targetSelector) error {
	if opts != nil {
		applyOverrides(cfg, opts, flagSet)
	}
	if selectTargets != nil {
		cfg.OutputTargets = selectTargets(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func runReports(cmd *cobra.Command, opts *options, selectTargets targetSelector) error {
	cfg, err := loadConfig(cmd, opts, selectTargets)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	eventDate, err := resolveDate(opts.date, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	dbase, err := openDatabase(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer dbase.close()

	orch := pipeline.New(pipelineConfig(cfg, cfg.OutputTargets), dbase.source, writers(), logger)
	summary, runErr := orch.Run(ctx, eventDate, time.Now())
	printSummary(cmd.OutOrStdout(), summary)
	return runErr
}

func printSummary(w io.Writer, s pipeline.Summary) {
	fmt.Fprintf(w, "Run %s for %s\n", s.RunID, pipeline.DateToken(s.EventDate))
	for _, b := range s.Branches {
		switch b.Status {
		case pipeline.StatusWritten:
			fmt.Fprintf(w, "  [written] %-16s %d rows -> %s\n", b.Target, b.Rows, b.Path)
		case pipeline.StatusNoData:
			fmt.Fprintf(w, "  [no data] %-16s\n", b.Target)
		default:
			fmt.Fprintf(w, "  [failed]  %-16s %v\n", b.Target, b.Err)
		}
	}
}
