// Package pipeline sequences one reconciliation run: it derives the query
// windows and file names, runs each configured branch and reports what each
// branch produced.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/dentalrecon/internal/domain/appointment"
	"github.com/ehr/dentalrecon/internal/domain/outreach"
	"github.com/ehr/dentalrecon/internal/domain/reconcile"
	"github.com/ehr/dentalrecon/internal/platform/export"
)

// WorkbookWriter writes ordered sheets to one workbook file.
type WorkbookWriter interface {
	WriteWorkbook(path string, sheets []export.Sheet) error
}

// OutreachWriter writes an outreach list to one file.
type OutreachWriter interface {
	WriteOutreach(path string, records []outreach.Record) error
}

// Writers are the export collaborators. A nil writer fails the branches that
// need it.
type Writers struct {
	Workbook        WorkbookWriter
	OutreachCSV     OutreachWriter
	OutreachParquet OutreachWriter
}

// Status is the outcome of one branch.
type Status string

const (
	StatusWritten Status = "written"
	StatusNoData  Status = "no-data"
	StatusFailed  Status = "failed"
)

// BranchResult describes one branch of a run.
type BranchResult struct {
	Target Target `json:"target"`
	Status Status `json:"status"`
	Path   string `json:"path,omitempty"`
	Rows   int    `json:"rows"`
	Err    error  `json:"-"`
}

// Summary lists every branch of a run in execution order.
type Summary struct {
	RunID     string         `json:"run_id"`
	EventDate time.Time      `json:"event_date"`
	Branches  []BranchResult `json:"branches"`
}

// Branch returns the result for target, if it ran.
func (s Summary) Branch(t Target) (BranchResult, bool) {
	for _, b := range s.Branches {
		if b.Target == t {
			return b, true
		}
	}
	return BranchResult{}, false
}

// Failed reports whether any branch failed.
func (s Summary) Failed() bool {
	for _, b := range s.Branches {
		if b.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Orchestrator runs the configured branches against a source.
type Orchestrator struct {
	cfg     Config
	source  appointment.Source
	writers Writers
	logger  zerolog.Logger
}

// New creates an orchestrator.
func New(cfg Config, source appointment.Source, writers Writers, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, source: source, writers: writers, logger: logger}
}

// Config returns the orchestrator's configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// Run executes every configured target for eventDate. runTime anchors the
// recent-visit window. Branches run in order and independently: a failed
// branch is recorded and the rest still run. The returned error joins the
// errors of every failed branch.
func (o *Orchestrator) Run(ctx context.Context, eventDate, runTime time.Time) (Summary, error) {
	r := o.newRun(ctx, eventDate, runTime)
	summary := Summary{RunID: r.id, EventDate: r.eventDate}

	r.log.Info().
		Int("window_days", o.cfg.windowDays()).
		Str("recent_since", DateToken(r.since)).
		Int("targets", len(o.cfg.Targets)).
		Msg("run started")

	var errs []error
	for _, t := range o.cfg.Targets {
		res := r.branch(t)
		summary.Branches = append(summary.Branches, res)

		ev := r.log.With().Str("target", string(t)).Logger()
		switch res.Status {
		case StatusWritten:
			ev.Info().Str("path", res.Path).Int("rows", res.Rows).Msg("report written")
		case StatusNoData:
			ev.Warn().Msg("no data, nothing written")
		case StatusFailed:
			ev.Error().Err(res.Err).Str("path", res.Path).Msg("branch failed")
			errs = append(errs, fmt.Errorf("%s: %w", t, res.Err))
		}
	}

	r.log.Info().Bool("failed", summary.Failed()).Msg("run finished")
	return summary, errors.Join(errs...)
}

// ReconciliationReport is the classification of one event date's dental
// patients, for display.
type ReconciliationReport struct {
	EventDate      string   `json:"event_date"`
	RecentSince    string   `json:"recent_since"`
	DentalPatients int      `json:"dental_patients"`
	Both           []string `json:"both"`
	Overdue        []string `json:"overdue"`
	// Degraded is set when a query failed and the report was computed
	// from empty input in its place.
	Degraded bool `json:"degraded,omitempty"`
}

// OutreachList is the derived outreach list of one event date.
type OutreachList struct {
	Records  []outreach.Record
	Degraded bool
}

// Reconciliation classifies the dental patients of eventDate without writing
// anything. Missing data yields an empty report.
func (o *Orchestrator) Reconciliation(ctx context.Context, eventDate, runTime time.Time) ReconciliationReport {
	r := o.newRun(ctx, eventDate, runTime)
	dental := reconcile.FromRecords(r.dental())
	res := reconcile.Reconcile(dental, r.recentMedical(), r.allMedical())
	return ReconciliationReport{
		EventDate:      DateToken(r.eventDate),
		RecentSince:    DateToken(r.since),
		DentalPatients: dental.Len(),
		Both:           res.Both.Sorted(),
		Overdue:        res.Overdue.Sorted(),
		Degraded:       r.degraded,
	}
}

// Outreach derives the outreach list for eventDate without writing it.
func (o *Orchestrator) Outreach(ctx context.Context, eventDate time.Time) (OutreachList, error) {
	r := o.newRun(ctx, eventDate, time.Now())
	records, err := outreach.Derive(r.dental(), o.outreachOptions())
	if err != nil {
		return OutreachList{}, err
	}
	return OutreachList{Records: records, Degraded: r.degraded}, nil
}

func (o *Orchestrator) outreachOptions() outreach.Options {
	return outreach.Options{
		LocationFilter:  o.cfg.LocationFilter,
		DigitsOnlyPhone: o.cfg.DigitsOnlyPhone,
	}
}

func (o *Orchestrator) newRun(ctx context.Context, eventDate, runTime time.Time) *run {
	id := uuid.NewString()
	day := Day(eventDate)
	return &run{
		o:         o,
		ctx:       ctx,
		id:        id,
		eventDate: day,
		runTime:   runTime,
		since:     RecentSince(runTime, o.cfg.windowDays()),
		log: o.logger.With().
			Str("run_id", id).
			Str("event_date", DateToken(day)).
			Logger(),
	}
}
