package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/dentalrecon/internal/domain/appointment"
	"github.com/ehr/dentalrecon/internal/domain/outreach"
	"github.com/ehr/dentalrecon/internal/domain/reconcile"
	"github.com/ehr/dentalrecon/internal/platform/export"
)

var errNoWriter = errors.New("no writer configured")

// run holds the state of one execution. Query results are fetched at most
// once and shared by the branches that need them.
type run struct {
	o         *Orchestrator
	ctx       context.Context
	id        string
	eventDate time.Time
	runTime   time.Time
	since     time.Time
	log       zerolog.Logger

	dentalSet *appointment.RecordSet
	recentSet *appointment.RecordSet
	allSet    *appointment.RecordSet

	// degraded is set once any query failed.
	degraded bool
}

func (r *run) branch(t Target) BranchResult {
	switch t {
	case TargetComparison:
		return r.comparison()
	case TargetBookings:
		return r.bookings()
	case TargetMedical:
		return r.medical()
	case TargetOutreachCSV:
		return r.outreach(t, r.o.writers.OutreachCSV, outreachCSVExt)
	case TargetOutreachParquet:
		return r.outreach(t, r.o.writers.OutreachParquet, outreachParquetExt)
	}
	return BranchResult{Target: t, Status: StatusFailed, Err: errors.New("unknown target")}
}

func (r *run) comparison() BranchResult {
	res := BranchResult{Target: TargetComparison}
	dental := r.dental()
	if dental.Len() == 0 {
		return noData(res)
	}

	rec := reconcile.Reconcile(reconcile.FromRecords(dental), r.recentMedical(), r.allMedical())
	both := appointment.SortForDisplay(reconcile.Rows(dental, rec.Both))
	overdue := appointment.SortForDisplay(reconcile.Rows(dental, rec.Overdue))
	r.log.Info().
		Int("dental", dental.Len()).
		Int("both", rec.Both.Len()).
		Int("overdue", rec.Overdue.Len()).
		Msg("populations reconciled")

	res.Path = joinPath(r.o.cfg.ReportDir, WorkbookName(r.o.cfg.ComparisonPrefix, DateToken(r.eventDate)))
	res.Rows = both.Len() + overdue.Len()
	return r.writeWorkbook(res, []export.Sheet{
		{Name: SheetSeenInBoth, Table: ToTable(both)},
		{Name: SheetOverdue, Table: ToTable(overdue)},
	})
}

func (r *run) bookings() BranchResult {
	res := BranchResult{Target: TargetBookings}
	dental := r.dental()
	if dental.Len() == 0 {
		return noData(res)
	}
	sorted := appointment.SortForDisplay(dental)
	res.Path = joinPath(r.o.cfg.ReportDir, WorkbookName(r.o.cfg.BookingsPrefix, DateToken(r.eventDate)))
	res.Rows = sorted.Len()
	return r.writeWorkbook(res, []export.Sheet{{Name: SheetBookings, Table: ToTable(sorted)}})
}

func (r *run) medical() BranchResult {
	res := BranchResult{Target: TargetMedical}
	set := r.recentRecords()
	if set.Len() == 0 {
		return noData(res)
	}
	token := RangeToken(r.since, Day(r.runTime))
	res.Path = joinPath(r.o.cfg.ReportDir, WorkbookName(r.o.cfg.MedicalPrefix, token))
	res.Rows = set.Len()
	return r.writeWorkbook(res, []export.Sheet{{Name: SheetRecentMedical, Table: ToTable(set)}})
}

func (r *run) outreach(t Target, w OutreachWriter, ext string) BranchResult {
	res := BranchResult{Target: t}
	dental := r.dental()
	if dental.Len() == 0 {
		return noData(res)
	}
	records, err := outreach.Derive(dental, r.o.outreachOptions())
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	if len(records) == 0 {
		return noData(res)
	}

	res.Path = joinPath(r.o.cfg.OutreachDir, OutreachName(r.o.cfg.CampaignName, DateToken(r.eventDate), ext))
	res.Rows = len(records)
	if w == nil {
		return exportFailed(res, errNoWriter)
	}
	if err := w.WriteOutreach(res.Path, records); err != nil {
		return exportFailed(res, err)
	}
	res.Status = StatusWritten
	return res
}

func (r *run) writeWorkbook(res BranchResult, sheets []export.Sheet) BranchResult {
	w := r.o.writers.Workbook
	if w == nil {
		return exportFailed(res, errNoWriter)
	}
	if err := w.WriteWorkbook(res.Path, sheets); err != nil {
		return exportFailed(res, err)
	}
	res.Status = StatusWritten
	return res
}

func noData(res BranchResult) BranchResult {
	res.Status, res.Err = StatusNoData, ErrNoData
	return res
}

func exportFailed(res BranchResult, err error) BranchResult {
	res.Status = StatusFailed
	res.Err = &ExportError{Target: res.Target, Path: res.Path, Err: err}
	return res
}

func (r *run) dental() appointment.RecordSet {
	if r.dentalSet == nil {
		rs, err := r.o.source.DentalAppointments(r.ctx, r.eventDate, r.o.cfg.DentalLocationPattern)
		r.dentalSet = r.normalize("dental appointments", rs, err)
	}
	return *r.dentalSet
}

func (r *run) recentRecords() appointment.RecordSet {
	if r.recentSet == nil {
		since := r.since
		rs, err := r.o.source.KeptMedicalMRNs(r.ctx, r.o.cfg.DentalLocationPattern, &since)
		r.recentSet = r.normalize("recent medical visits", rs, err)
	}
	return *r.recentSet
}

func (r *run) recentMedical() reconcile.IdentitySet {
	return reconcile.FromRecords(r.recentRecords())
}

func (r *run) allMedical() reconcile.IdentitySet {
	if r.allSet == nil {
		rs, err := r.o.source.KeptMedicalMRNs(r.ctx, r.o.cfg.DentalLocationPattern, nil)
		r.allSet = r.normalize("all medical visits", rs, err)
	}
	return reconcile.FromRecords(*r.allSet)
}

// normalize converts a query result. A failed query is logged and treated
// like an empty one, and marks the run degraded.
func (r *run) normalize(query string, rs appointment.ResultSet, err error) *appointment.RecordSet {
	if err != nil {
		r.log.Error().Err(err).Str("query", query).Msg("query failed, treating as no data")
		r.degraded = true
		rs = appointment.ResultSet{}
	}
	set := appointment.Normalize(rs)
	r.log.Debug().Str("query", query).Int("rows", set.Len()).Msg("query complete")
	return &set
}

// ToTable lays out a record set for export in its query column order.
func ToTable(set appointment.RecordSet) export.Table {
	t := export.Table{
		Columns: append([]string(nil), set.Columns...),
		Rows:    make([][]interface{}, 0, set.Len()),
	}
	for i := range set.Records {
		row := make([]interface{}, len(set.Columns))
		for j, col := range set.Columns {
			row[j] = set.Records[i].Value(col)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
