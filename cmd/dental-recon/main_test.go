package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/dentalrecon/internal/config"
	"github.com/ehr/dentalrecon/internal/pipeline"
	"github.com/ehr/dentalrecon/internal/platform/db"
	"github.com/ehr/dentalrecon/internal/platform/middleware"
	"github.com/ehr/dentalrecon/internal/platform/reporting"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"run": false, "reconcile": false, "bookings": false, "outreach": false, "serve": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected subcommand %q", name)
		}
	}
	for _, flag := range []string{"date", "campaign", "location", "digits-only"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag --%s", flag)
		}
	}
}

func TestTargetSelectors(t *testing.T) {
	cfg := &config.Config{OutputTargets: []string{config.TargetBookings, config.TargetOutreachParquet}}

	if got := strings.Join(targetsConfigured(cfg), ","); got != "bookings,outreach-parquet" {
		t.Errorf("configured = %s", got)
	}
	if got := strings.Join(targetsReconcile(cfg), ","); got != "comparison" {
		t.Errorf("reconcile = %s", got)
	}
	if got := strings.Join(targetsBookings(cfg), ","); got != "bookings" {
		t.Errorf("bookings = %s", got)
	}
	if got := strings.Join(targetsOutreach(cfg), ","); got != "outreach-parquet" {
		t.Errorf("outreach = %s", got)
	}
	if got := strings.Join(targetsOutreach(&config.Config{}), ","); got != "outreach-csv" {
		t.Errorf("outreach default = %s", got)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{
		OutputTargets:    []string{config.TargetComparison},
		CampaignName:     "Dental_Outreach",
		OutreachLocation: "Goleta Dental",
	}
	opts := &options{targets: "bookings, medical", campaign: "Spring_Recall", location: "", digitsOnly: true}
	set := map[string]bool{"location": true, "digits-only": true}

	applyOverrides(cfg, opts, func(name string) bool { return set[name] })

	if got := strings.Join(cfg.OutputTargets, ","); got != "bookings,medical" {
		t.Errorf("targets = %s", got)
	}
	if cfg.CampaignName != "Spring_Recall" {
		t.Errorf("campaign = %s", cfg.CampaignName)
	}
	if cfg.OutreachLocation != "" {
		t.Errorf("expected explicit empty location to clear the filter, got %q", cfg.OutreachLocation)
	}
	if !cfg.DigitsOnlyPhone {
		t.Error("expected digits-only to be enabled")
	}
}

func TestApplyOverrides_UnsetFlagsKeepConfig(t *testing.T) {
	cfg := &config.Config{OutreachLocation: "Goleta Dental", DigitsOnlyPhone: true}
	applyOverrides(cfg, &options{}, func(string) bool { return false })
	if cfg.OutreachLocation != "Goleta Dental" || !cfg.DigitsOnlyPhone {
		t.Errorf("expected config values kept, got %+v", cfg)
	}
}

func preparedConfig() *config.Config {
	return &config.Config{
		DBDriver:              config.DriverPgx,
		RecentWindowDays:      182,
		OutputTargets:         []string{config.TargetComparison},
		DentalLocationPattern: "Dental",
		ReportDir:             "reports",
		OutreachDir:           "reports/outreach",
	}
}

func TestPrepareConfig_ValidatesSelectedTargets(t *testing.T) {
	noFlags := func(string) bool { return false }

	cfg := preparedConfig()
	if err := prepareConfig(cfg, &options{}, noFlags, targetsOutreach); err == nil {
		t.Error("expected outreach without a campaign name to be rejected")
	}

	cfg = preparedConfig()
	if err := prepareConfig(cfg, &options{}, noFlags, targetsReconcile); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg = preparedConfig()
	if err := prepareConfig(cfg, &options{campaign: "Spring_Recall"}, noFlags, targetsOutreach); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(cfg.OutputTargets, ","); got != config.TargetOutreachCSV {
		t.Errorf("expected selected targets kept on the config, got %s", got)
	}
}

func TestPrepareConfig_NoSelectorKeepsConfiguredTargets(t *testing.T) {
	cfg := preparedConfig()
	cfg.OutputTargets = []string{config.TargetComparison, config.TargetBookings}
	if err := prepareConfig(cfg, nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.OutputTargets) != 2 {
		t.Errorf("expected configured targets kept, got %v", cfg.OutputTargets)
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg := &config.Config{
		ReportDir:             "out",
		OutreachDir:           "out/outreach",
		DentalLocationPattern: "Dental",
		OutreachLocation:      "Goleta",
		CampaignName:          "C",
		RecentWindowDays:      90,
		ComparisonPrefix:      "MRN_Comparison",
	}
	pc := pipelineConfig(cfg, []string{config.TargetComparison, config.TargetMedical})
	if pc.LocationFilter != "Goleta" || pc.RecentWindowDays != 90 || pc.ComparisonPrefix != "MRN_Comparison" {
		t.Errorf("unexpected pipeline config %+v", pc)
	}
	if len(pc.Targets) != 2 || pc.Targets[0] != pipeline.TargetComparison || pc.Targets[1] != pipeline.TargetMedical {
		t.Errorf("unexpected targets %v", pc.Targets)
	}
}

func TestResolveDate(t *testing.T) {
	d, err := resolveDate("20240320", strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %s", d)
	}

	if _, err := resolveDate("2024-03-20", strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Error("expected error for malformed --date")
	}

	var out bytes.Buffer
	d, err = resolveDate("", strings.NewReader("bad\n20240101\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Format("20060102") != "20240101" {
		t.Errorf("unexpected prompted date %s", d)
	}
	if !strings.Contains(out.String(), "Invalid format") {
		t.Errorf("expected re-prompt message, got %q", out.String())
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, pipeline.Summary{
		RunID:     "run-1",
		EventDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Branches: []pipeline.BranchResult{
			{Target: pipeline.TargetBookings, Status: pipeline.StatusWritten, Rows: 3, Path: "reports/b.xlsx"},
			{Target: pipeline.TargetMedical, Status: pipeline.StatusNoData},
			{Target: pipeline.TargetOutreachCSV, Status: pipeline.StatusFailed, Err: errors.New("disk full")},
		},
	})
	out := buf.String()
	for _, want := range []string{"run-1", "2024-03-20", "[written]", "reports/b.xlsx", "[no data]", "[failed]", "disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

type stubReports struct{}

func (stubReports) Reconciliation(ctx context.Context, eventDate, runTime time.Time) pipeline.ReconciliationReport {
	return pipeline.ReconciliationReport{EventDate: pipeline.DateToken(eventDate), Both: []string{}, Overdue: []string{}}
}

func (stubReports) Outreach(ctx context.Context, eventDate time.Time) (pipeline.OutreachList, error) {
	return pipeline.OutreachList{}, nil
}

func testServer() http.Handler {
	dbase := &database{
		pinger: db.PingFunc(func(ctx context.Context) error { return nil }),
		stats:  func() *db.PoolStats { return &db.PoolStats{MaxConns: 4} },
		close:  func() {},
	}
	return newServer(zerolog.Nop(), dbase, reporting.NewHandler(stubReports{}, time.Minute))
}

func TestServer_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestServer_Reports(t *testing.T) {
	h := testServer()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/reconciliation?date=20240320", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"event_date":"2024-03-20"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected no-store on report responses")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/outreach?date=2024", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad date, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for report list, got %d", rec.Code)
	}
}
