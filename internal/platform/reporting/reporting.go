package reporting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/ehr/dentalrecon/internal/domain/appointment"
	"github.com/ehr/dentalrecon/internal/domain/outreach"
	"github.com/ehr/dentalrecon/internal/pipeline"
	"github.com/ehr/dentalrecon/internal/platform/prompt"
	"github.com/ehr/dentalrecon/pkg/pagination"
)

// ReportDefinition describes one report the API serves.
type ReportDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`
}

// AvailableReports lists the reports served under /reports.
var AvailableReports = []ReportDefinition{
	{
		ID:          "reconciliation",
		Name:        "Dental / Medical Reconciliation",
		Description: "Dental patients on the event date seen in medical at any time, and those without a recent kept medical visit",
		Parameters:  []string{"date"},
	},
	{
		ID:          "outreach",
		Name:        "Outreach Contact List",
		Description: "Deduplicated contact list of the event date's dental patients with a cell phone",
		Parameters:  []string{"date", "_count", "_offset"},
	},
}

// Reports computes report bodies. *pipeline.Orchestrator implements it.
type Reports interface {
	Reconciliation(ctx context.Context, eventDate, runTime time.Time) pipeline.ReconciliationReport
	Outreach(ctx context.Context, eventDate time.Time) (pipeline.OutreachList, error)
}

// Handler provides HTTP handlers for the reporting API. Computed reports are
// cached per report and date. Reports computed while a query failed are
// never cached.
type Handler struct {
	reports Reports
	cache   *cache.Cache
	now     func() time.Time
}

// NewHandler creates a new reporting handler whose cache entries live for ttl.
// A ttl of zero or less disables caching.
func NewHandler(reports Reports, ttl time.Duration) *Handler {
	h := &Handler{
		reports: reports,
		now:     time.Now,
	}
	if ttl > 0 {
		h.cache = cache.New(ttl, 2*ttl)
	}
	return h
}

func (h *Handler) lookup(key string) (interface{}, bool) {
	if h.cache == nil {
		return nil, false
	}
	return h.cache.Get(key)
}

func (h *Handler) store(key string, v interface{}) {
	if h.cache != nil {
		h.cache.SetDefault(key, v)
	}
}

// RegisterRoutes registers the reporting API routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reports")
	g.GET("", h.ListReports)
	g.GET("/reconciliation", h.Reconciliation)
	g.GET("/outreach", h.Outreach)
}

// ListReports returns the report definitions.
func (h *Handler) ListReports(c echo.Context) error {
	return c.JSON(http.StatusOK, AvailableReports)
}

// Reconciliation returns the population counts and MRN lists for ?date=.
func (h *Handler) Reconciliation(c echo.Context) error {
	eventDate, err := dateParam(c)
	if err != nil {
		return err
	}
	now := h.now()
	// The recent window is anchored on the day the report is computed.
	key := fmt.Sprintf("reconciliation:%s:%s", eventDate.Format(prompt.DateLayout), now.Format(prompt.DateLayout))
	if cached, ok := h.lookup(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	report := h.reports.Reconciliation(c.Request().Context(), eventDate, now)
	if err := c.Request().Context().Err(); err != nil {
		return err
	}
	if !report.Degraded {
		h.store(key, report)
	}
	return c.JSON(http.StatusOK, report)
}

// Outreach returns one page of the outreach list for ?date=.
func (h *Handler) Outreach(c echo.Context) error {
	eventDate, err := dateParam(c)
	if err != nil {
		return err
	}
	key := "outreach:" + eventDate.Format(prompt.DateLayout)

	var records []outreach.Record
	if cached, ok := h.lookup(key); ok {
		records = cached.([]outreach.Record)
	} else {
		list, err := h.reports.Outreach(c.Request().Context(), eventDate)
		if errors.Is(err, appointment.ErrMissingField) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("derive outreach: %v", err))
		}
		if err := c.Request().Context().Err(); err != nil {
			return err
		}
		records = list.Records
		if records == nil {
			records = []outreach.Record{}
		}
		if !list.Degraded {
			h.store(key, records)
		}
	}

	p := pagination.FromContext(c)
	start, end := p.Window(len(records))
	resp := pagination.NewResponse(records[start:end], len(records), p.Limit, p.Offset)
	resp.Links = p.Links(c.Request().URL.Path, url.Values{"date": {c.QueryParam("date")}}, len(records))
	return c.JSON(http.StatusOK, resp)
}

func dateParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "date is required (YYYYMMDD)")
	}
	d, err := prompt.ParseDate(raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid date %q: use YYYYMMDD", raw))
	}
	return d, nil
}
