package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"stationery/internal/core"
	applog "stationery/internal/log"
)

type summaryRow struct {
	Date        string
	Department  string
	Person      string
	Description string
	PartNumber  string
	UOM         string
	Quantity    int
	UnitPrice   string
	Total       string
	Remarks     string
}

type totalRow struct {
	Key   string
	Total string
}

type countRow struct {
	Key      string
	Quantity int
}

// handleSummary renders the filtered request and usage tables partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	params := ParseFilterParams(r.URL.Query())
	if html, found := s.summaryCache.Get(params.CacheKey()); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "department", params.Department, "month", params.Month)
		_, _ = w.Write([]byte(html))
		return
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary snapshot error", "error", err)
		_, _ = w.Write([]byte(`<section id="summary"><div class="placeholder">Error loading records</div></section>`))
		return
	}

	requests := core.FilterRequests(snap.Requests, params.Department, params.Month)
	usages := core.FilterUsages(snap.Usages, params.Department, params.Month)

	data := struct {
		Department string
		Month      string
		Requests   []summaryRow
		Usages     []summaryRow
		Total      string
	}{
		Department: params.Department,
		Month:      params.Month,
		Total:      formatAmount(core.GrandTotal(requests)),
	}
	for _, rec := range requests {
		data.Requests = append(data.Requests, summaryRow{
			Date:        rec.Date.Format("2006-01-02"),
			Department:  rec.Department,
			Person:      rec.Requester,
			Description: rec.Description,
			PartNumber:  rec.PartNumber,
			UOM:         rec.UOM,
			Quantity:    rec.Quantity,
			UnitPrice:   formatAmount(rec.UnitPrice),
			Total:       formatAmount(rec.Total),
			Remarks:     rec.Remarks,
		})
	}
	for _, u := range usages {
		data.Usages = append(data.Usages, summaryRow{
			Date:        u.Date.Format("2006-01-02"),
			Department:  u.Department,
			Person:      u.UsedBy,
			Description: u.Description,
			PartNumber:  u.PartNumber,
			UOM:         u.UOM,
			Quantity:    u.QuantityUsed,
			Remarks:     u.Remarks,
		})
	}

	s.renderCached(w, r, "summary.html", data, s.summaryCache, params.CacheKey())
}

// handleDashboard renders the aggregate dashboard partial: totals by
// department, the top requested items, monthly trend and grand total.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	params := ParseFilterParams(r.URL.Query())
	if html, found := s.dashboardCache.Get(params.CacheKey()); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "department", params.Department, "month", params.Month)
		_, _ = w.Write([]byte(html))
		return
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard snapshot error", "error", err)
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="placeholder">Error loading dashboard</div></section>`))
		return
	}

	requests := core.FilterRequests(snap.Requests, params.Department, params.Month)
	usages := core.FilterUsages(snap.Usages, params.Department, params.Month)

	data := struct {
		Department   string
		Month        string
		HasRequests  bool
		GrandTotal   string
		ByDepartment []totalRow
		TopItems     []totalRow
		ByMonth      []totalRow
		UsageByDept  []countRow
	}{
		Department:  params.Department,
		Month:       params.Month,
		HasRequests: len(requests) > 0,
		GrandTotal:  formatAmount(core.GrandTotal(requests)),
	}
	for _, row := range core.TotalsByDepartment(requests) {
		data.ByDepartment = append(data.ByDepartment, totalRow{Key: row.Key, Total: formatAmount(row.Total)})
	}
	for _, row := range core.TopItems(requests, 10) {
		data.TopItems = append(data.TopItems, totalRow{Key: row.Key, Total: formatAmount(row.Total)})
	}
	for _, row := range core.TotalsByMonth(requests) {
		data.ByMonth = append(data.ByMonth, totalRow{Key: row.Key, Total: formatAmount(row.Total)})
	}
	for _, row := range core.UsageByDepartment(usages) {
		data.UsageByDept = append(data.UsageByDept, countRow{Key: row.Key, Quantity: row.Quantity})
	}

	s.renderCached(w, r, "dashboard.html", data, s.dashboardCache, params.CacheKey())
}

// renderCached executes a template into a buffer so a successful render
// can be cached and written in one shot.
func (s *Server) renderCached(w http.ResponseWriter, r *http.Request, name string, data any, c interface {
	Set(key string, data string)
}, key string) {
	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="placeholder">templates not loaded</div>`))
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logs.LogError(r.Context(), "Template execution error", err,
			applog.ComponentTemplate, applog.OpRender, applog.NewFields())
		_, _ = w.Write([]byte(`<div class="placeholder">Error rendering view</div>`))
		return
	}
	c.Set(key, buf.String())
	_, _ = w.Write(buf.Bytes())
}
