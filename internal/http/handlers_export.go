package http

import (
	"log/slog"
	"net/http"

	"stationery/internal/core"
	"stationery/internal/export"
)

// handleExportRequests streams the filtered request ledger as CSV, with
// the same column layout the summary download always had.
func (s *Server) handleExportRequests(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	params := ParseFilterParams(r.URL.Query())
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export snapshot error", "error", err)
		http.Error(w, "error loading records", http.StatusInternalServerError)
		return
	}
	records := core.FilterRequests(snap.Requests, params.Department, params.Month)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="requests_summary.csv"`)
	if err := export.WriteRequestsCSV(w, records); err != nil {
		slog.ErrorContext(r.Context(), "Requests CSV write error", "error", err, "count", len(records))
	}
}

// handleExportUsages streams the filtered usage ledger as CSV.
func (s *Server) handleExportUsages(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	params := ParseFilterParams(r.URL.Query())
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export snapshot error", "error", err)
		http.Error(w, "error loading records", http.StatusInternalServerError)
		return
	}
	records := core.FilterUsages(snap.Usages, params.Department, params.Month)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="usage_summary.csv"`)
	if err := export.WriteUsagesCSV(w, records); err != nil {
		slog.ErrorContext(r.Context(), "Usages CSV write error", "error", err, "count", len(records))
	}
}

// handleExportDepartmentTotals streams the per-department spend totals
// for the current filter selection.
func (s *Server) handleExportDepartmentTotals(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	params := ParseFilterParams(r.URL.Query())
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export snapshot error", "error", err)
		http.Error(w, "error loading records", http.StatusInternalServerError)
		return
	}
	rows := core.TotalsByDepartment(core.FilterRequests(snap.Requests, params.Department, params.Month))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="department_totals.csv"`)
	if err := export.WriteGroupTotalsCSV(w, "Department", rows); err != nil {
		slog.ErrorContext(r.Context(), "Department totals CSV write error", "error", err)
	}
}
