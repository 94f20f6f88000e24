package http

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"stationery/internal/catalog"
	"stationery/internal/core"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady verifies the ledger store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.store.Snapshot(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	// A missing item master is not fatal: the form falls back to manual
	// entry and the sidebar upload can supply the file later.
	var items []string
	if cat, err := s.catalog.Catalog(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "Item master unavailable", "error", err)
	} else {
		items = cat.Descriptions()
	}

	data := struct {
		Today       string
		Departments []string
		Items       []string
		Months      []string
		ManualEntry bool
	}{
		Today:       time.Now().Format("2006-01-02"),
		Departments: s.builder.Departments,
		Items:       items,
		Months:      s.ledgerMonths(r.Context()),
		ManualEntry: s.builder.AllowManualEntry,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ledgerMonths collects the distinct months present in either ledger,
// sorted ascending, for the filter dropdowns.
func (s *Server) ledgerMonths(ctx context.Context) []string {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Snapshot for month list failed", "error", err)
		return nil
	}
	seen := map[string]bool{}
	for _, r := range snap.Requests {
		seen[r.MonthKey()] = true
	}
	for _, u := range snap.Usages {
		seen[u.MonthKey()] = true
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "method", r.Method, "url", r.URL.Path)
		resp.Write(w)
		return
	}

	qty, err := core.ParseQuantity(r.Form.Get("quantity"))
	if err != nil {
		UnprocessableEntityError("Invalid quantity").Write(w)
		return
	}

	in := core.RequestInput{
		Date:       parseDate(r.Form.Get("date")),
		Department: sanitizeInput(r.Form.Get("department")),
		Requester:  sanitizeInput(r.Form.Get("requested_by")),
		Quantity:   qty,
		Remarks:    sanitizeInput(r.Form.Get("remarks")),
	}

	item, resp := s.resolveItem(r, &in.Description, &in.PartNumber, &in.UOM)
	if resp != nil {
		resp.Write(w)
		return
	}
	if item == nil {
		// Manual entry carries its own price.
		if v := sanitizeInput(r.Form.Get("unit_price")); v != "" {
			price, err := core.ParsePrice(v)
			if err != nil {
				UnprocessableEntityError("Invalid unit price").Write(w)
				return
			}
			in.UnitPrice = price
		}
	}

	rec, err := s.builder.BuildRequest(in, item)
	if err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	ref, err := s.store.AppendRequest(r.Context(), rec)
	if err != nil {
		slog.ErrorContext(r.Context(), "Request append error",
			"error", err, "item", rec.Description, "department", rec.Department)
		InternalServerError("Error saving request").Write(w)
		return
	}

	s.logs.LogRecordAppended(r.Context(), rec.Description, rec.Department, rec.Quantity, rec.Total, ref)
	s.invalidateViews()
	NewHTMXResponse().
		TriggerRequestCreated(rec.Department, rec.MonthKey()).
		TriggerFormReset().
		BodyHTML(`<div class="success">Request saved (#` + template.HTMLEscapeString(ref) + `): ` +
			template.HTMLEscapeString(rec.Description) +
			` x` + strconv.Itoa(rec.Quantity) +
			`, total ` + template.HTMLEscapeString(formatAmount(rec.Total)) + `</div>`).
		Write(w)
}

func (s *Server) handleCreateUsage(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "method", r.Method, "url", r.URL.Path)
		resp.Write(w)
		return
	}

	qty, err := core.ParseQuantity(r.Form.Get("quantity"))
	if err != nil {
		UnprocessableEntityError("Invalid quantity").Write(w)
		return
	}

	in := core.UsageInput{
		Date:       parseDate(r.Form.Get("date")),
		Department: sanitizeInput(r.Form.Get("department")),
		UsedBy:     sanitizeInput(r.Form.Get("used_by")),
		Quantity:   qty,
		Remarks:    sanitizeInput(r.Form.Get("remarks")),
	}

	item, resp := s.resolveItem(r, &in.Description, &in.PartNumber, &in.UOM)
	if resp != nil {
		resp.Write(w)
		return
	}

	rec, err := s.builder.BuildUsage(in, item)
	if err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	ref, err := s.store.AppendUsage(r.Context(), rec)
	if err != nil {
		slog.ErrorContext(r.Context(), "Usage append error",
			"error", err, "item", rec.Description, "department", rec.Department)
		InternalServerError("Error saving usage").Write(w)
		return
	}

	s.logs.LogRecordAppended(r.Context(), rec.Description, rec.Department, rec.QuantityUsed, 0, ref)
	s.invalidateViews()
	NewHTMXResponse().
		TriggerUsageCreated(rec.Department, rec.MonthKey()).
		TriggerFormReset().
		BodyHTML(`<div class="success">Usage saved (#` + template.HTMLEscapeString(ref) + `): ` +
			template.HTMLEscapeString(rec.Description) + `</div>`).
		Write(w)
}

// resolveItem maps the submitted item field to a catalog row. An empty
// item field means manual entry: the manual form fields are copied into
// the given destinations and a nil item is returned.
func (s *Server) resolveItem(r *http.Request, desc, part, uom *string) (*core.CatalogItem, *HTMXResponseBuilder) {
	name := sanitizeInput(r.Form.Get("item"))
	if name == "" {
		*desc = sanitizeInput(r.Form.Get("description"))
		*part = sanitizeInput(r.Form.Get("part_number"))
		*uom = sanitizeInput(r.Form.Get("uom"))
		return nil, nil
	}

	item, err := s.catalog.Lookup(r.Context(), name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, UnprocessableEntityError("Unknown item: " + name)
		}
		slog.ErrorContext(r.Context(), "Catalog lookup error", "error", err, "item", name)
		return nil, InternalServerError("Item master unavailable")
	}
	return &item, nil
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.store.Reset(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Ledger reset error", "error", err)
		InternalServerError("Error resetting records").Write(w)
		return
	}

	s.invalidateViews()
	slog.InfoContext(r.Context(), "Ledger reset")
	NewHTMXResponse().
		TriggerLedgerReset().
		BodyHTML(`<div class="success">All records deleted</div>`).
		Write(w)
}

// handleCatalogUpload replaces the item master file and reloads the
// catalog so the new rows take effect immediately.
func (s *Server) handleCatalogUpload(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	// 5 MB is plenty for an item master.
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		BadRequestError("Invalid upload").Write(w)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		BadRequestError("Missing file").Write(w)
		return
	}
	defer file.Close()

	if err := s.saveCatalogFile(file); err != nil {
		slog.ErrorContext(r.Context(), "Item master save error", "error", err, "path", s.catalogPath)
		InternalServerError("Error saving item master").Write(w)
		return
	}

	if err := s.catalog.Reload(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Item master reload error", "error", err)
		UnprocessableEntityError("Uploaded file is not a valid item master").Write(w)
		return
	}

	cat, err := s.catalog.Catalog(r.Context())
	if err != nil {
		InternalServerError("Item master unavailable").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Item master reloaded", "items", cat.Len(), "path", s.catalogPath)
	NewHTMXResponse().
		TriggerCatalogReloaded(cat.Len()).
		BodyHTML(`<div class="success">Item master uploaded</div>`).
		Write(w)
}

func (s *Server) saveCatalogFile(src io.Reader) error {
	if dir := filepath.Dir(s.catalogPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	dst, err := os.Create(s.catalogPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// invalidateViews drops every cached summary and dashboard fragment.
// Any write can shift any aggregate, so partial invalidation is not
// worth the bookkeeping.
func (s *Server) invalidateViews() {
	s.summaryCache.Clear()
	s.dashboardCache.Clear()
}
