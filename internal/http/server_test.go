package http

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bytes"

	"stationery/internal/catalog"
	"stationery/internal/catalog/csvfile"
	"stationery/internal/core"
	"stationery/internal/ledger/memory"
)

type stubSource struct{}

func (stubSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Parse(
		[]string{"Description", "Part Number", "UOM", "Unit Price (IDR)"},
		[][]string{
			{"Ballpoint Pen", "BP-01", "pcs", "3500"},
			{"A4 Paper Ream", "PR-80", "ream", "52000"},
		},
	)
}

type failingSource struct{}

func (failingSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	return nil, catalog.ErrLoad
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	builder := core.Builder{
		Departments:      []string{"Finance", "Warehouse"},
		AllowManualEntry: true,
	}
	srv := NewServer(":0", memory.New(), catalog.NewStore(stubSource{}), builder, filepath.Join(t.TempDir(), "items_master.csv"))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func postForm(srv *Server, path, form string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := get(srv, "/")
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Stationery") {
		t.Fatalf("index body missing heading")
	}
	if !strings.Contains(rr.Body.String(), "Ballpoint Pen") {
		t.Fatalf("index body missing catalog item")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(srv, path)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateRequestValidationAndSuccess(t *testing.T) {
	srv := newTestServer(t)

	// Wrong method
	rr := get(srv, "/requests")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid quantity
	rr = postForm(srv, "/requests", "item=Ballpoint+Pen&department=Finance&quantity=abc")
	if rr.Code != 422 {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Unknown item
	rr = postForm(srv, "/requests", "item=Stapler&department=Finance&quantity=1")
	if rr.Code != 422 {
		t.Fatalf("expected 422 for unknown item, got %d", rr.Code)
	}

	// Unknown department
	rr = postForm(srv, "/requests", "item=Ballpoint+Pen&department=Marketing&quantity=1")
	if rr.Code != 422 {
		t.Fatalf("expected 422 for unknown department, got %d", rr.Code)
	}

	// Success: catalog price is snapshotted and total computed
	rr = postForm(srv, "/requests", "item=Ballpoint+Pen&department=Finance&requested_by=Ana&quantity=3&date=2026-04-10")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "10500.00") {
		t.Fatalf("expected snapshotted total in body: %s", rr.Body.String())
	}
	if trig := rr.Header().Get("HX-Trigger"); !strings.Contains(trig, "request:created") {
		t.Fatalf("missing request:created trigger: %s", trig)
	}
}

func TestCreateRequestManualEntry(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/requests",
		"item=&description=Custom+Stamp&part_number=CS-1&uom=pcs&unit_price=15000&department=Warehouse&quantity=2")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "30000.00") {
		t.Fatalf("expected manual total in body: %s", rr.Body.String())
	}

	// Manual entry denied
	srv.builder.AllowManualEntry = false
	rr = postForm(srv, "/requests", "item=&description=Custom+Stamp&department=Warehouse&quantity=2")
	if rr.Code != 422 {
		t.Fatalf("expected 422 when manual entry disabled, got %d", rr.Code)
	}
}

func TestCreateUsage(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/usages", "item=A4+Paper+Ream&department=Finance&used_by=Ben&quantity=5&date=2026-04-11")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if trig := rr.Header().Get("HX-Trigger"); !strings.Contains(trig, "usage:created") {
		t.Fatalf("missing usage:created trigger: %s", trig)
	}
}

func TestSummaryFiltersAndDashboard(t *testing.T) {
	srv := newTestServer(t)

	seeds := []string{
		"item=Ballpoint+Pen&department=Finance&quantity=2&date=2026-04-10",
		"item=A4+Paper+Ream&department=Warehouse&quantity=1&date=2026-05-02",
	}
	for _, form := range seeds {
		if rr := postForm(srv, "/requests", form); rr.Code != 200 {
			t.Fatalf("seed failed: %d %s", rr.Code, rr.Body.String())
		}
	}

	// Department filter
	rr := get(srv, "/ui/summary?department=Finance&month=All")
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Ballpoint Pen") || strings.Contains(body, "A4 Paper Ream") {
		t.Fatalf("department filter not applied: %s", body)
	}

	// Month filter
	rr = get(srv, "/ui/summary?department=All&month=2026-05")
	body = rr.Body.String()
	if strings.Contains(body, "Ballpoint Pen") || !strings.Contains(body, "A4 Paper Ream") {
		t.Fatalf("month filter not applied: %s", body)
	}

	// Dashboard aggregates both departments with All filters
	rr = get(srv, "/ui/dashboard")
	body = rr.Body.String()
	if !strings.Contains(body, "Finance") || !strings.Contains(body, "Warehouse") {
		t.Fatalf("dashboard missing department rows: %s", body)
	}
	if !strings.Contains(body, "Grand Total") {
		t.Fatalf("dashboard missing grand total: %s", body)
	}
}

func TestSummaryCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)

	if rr := get(srv, "/ui/summary"); rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	if srv.summaryCache.Size() != 1 {
		t.Fatalf("expected cached summary, size=%d", srv.summaryCache.Size())
	}

	if rr := postForm(srv, "/requests", "item=Ballpoint+Pen&department=Finance&quantity=1"); rr.Code != 200 {
		t.Fatalf("request failed: %d", rr.Code)
	}
	if srv.summaryCache.Size() != 0 {
		t.Fatalf("expected cache cleared after write, size=%d", srv.summaryCache.Size())
	}

	rr := get(srv, "/ui/summary")
	if !strings.Contains(rr.Body.String(), "Ballpoint Pen") {
		t.Fatalf("summary not refreshed after write: %s", rr.Body.String())
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)

	if rr := postForm(srv, "/requests", "item=Ballpoint+Pen&department=Finance&quantity=2&date=2026-04-10"); rr.Code != 200 {
		t.Fatalf("seed failed: %d", rr.Code)
	}

	rr := get(srv, "/export/requests.csv")
	if rr.Code != 200 {
		t.Fatalf("export status=%d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "requests_summary.csv") {
		t.Fatalf("unexpected disposition: %s", cd)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Unit Price (IDR)") || !strings.Contains(body, "Ballpoint Pen") {
		t.Fatalf("unexpected CSV body: %s", body)
	}

	rr = get(srv, "/export/usages.csv")
	if rr.Code != 200 {
		t.Fatalf("usage export status=%d", rr.Code)
	}

	rr = get(srv, "/export/department-totals.csv")
	if !strings.Contains(rr.Body.String(), "Finance") {
		t.Fatalf("department totals missing row: %s", rr.Body.String())
	}
}

func TestResetClearsLedger(t *testing.T) {
	srv := newTestServer(t)

	if rr := postForm(srv, "/requests", "item=Ballpoint+Pen&department=Finance&quantity=1"); rr.Code != 200 {
		t.Fatalf("seed failed: %d", rr.Code)
	}

	rr := postForm(srv, "/reset", "")
	if rr.Code != 200 {
		t.Fatalf("reset status=%d", rr.Code)
	}
	if trig := rr.Header().Get("HX-Trigger"); !strings.Contains(trig, "ledger:reset") {
		t.Fatalf("missing ledger:reset trigger: %s", trig)
	}

	body := get(srv, "/ui/summary").Body.String()
	if !strings.Contains(body, "No request records found") {
		t.Fatalf("summary not empty after reset: %s", body)
	}
}

func TestCatalogUploadReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items_master.csv")
	builder := core.Builder{Departments: []string{"Finance"}, AllowManualEntry: true}
	srv := NewServer(":0", memory.New(), catalog.NewStore(csvfile.New(path)), builder, path)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "items_master.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("Description,Part Number,UOM,Unit Price (IDR)\nWhiteboard Marker,WM-2,pcs,8000\n"))
	_ = mw.Close()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/catalog", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("upload status=%d: %s", rr.Code, rr.Body.String())
	}
	if trig := rr.Header().Get("HX-Trigger"); !strings.Contains(trig, "catalog:reloaded") {
		t.Fatalf("missing catalog:reloaded trigger: %s", trig)
	}

	// Uploaded item is usable right away.
	if rr := postForm(srv, "/requests", "item=Whiteboard+Marker&department=Finance&quantity=1"); rr.Code != 200 {
		t.Fatalf("request with uploaded item failed: %d %s", rr.Code, rr.Body.String())
	}
}

func TestIndexSurvivesCatalogFailure(t *testing.T) {
	builder := core.Builder{Departments: []string{"Finance"}, AllowManualEntry: true}
	srv := NewServer(":0", memory.New(), catalog.NewStore(failingSource{}), builder, filepath.Join(t.TempDir(), "items.csv"))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	rr := get(srv, "/")
	if rr.Code != 200 {
		t.Fatalf("expected 200 even without item master, got %d", rr.Code)
	}
}
