package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stationery/internal/core"
)

func request(desc string, qty int) core.RequestRecord {
	return core.RequestRecord{
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Department:  "Procurement",
		Requester:   "Sari",
		Description: desc,
		PartNumber:  "P-1",
		UOM:         "pcs",
		Quantity:    qty,
		UnitPrice:   2000,
		Total:       float64(qty) * 2000,
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "requests_ledger.csv"))
}

func TestMissingFileIsEmptyLedger(t *testing.T) {
	s := newStore(t)
	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Requests) != 0 {
		t.Fatalf("got %d records, want 0", len(snap.Requests))
	}
}

func TestAppendPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "requests_ledger.csv")

	s := New(path)
	if _, err := s.AppendRequest(ctx, request("Pen", 3)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.AppendRequest(ctx, request("Tape", 1)); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A fresh instance over the same file sees both rows in order.
	reopened := New(path)
	snap, err := reopened.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Requests) != 2 {
		t.Fatalf("got %d records, want 2", len(snap.Requests))
	}
	if snap.Requests[0].Description != "Pen" || snap.Requests[1].Description != "Tape" {
		t.Fatalf("order lost: %+v", snap.Requests)
	}
	if snap.Requests[0].Total != 6000 {
		t.Fatalf("total: got %v, want 6000", snap.Requests[0].Total)
	}
}

func TestUsagesStayInMemory(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if _, err := s.AppendUsage(ctx, core.UsageRecord{
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Department: "Warehouse",
		Description: "Tape", QuantityUsed: 2,
	}); err != nil {
		t.Fatalf("append usage: %v", err)
	}
	snap, _ := s.Snapshot(ctx)
	if len(snap.Usages) != 1 {
		t.Fatalf("got %d usages, want 1", len(snap.Usages))
	}
}

func TestResetDeletesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "requests_ledger.csv")
	s := New(path)
	if _, err := s.AppendRequest(ctx, request("Pen", 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("ledger file not written: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("ledger file still present after reset")
	}

	// Nothing to delete is not an error.
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset without file: %v", err)
	}
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	s := newStore(t)
	if _, err := s.AppendRequest(context.Background(), core.RequestRecord{Description: "bad"}); err == nil {
		t.Fatal("expected validation error")
	}
	snap, _ := s.Snapshot(context.Background())
	if len(snap.Requests) != 0 {
		t.Fatalf("failed append must not persist anything")
	}
}
