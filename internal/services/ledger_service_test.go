package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stationery/internal/amqp"
	"stationery/internal/core"
	"stationery/internal/ledger/memory"
)

type fakePublisher struct {
	kinds []string
	ids   []int64
	err   error
}

func (f *fakePublisher) PublishRecordSaved(_ context.Context, kind string, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.kinds = append(f.kinds, kind)
	f.ids = append(f.ids, id)
	return nil
}

func request() core.RequestRecord {
	return core.RequestRecord{
		Date:        time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Department:  "Finance",
		Description: "Pen",
		Quantity:    1,
		UnitPrice:   5000,
		Total:       5000,
	}
}

func TestAppendPublishesRecordSaved(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	if _, err := svc.AppendRequest(ctx, request()); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := svc.AppendUsage(ctx, core.UsageRecord{
		Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Department: "Finance",
		Description: "Pen", QuantityUsed: 1,
	}); err != nil {
		t.Fatalf("append usage: %v", err)
	}

	if len(pub.kinds) != 2 || pub.kinds[0] != amqp.KindRequest || pub.kinds[1] != amqp.KindUsage {
		t.Fatalf("published kinds: %v", pub.kinds)
	}
	if pub.ids[0] != 1 || pub.ids[1] != 1 {
		t.Fatalf("published ids: %v", pub.ids)
	}
}

func TestPublishFailureDoesNotFailAppend(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(memory.New(), &fakePublisher{err: errors.New("broker down")})

	if _, err := svc.AppendRequest(ctx, request()); err != nil {
		t.Fatalf("append must survive publish failure: %v", err)
	}
	snap, _ := svc.Snapshot(ctx)
	if len(snap.Requests) != 1 {
		t.Fatalf("record lost: %+v", snap)
	}
}

func TestNilPublisherIsFine(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil)
	if _, err := svc.AppendRequest(context.Background(), request()); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestFailedAppendDoesNotPublish(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)
	if _, err := svc.AppendRequest(context.Background(), core.RequestRecord{}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(pub.kinds) != 0 {
		t.Fatalf("published despite failed append: %v", pub.kinds)
	}
}

func TestRowID(t *testing.T) {
	cases := []struct {
		ref string
		id  int64
		ok  bool
	}{
		{"req:12", 12, true},
		{"use:3", 3, true},
		{"7", 7, true},
		{"req:", 0, false},
		{"req:0", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		id, ok := rowID(tc.ref)
		if id != tc.id || ok != tc.ok {
			t.Fatalf("rowID(%q) = %d, %v; want %d, %v", tc.ref, id, ok, tc.id, tc.ok)
		}
	}
}
