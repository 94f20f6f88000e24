package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"stationery/internal/amqp"
	"stationery/internal/core"
)

type fakeReader struct {
	request core.RequestRecord
	usage   core.UsageRecord
	err     error
}

func (f *fakeReader) GetRequest(ctx context.Context, id int64) (core.RequestRecord, error) {
	return f.request, f.err
}

func (f *fakeReader) GetUsage(ctx context.Context, id int64) (core.UsageRecord, error) {
	return f.usage, f.err
}

type fakeAppender struct {
	sheet string
	cells []any
	err   error
}

func (f *fakeAppender) AppendRow(ctx context.Context, sheetName string, cells []any) (string, error) {
	f.sheet = sheetName
	f.cells = cells
	if f.err != nil {
		return "", f.err
	}
	return "sheets:1", nil
}

func TestHandleMessage_Request(t *testing.T) {
	reader := &fakeReader{request: core.RequestRecord{
		Date:        time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Department:  "Finance",
		Requester:   "Ana",
		Description: "Ballpoint Pen",
		PartNumber:  "BP-01",
		UOM:         "pcs",
		Quantity:    3,
		UnitPrice:   3500,
		Total:       10500,
	}}
	appender := &fakeAppender{}
	w := NewSyncWorker(reader, appender, "Requests", "Usages")

	msg := amqp.NewRecordSavedMessage(amqp.KindRequest, 7)
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if appender.sheet != "Requests" {
		t.Errorf("sheet = %q, want Requests", appender.sheet)
	}
	if len(appender.cells) == 0 {
		t.Fatal("no cells appended")
	}
	if appender.cells[0] != "2026-04-10" {
		t.Errorf("date cell = %v", appender.cells[0])
	}
}

func TestHandleMessage_Usage(t *testing.T) {
	reader := &fakeReader{usage: core.UsageRecord{
		Date:         time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC),
		Department:   "Warehouse",
		UsedBy:       "Ben",
		Description:  "A4 Paper Ream",
		QuantityUsed: 2,
	}}
	appender := &fakeAppender{}
	w := NewSyncWorker(reader, appender, "Requests", "Usages")

	msg := amqp.NewRecordSavedMessage(amqp.KindUsage, 3)
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if appender.sheet != "Usages" {
		t.Errorf("sheet = %q, want Usages", appender.sheet)
	}
}

func TestHandleMessage_Errors(t *testing.T) {
	t.Run("storage error", func(t *testing.T) {
		reader := &fakeReader{err: errors.New("no such row")}
		w := NewSyncWorker(reader, &fakeAppender{}, "Requests", "Usages")
		msg := amqp.NewRecordSavedMessage(amqp.KindRequest, 1)
		if err := w.HandleMessage(context.Background(), msg); err == nil {
			t.Error("expected error from storage failure")
		}
	})

	t.Run("sheets error", func(t *testing.T) {
		reader := &fakeReader{request: core.RequestRecord{
			Date: time.Now(), Department: "Finance", Description: "Pen", Quantity: 1,
		}}
		appender := &fakeAppender{err: errors.New("quota")}
		w := NewSyncWorker(reader, appender, "Requests", "Usages")
		msg := amqp.NewRecordSavedMessage(amqp.KindRequest, 1)
		if err := w.HandleMessage(context.Background(), msg); err == nil {
			t.Error("expected error from sheets failure")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		w := NewSyncWorker(&fakeReader{}, &fakeAppender{}, "Requests", "Usages")
		msg := &amqp.RecordSavedMessage{Kind: "bogus", ID: 1}
		if err := w.HandleMessage(context.Background(), msg); err == nil {
			t.Error("expected error for unknown kind")
		}
	})
}
