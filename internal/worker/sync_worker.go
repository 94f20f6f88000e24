// Package worker mirrors stored ledger records to Google Sheets.
// It consumes record-saved messages, loads the row from SQLite and
// appends it to the configured spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"stationery/internal/amqp"
	"stationery/internal/core"
	"stationery/internal/export"
	"stationery/internal/storage"
)

// RecordReader is the slice of the SQLite repository the worker needs.
type RecordReader interface {
	GetRequest(ctx context.Context, id int64) (core.RequestRecord, error)
	GetUsage(ctx context.Context, id int64) (core.UsageRecord, error)
}

// RowAppender is the slice of the Sheets client the worker needs.
type RowAppender interface {
	AppendRow(ctx context.Context, sheetName string, cells []any) (string, error)
}

// SyncWorker handles synchronization of ledger records to Google Sheets.
type SyncWorker struct {
	storage       RecordReader
	sheets        RowAppender
	requestsSheet string
	usagesSheet   string
}

func NewSyncWorker(storage RecordReader, sheets RowAppender, requestsSheet, usagesSheet string) *SyncWorker {
	return &SyncWorker{
		storage:       storage,
		sheets:        sheets,
		requestsSheet: requestsSheet,
		usagesSheet:   usagesSheet,
	}
}

// HandleMessage processes a single record-saved message from AMQP.
// The mirrored row uses the same column layout as the CSV downloads, so
// the spreadsheet and the exports stay interchangeable.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.RecordSavedMessage) error {
	slog.InfoContext(ctx, "Processing record-saved message",
		"kind", msg.Kind,
		"id", msg.ID)

	switch msg.Kind {
	case amqp.KindRequest:
		rec, err := w.storage.GetRequest(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("get request from storage: %w", err)
		}
		ref, err := w.sheets.AppendRow(ctx, w.requestsSheet, toCells(export.RequestRow(rec)))
		if err != nil {
			return fmt.Errorf("append request to sheets: %w", err)
		}
		slog.InfoContext(ctx, "Mirrored request to sheets", "id", msg.ID, "ref", ref)
		return nil

	case amqp.KindUsage:
		rec, err := w.storage.GetUsage(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("get usage from storage: %w", err)
		}
		ref, err := w.sheets.AppendRow(ctx, w.usagesSheet, toCells(export.UsageRow(rec)))
		if err != nil {
			return fmt.Errorf("append usage to sheets: %w", err)
		}
		slog.InfoContext(ctx, "Mirrored usage to sheets", "id", msg.ID, "ref", ref)
		return nil

	default:
		return fmt.Errorf("unknown record kind %q", msg.Kind)
	}
}

// Run consumes record-saved messages until the context is cancelled.
func (w *SyncWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeRecordSaved(ctx, func(msg *amqp.RecordSavedMessage) error {
		return w.HandleMessage(ctx, msg)
	})
}

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

var _ RecordReader = (*storage.SQLiteRepository)(nil)
