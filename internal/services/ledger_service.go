// Package services orchestrates ledger operations across the chosen
// backend and the optional AMQP sync pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"stationery/internal/amqp"
	"stationery/internal/core"
	"stationery/internal/ledger"
)

// Publisher is the slice of the AMQP client the service needs.
type Publisher interface {
	PublishRecordSaved(ctx context.Context, kind string, id int64) error
}

// LedgerService appends records to the backend first and then publishes
// a record-saved event. Publish failures are logged but never fail the
// append: the record is already safely stored.
type LedgerService struct {
	store     ledger.Store
	publisher Publisher
}

func NewLedgerService(store ledger.Store, publisher Publisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// AppendRequest implements ledger.RequestAppender.
func (s *LedgerService) AppendRequest(ctx context.Context, r core.RequestRecord) (string, error) {
	ref, err := s.store.AppendRequest(ctx, r)
	if err != nil {
		return "", fmt.Errorf("save request: %w", err)
	}
	s.publish(ctx, amqp.KindRequest, ref)
	return ref, nil
}

// AppendUsage implements ledger.UsageAppender.
func (s *LedgerService) AppendUsage(ctx context.Context, u core.UsageRecord) (string, error) {
	ref, err := s.store.AppendUsage(ctx, u)
	if err != nil {
		return "", fmt.Errorf("save usage: %w", err)
	}
	s.publish(ctx, amqp.KindUsage, ref)
	return ref, nil
}

// Snapshot implements ledger.Snapshotter.
func (s *LedgerService) Snapshot(ctx context.Context) (core.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// Reset implements ledger.Resetter.
func (s *LedgerService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func (s *LedgerService) publish(ctx context.Context, kind, ref string) {
	if s.publisher == nil {
		return
	}
	id, ok := rowID(ref)
	if !ok {
		slog.WarnContext(ctx, "Skipping sync publish for non-numeric ref", "kind", kind, "ref", ref)
		return
	}
	if err := s.publisher.PublishRecordSaved(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record-saved message",
			"kind", kind, "id", id, "error", err)
	}
}

// rowID extracts the numeric row id from refs like "req:12" or "use:3".
func rowID(ref string) (int64, bool) {
	if i := strings.LastIndexByte(ref, ':'); i >= 0 {
		ref = ref[i+1:]
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
