// Package storage is the SQLite-backed ledger: durable request and
// usage tables behind the same ports as the in-memory store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"stationery/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendRequest implements ledger.RequestAppender.
func (r *SQLiteRepository) AppendRequest(ctx context.Context, rec core.RequestRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO requests (date, department, requester, description, part_number, uom, quantity, unit_price, total, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Date.Format(dateLayout), rec.Department, rec.Requester, rec.Description,
		rec.PartNumber, rec.UOM, rec.Quantity, rec.UnitPrice, rec.Total, rec.Remarks)
	if err != nil {
		return "", fmt.Errorf("insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("request insert id: %w", err)
	}

	slog.InfoContext(ctx, "Request saved to SQLite",
		"id", id,
		"department", rec.Department,
		"description", rec.Description,
		"total", rec.Total)

	return fmt.Sprintf("req:%d", id), nil
}

// AppendUsage implements ledger.UsageAppender.
func (r *SQLiteRepository) AppendUsage(ctx context.Context, rec core.UsageRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO usages (date, department, used_by, description, part_number, uom, quantity_used, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Date.Format(dateLayout), rec.Department, rec.UsedBy, rec.Description,
		rec.PartNumber, rec.UOM, rec.QuantityUsed, rec.Remarks)
	if err != nil {
		return "", fmt.Errorf("insert usage: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("usage insert id: %w", err)
	}

	slog.InfoContext(ctx, "Usage saved to SQLite",
		"id", id,
		"department", rec.Department,
		"description", rec.Description,
		"quantity_used", rec.QuantityUsed)

	return fmt.Sprintf("use:%d", id), nil
}

// Snapshot implements ledger.Snapshotter, rows in insertion order.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	rows, err := r.db.QueryContext(ctx, `
		SELECT date, department, requester, description, part_number, uom, quantity, unit_price, total, remarks
		FROM requests ORDER BY id`)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec core.RequestRecord
		var date string
		if err := rows.Scan(&date, &rec.Department, &rec.Requester, &rec.Description,
			&rec.PartNumber, &rec.UOM, &rec.Quantity, &rec.UnitPrice, &rec.Total, &rec.Remarks); err != nil {
			return core.Snapshot{}, fmt.Errorf("scan request: %w", err)
		}
		if rec.Date, err = time.Parse(dateLayout, date); err != nil {
			return core.Snapshot{}, fmt.Errorf("parse request date %q: %w", date, err)
		}
		snap.Requests = append(snap.Requests, rec)
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, fmt.Errorf("iterate requests: %w", err)
	}

	urows, err := r.db.QueryContext(ctx, `
		SELECT date, department, used_by, description, part_number, uom, quantity_used, remarks
		FROM usages ORDER BY id`)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("query usages: %w", err)
	}
	defer urows.Close()
	for urows.Next() {
		var rec core.UsageRecord
		var date string
		if err := urows.Scan(&date, &rec.Department, &rec.UsedBy, &rec.Description,
			&rec.PartNumber, &rec.UOM, &rec.QuantityUsed, &rec.Remarks); err != nil {
			return core.Snapshot{}, fmt.Errorf("scan usage: %w", err)
		}
		if rec.Date, err = time.Parse(dateLayout, date); err != nil {
			return core.Snapshot{}, fmt.Errorf("parse usage date %q: %w", date, err)
		}
		snap.Usages = append(snap.Usages, rec)
	}
	if err := urows.Err(); err != nil {
		return core.Snapshot{}, fmt.Errorf("iterate usages: %w", err)
	}

	return snap, nil
}

// Reset implements ledger.Resetter by deleting every row.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM requests`); err != nil {
		return fmt.Errorf("clear requests: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM usages`); err != nil {
		return fmt.Errorf("clear usages: %w", err)
	}
	slog.InfoContext(ctx, "Ledger cleared")
	return nil
}

// GetRequest fetches one request row by id, for the sync worker.
func (r *SQLiteRepository) GetRequest(ctx context.Context, id int64) (core.RequestRecord, error) {
	var rec core.RequestRecord
	var date string
	err := r.db.QueryRowContext(ctx, `
		SELECT date, department, requester, description, part_number, uom, quantity, unit_price, total, remarks
		FROM requests WHERE id = ?`, id).
		Scan(&date, &rec.Department, &rec.Requester, &rec.Description,
			&rec.PartNumber, &rec.UOM, &rec.Quantity, &rec.UnitPrice, &rec.Total, &rec.Remarks)
	if err != nil {
		return core.RequestRecord{}, fmt.Errorf("get request %d: %w", id, err)
	}
	if rec.Date, err = time.Parse(dateLayout, date); err != nil {
		return core.RequestRecord{}, fmt.Errorf("parse request date %q: %w", date, err)
	}
	return rec, nil
}

// GetUsage fetches one usage row by id, for the sync worker.
func (r *SQLiteRepository) GetUsage(ctx context.Context, id int64) (core.UsageRecord, error) {
	var rec core.UsageRecord
	var date string
	err := r.db.QueryRowContext(ctx, `
		SELECT date, department, used_by, description, part_number, uom, quantity_used, remarks
		FROM usages WHERE id = ?`, id).
		Scan(&date, &rec.Department, &rec.UsedBy, &rec.Description,
			&rec.PartNumber, &rec.UOM, &rec.QuantityUsed, &rec.Remarks)
	if err != nil {
		return core.UsageRecord{}, fmt.Errorf("get usage %d: %w", id, err)
	}
	if rec.Date, err = time.Parse(dateLayout, date); err != nil {
		return core.UsageRecord{}, fmt.Errorf("parse usage date %q: %w", date, err)
	}
	return rec, nil
}
