package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// CatalogItem is one row of the item master. UnitPrice stays a float:
	// totals are plain products and currency rounding is left to callers.
	CatalogItem struct {
		Description string
		PartNumber  string
		UOM         string
		UnitPrice   float64
	}

	// RequestRecord is an appended stationery request. UnitPrice is
	// snapshotted from the catalog at creation time; later catalog
	// reloads never touch historical rows.
	RequestRecord struct {
		Date        time.Time
		Department  string
		Requester   string
		Description string
		PartNumber  string
		UOM         string
		Quantity    int
		UnitPrice   float64
		Total       float64
		Remarks     string
	}

	// UsageRecord tracks consumption. It carries no price fields.
	UsageRecord struct {
		Date         time.Time
		Department   string
		UsedBy       string
		Description  string
		PartNumber   string
		UOM          string
		QuantityUsed int
		Remarks      string
	}

	// Snapshot is a point-in-time copy of both ledger sequences, in
	// append order. Mutating a snapshot never affects the store.
	Snapshot struct {
		Requests []RequestRecord
		Usages   []UsageRecord
	}
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrEmptyDescription  = errors.New("empty item description")
	ErrUnknownDepartment = errors.New("unknown department")
	ErrManualEntryDenied = errors.New("manual item entry is not enabled")
	ErrZeroDate          = errors.New("date cannot be zero")
)

// MonthKey derives the "YYYY-MM" grouping key used by filters and the
// monthly trend aggregation.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

func (r RequestRecord) Validate() error {
	if r.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (u UsageRecord) Validate() error {
	if u.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(u.Description) == "" {
		return ErrEmptyDescription
	}
	if u.QuantityUsed <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// MonthKey returns the record's "YYYY-MM" key.
func (r RequestRecord) MonthKey() string { return MonthKey(r.Date) }

// MonthKey returns the record's "YYYY-MM" key.
func (u UsageRecord) MonthKey() string { return MonthKey(u.Date) }
