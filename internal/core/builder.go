package core

import (
	"strings"
	"time"
)

// Builder turns user input into ledger records. It is a pure value; it
// never persists anything. Departments and AllowManualEntry parameterize
// what used to be separate variants of the same form.
type Builder struct {
	// Departments is the configured enumeration. Empty means free text.
	Departments []string
	// AllowManualEntry permits records whose item fields are user-typed
	// instead of resolved from the catalog.
	AllowManualEntry bool
}

// RequestInput is the user-supplied part of a request record.
type RequestInput struct {
	Date       time.Time
	Department string
	Requester  string
	Quantity   int
	Remarks    string

	// Manual-entry fields, ignored when a catalog item is supplied.
	Description string
	PartNumber  string
	UOM         string
	UnitPrice   float64
}

// UsageInput is the user-supplied part of a usage record.
type UsageInput struct {
	Date       time.Time
	Department string
	UsedBy     string
	Quantity   int
	Remarks    string

	Description string
	PartNumber  string
	UOM         string
}

// BuildRequest produces a RequestRecord. With a catalog item the item
// fields and unit price are copied from it; with item == nil the input's
// own fields are used (manual entry). Total is always quantity times the
// snapshotted unit price.
func (b Builder) BuildRequest(in RequestInput, item *CatalogItem) (RequestRecord, error) {
	if in.Quantity <= 0 {
		return RequestRecord{}, ErrInvalidQuantity
	}
	if err := b.checkDepartment(in.Department); err != nil {
		return RequestRecord{}, err
	}

	rec := RequestRecord{
		Date:       in.Date,
		Department: in.Department,
		Requester:  strings.TrimSpace(in.Requester),
		Quantity:   in.Quantity,
		Remarks:    in.Remarks,
	}
	if item != nil {
		rec.Description = item.Description
		rec.PartNumber = item.PartNumber
		rec.UOM = item.UOM
		rec.UnitPrice = item.UnitPrice
	} else {
		if !b.AllowManualEntry {
			return RequestRecord{}, ErrManualEntryDenied
		}
		rec.Description = strings.TrimSpace(in.Description)
		rec.PartNumber = strings.TrimSpace(in.PartNumber)
		rec.UOM = strings.TrimSpace(in.UOM)
		rec.UnitPrice = in.UnitPrice
	}
	rec.Total = float64(rec.Quantity) * rec.UnitPrice

	if err := rec.Validate(); err != nil {
		return RequestRecord{}, err
	}
	return rec, nil
}

// BuildUsage produces a UsageRecord. Usage never carries a price, so the
// manual path only copies the descriptive fields.
func (b Builder) BuildUsage(in UsageInput, item *CatalogItem) (UsageRecord, error) {
	if in.Quantity <= 0 {
		return UsageRecord{}, ErrInvalidQuantity
	}
	if err := b.checkDepartment(in.Department); err != nil {
		return UsageRecord{}, err
	}

	rec := UsageRecord{
		Date:         in.Date,
		Department:   in.Department,
		UsedBy:       strings.TrimSpace(in.UsedBy),
		QuantityUsed: in.Quantity,
		Remarks:      in.Remarks,
	}
	if item != nil {
		rec.Description = item.Description
		rec.PartNumber = item.PartNumber
		rec.UOM = item.UOM
	} else {
		if !b.AllowManualEntry {
			return UsageRecord{}, ErrManualEntryDenied
		}
		rec.Description = strings.TrimSpace(in.Description)
		rec.PartNumber = strings.TrimSpace(in.PartNumber)
		rec.UOM = strings.TrimSpace(in.UOM)
	}

	if err := rec.Validate(); err != nil {
		return UsageRecord{}, err
	}
	return rec, nil
}

func (b Builder) checkDepartment(dept string) error {
	if len(b.Departments) == 0 {
		return nil
	}
	for _, d := range b.Departments {
		if d == dept {
			return nil
		}
	}
	return ErrUnknownDepartment
}
