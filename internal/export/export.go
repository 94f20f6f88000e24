// Package export reads and writes the delimited interchange format for
// ledgers and reports: UTF-8 CSV with a header row matching the record
// attribute names, one record per row, in ledger order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"stationery/internal/core"
)

const dateLayout = "2006-01-02"

// Column labels follow the office's original summary downloads.
var (
	RequestsHeader = []string{
		"Date", "Department", "Requester", "Description", "Part Number",
		"UOM", "Quantity", "Unit Price (IDR)", "Total (IDR)", "Remarks",
	}
	UsagesHeader = []string{
		"Date", "Department", "Used By", "Description", "Part Number",
		"UOM", "Quantity Used", "Remarks",
	}
)

// RequestRow encodes one request record as CSV cells.
func RequestRow(r core.RequestRecord) []string {
	return []string{
		r.Date.Format(dateLayout),
		r.Department,
		r.Requester,
		r.Description,
		r.PartNumber,
		r.UOM,
		strconv.Itoa(r.Quantity),
		formatNumber(r.UnitPrice),
		formatNumber(r.Total),
		r.Remarks,
	}
}

// ParseRequestRow decodes cells written by RequestRow.
func ParseRequestRow(cells []string) (core.RequestRecord, error) {
	if len(cells) < len(RequestsHeader) {
		return core.RequestRecord{}, fmt.Errorf("request row has %d cells, want %d", len(cells), len(RequestsHeader))
	}
	date, err := time.Parse(dateLayout, cells[0])
	if err != nil {
		return core.RequestRecord{}, fmt.Errorf("parse date %q: %w", cells[0], err)
	}
	qty, err := strconv.Atoi(cells[6])
	if err != nil {
		return core.RequestRecord{}, fmt.Errorf("parse quantity %q: %w", cells[6], err)
	}
	price, err := strconv.ParseFloat(cells[7], 64)
	if err != nil {
		return core.RequestRecord{}, fmt.Errorf("parse unit price %q: %w", cells[7], err)
	}
	total, err := strconv.ParseFloat(cells[8], 64)
	if err != nil {
		return core.RequestRecord{}, fmt.Errorf("parse total %q: %w", cells[8], err)
	}
	return core.RequestRecord{
		Date:        date,
		Department:  cells[1],
		Requester:   cells[2],
		Description: cells[3],
		PartNumber:  cells[4],
		UOM:         cells[5],
		Quantity:    qty,
		UnitPrice:   price,
		Total:       total,
		Remarks:     cells[9],
	}, nil
}

// UsageRow encodes one usage record as CSV cells.
func UsageRow(u core.UsageRecord) []string {
	return []string{
		u.Date.Format(dateLayout),
		u.Department,
		u.UsedBy,
		u.Description,
		u.PartNumber,
		u.UOM,
		strconv.Itoa(u.QuantityUsed),
		u.Remarks,
	}
}

// WriteRequestsCSV writes the header and records in the given order.
func WriteRequestsCSV(w io.Writer, records []core.RequestRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RequestsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(RequestRow(r)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUsagesCSV writes the header and records in the given order.
func WriteUsagesCSV(w io.Writer, records []core.UsageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(UsagesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, u := range records {
		if err := cw.Write(UsageRow(u)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupTotalsCSV writes an aggregation report (department, item or
// month totals) with the given key column label.
func WriteGroupTotalsCSV(w io.Writer, keyLabel string, rows []core.GroupTotal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{keyLabel, "Total (IDR)"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Key, formatNumber(row.Total)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
