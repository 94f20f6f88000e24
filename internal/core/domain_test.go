package core

import (
	"errors"
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestMonthKey(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{date(2025, 1, 31), "2025-01"},
		{date(2025, 12, 1), "2025-12"},
		{date(1999, 7, 15), "1999-07"},
	}
	for i, tc := range cases {
		if got := MonthKey(tc.in); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestRequestRecordValidate(t *testing.T) {
	good := RequestRecord{
		Date:        date(2025, 3, 1),
		Department:  "Finance",
		Description: "Pen",
		Quantity:    3,
		UnitPrice:   5000,
		Total:       15000,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		rec  RequestRecord
		want error
	}{
		{RequestRecord{Description: "Pen", Quantity: 1}, ErrZeroDate},
		{RequestRecord{Date: date(2025, 3, 1), Quantity: 1}, ErrEmptyDescription},
		{RequestRecord{Date: date(2025, 3, 1), Description: "Pen", Quantity: 0}, ErrInvalidQuantity},
		{RequestRecord{Date: date(2025, 3, 1), Description: "Pen", Quantity: -2}, ErrInvalidQuantity},
	}
	for i, tc := range bads {
		if err := tc.rec.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestUsageRecordValidate(t *testing.T) {
	good := UsageRecord{
		Date:         date(2025, 3, 1),
		Department:   "Warehouse",
		Description:  "Stapler",
		QuantityUsed: 1,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (UsageRecord{Date: date(2025, 3, 1), Description: "x"}).Validate(); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}
