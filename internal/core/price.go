// Package core holds the request/usage record model and its derivation
// rules: price lookup, total computation, filtering and aggregation.
package core

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice converts a price cell or form value to a non-negative float.
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// tolerates thousands separators like "5,000.00" or "5.000,00" by keeping
// the last separator as the decimal point. Negative values are rejected.
//
// Examples:
//
//	ParsePrice("5000")     -> 5000, nil
//	ParsePrice("12,34")    -> 12.34, nil
//	ParsePrice("5,000.50") -> 5000.5, nil
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrInvalidPrice
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The later separator is the decimal point, the other grouping.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// ParseQuantity converts a form value to a positive integer quantity.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	q, err := strconv.Atoi(s)
	if err != nil || q <= 0 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}
