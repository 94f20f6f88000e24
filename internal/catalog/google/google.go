// Package google loads the item master from a Google Sheet, for offices
// that maintain the item list in a shared spreadsheet instead of a CSV.
package google

import (
	"context"
	"fmt"

	"stationery/internal/catalog"
	"stationery/internal/sheets"
)

// Source reads the named sheet and feeds it through catalog.Parse, so a
// sheet-backed item master follows the same column-resolution rules as a
// CSV one.
type Source struct {
	client    *sheets.Client
	sheetName string
}

func New(client *sheets.Client, sheetName string) *Source {
	return &Source{client: client, sheetName: sheetName}
}

func (s *Source) Load(ctx context.Context) (*catalog.Catalog, error) {
	rows, err := s.client.ReadSheet(ctx, s.sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %v", catalog.ErrLoad, s.sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", catalog.ErrLoad, s.sheetName)
	}
	return catalog.Parse(rows[0], rows[1:])
}
