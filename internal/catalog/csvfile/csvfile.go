// Package csvfile loads the item master from a local CSV file, the
// format produced by the office's item-master upload.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"stationery/internal/catalog"
)

// Source reads the item master CSV at Path on every Load.
type Source struct {
	Path string
}

func New(path string) *Source {
	return &Source{Path: path}
}

func (s *Source) Load(ctx context.Context) (*catalog.Catalog, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", catalog.ErrLoad, s.Path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses item master CSV content from r.
func Read(r io.Reader) (*catalog.Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", catalog.ErrLoad, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty item master", catalog.ErrLoad)
	}
	return catalog.Parse(records[0], records[1:])
}
