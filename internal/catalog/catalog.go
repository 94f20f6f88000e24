// Package catalog loads and serves the item master: the reference table
// of purchasable items that request and usage forms resolve against.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"stationery/internal/core"
)

var (
	// ErrLoad reports a missing or unparsable item master source.
	ErrLoad = errors.New("item master load failed")
	// ErrNotFound reports a lookup miss on an item description.
	ErrNotFound = errors.New("item not found in catalog")
)

// defaultUOM is the placeholder shown when the source has no UOM column.
const defaultUOM = "-"

// Catalog is an immutable, ordered item master. Duplicate descriptions
// are kept in load order; Lookup always answers with the first one.
type Catalog struct {
	items []core.CatalogItem
	index map[string]int // trimmed description -> first row
}

// Source supplies the raw item master. Implementations exist for local
// CSV files and Google Sheets.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Parse builds a Catalog from a header row and data rows. Header cells
// are whitespace-trimmed first so incidental formatting cannot defeat
// column detection. The unit-price column is the first header containing
// "price" case-insensitively, falling back to a column literally named
// "Unit Price", falling back to a constant 0 price.
func Parse(headers []string, rows [][]string) (*Catalog, error) {
	trimmed := make([]string, len(headers))
	for i, h := range headers {
		trimmed[i] = strings.TrimSpace(h)
	}

	colDesc := indexOf(trimmed, "Description")
	if colDesc == -1 {
		return nil, fmt.Errorf("%w: missing Description column (headers=%v)", ErrLoad, trimmed)
	}
	colPart := indexOf(trimmed, "Part Number")
	colUOM := indexOf(trimmed, "UOM")
	colPrice := priceColumn(trimmed)

	c := &Catalog{index: make(map[string]int)}
	for _, row := range rows {
		desc := strings.TrimSpace(cell(row, colDesc))
		if desc == "" {
			continue
		}
		item := core.CatalogItem{
			Description: desc,
			PartNumber:  strings.TrimSpace(cell(row, colPart)),
			UOM:         defaultUOM,
		}
		if uom := strings.TrimSpace(cell(row, colUOM)); uom != "" {
			item.UOM = uom
		}
		if colPrice != -1 {
			// Unparsable prices degrade to 0, matching the tolerant
			// any-shape behavior of the original item master.
			if p, err := core.ParsePrice(cell(row, colPrice)); err == nil {
				item.UnitPrice = p
			}
		}
		if _, dup := c.index[desc]; !dup {
			c.index[desc] = len(c.items)
		}
		c.items = append(c.items, item)
	}
	return c, nil
}

// Lookup resolves a trimmed description to its first matching item.
func (c *Catalog) Lookup(description string) (core.CatalogItem, error) {
	i, ok := c.index[strings.TrimSpace(description)]
	if !ok {
		return core.CatalogItem{}, fmt.Errorf("%w: %q", ErrNotFound, description)
	}
	return c.items[i], nil
}

// Items returns the catalog rows in load order as a copy.
func (c *Catalog) Items() []core.CatalogItem {
	out := make([]core.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

// Descriptions returns the item names in load order, duplicates included.
func (c *Catalog) Descriptions() []string {
	out := make([]string, len(c.items))
	for i, item := range c.items {
		out[i] = item.Description
	}
	return out
}

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.items) }

func priceColumn(headers []string) int {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "price") {
			return i
		}
	}
	return indexOf(headers, "Unit Price")
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Store caches a loaded catalog for the session and serves lookups from
// the cache. Reload fully replaces the cached catalog, which is how a
// re-uploaded item master takes effect.
type Store struct {
	mu      sync.RWMutex
	source  Source
	current *Catalog
}

func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Reload loads from the source and swaps the cache on success. On failure
// the previous catalog (if any) stays in place.
func (s *Store) Reload(ctx context.Context) error {
	c, err := s.source.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	return nil
}

// Catalog returns the cached catalog, loading it on first use.
func (s *Store) Catalog(ctx context.Context) (*Catalog, error) {
	s.mu.RLock()
	c := s.current
	s.mu.RUnlock()
	if c != nil {
		return c, nil
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

// Lookup resolves a description against the cached catalog.
func (s *Store) Lookup(ctx context.Context, description string) (core.CatalogItem, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return core.CatalogItem{}, err
	}
	return c.Lookup(description)
}
