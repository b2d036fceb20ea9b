package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRecord is one row of a catalog sheet. Records are built in bulk when a
// line is loaded and never mutated afterwards; a reload replaces them wholesale.
type ProductRecord struct {
	Code  string
	Name  string
	Price decimal.Decimal
	// Image holds the raw embedded picture bytes for this row, nil when the
	// sheet has no picture anchored to it.
	Image []byte
	// SheetRow is the 1-based row in the source sheet, used only to associate
	// anchored pictures with records.
	SheetRow int
}

// CatalogLine is one named grouping of products, loaded from a single sheet.
// Records keep source row order; that order is the default display order.
type CatalogLine struct {
	Name     string
	SourceID string
	Records  []ProductRecord
	// Warnings collects per-load anomalies that did not abort the load, such as
	// populated rows found after the end-of-table sentinel.
	Warnings []string
}

// Snapshot is a locally cached, immutable copy of a remote spreadsheet payload.
type Snapshot struct {
	SourceID  string
	Path      string
	Hash      string
	FetchedAt time.Time
	// FromCache reports whether the snapshot was served from the local cache
	// without a remote request.
	FromCache bool
}

// LineSnapshot describes what sits in the cart for one product: the identity
// and price captured at the moment it was added. It is deliberately not
// re-synced when the catalog reloads.
type LineSnapshot struct {
	Name  string
	Price decimal.Decimal
}

// CartLine is one cart entry. Quantity is always >= 1; a zero quantity means
// the line does not exist.
type CartLine struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
