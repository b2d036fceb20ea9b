package order

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"millex/internal"
)

func TestXLSXExport(t *testing.T) {
	c := cartWith(t,
		internal.CartLine{Code: "A1", Name: "Collar", Price: decimal.NewFromInt(100), Quantity: 2},
	)

	blob, err := XLSX(c)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	// Header, one line, totals row.
	if len(rows) != 3 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[1][0] != "A1" || rows[1][1] != "Collar" {
		t.Fatalf("line row: %v", rows[1])
	}
	if rows[2][4] != "200" {
		t.Fatalf("total cell: %v", rows[2])
	}
}
