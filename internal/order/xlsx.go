package order

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"millex/internal/cart"
)

const (
	XLSXFileName = "pedido.xlsx"
	XLSXMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// XLSX exports the cart as a spreadsheet: one row per line, a totals row at
// the bottom. Mirrors the PDF content for customers who want to edit the
// order before sending it back.
func XLSX(c *cart.Cart) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"codigo", "detalle", "precio", "cantidad", "subtotal"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	r := 2
	for _, line := range c.Lines() {
		set := func(col int, value any) error {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			return f.SetCellValue(sheet, cell, value)
		}
		price, _ := line.Price.Float64()
		subtotal, _ := line.Subtotal().Float64()
		for col, value := range map[int]any{
			1: line.Code, 2: line.Name, 3: price, 4: line.Quantity, 5: subtotal,
		} {
			if err := set(col, value); err != nil {
				return nil, err
			}
		}
		r++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(4, r)
	totalCell, _ := excelize.CoordinatesToCellName(5, r)
	if err := f.SetCellValue(sheet, totalLabel, "total"); err != nil {
		return nil, err
	}
	total, _ := c.Total().Float64()
	if err := f.SetCellValue(sheet, totalCell, total); err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
