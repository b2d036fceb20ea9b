package order

import (
	"strconv"

	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"millex/internal/cart"
	"millex/internal/util"
)

// Contract of the downloadable artifact; layout details are not.
const (
	PDFFileName = "pedido.pdf"
	PDFMIMEType = "application/pdf"
)

// PDF lays the cart out as a fixed-format order document: one row per line
// and a grand-total footer. Maroto starts a new page whenever the remaining
// vertical space cannot hold the next row, so long carts span pages instead
// of being truncated.
func PDF(c *cart.Cart) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text("Pedido Millex", props.Text{Size: 18, Style: consts.Bold})
		})
	})
	m.Row(6, func() {})

	m.Row(6, func() {
		m.Col(2, func() {
			m.Text("Código", props.Text{Size: 9, Style: consts.Bold})
		})
		m.Col(5, func() {
			m.Text("Detalle", props.Text{Size: 9, Style: consts.Bold})
		})
		m.Col(1, func() {
			m.Text("Cant.", props.Text{Size: 9, Style: consts.Bold, Align: consts.Right})
		})
		m.Col(2, func() {
			m.Text("Precio", props.Text{Size: 9, Style: consts.Bold, Align: consts.Right})
		})
		m.Col(2, func() {
			m.Text("Subtotal", props.Text{Size: 9, Style: consts.Bold, Align: consts.Right})
		})
	})

	for _, line := range c.Lines() {
		line := line
		m.Row(6, func() {
			m.Col(2, func() {
				m.Text(line.Code, props.Text{Size: 9})
			})
			m.Col(5, func() {
				m.Text(line.Name, props.Text{Size: 9})
			})
			m.Col(1, func() {
				m.Text(strconv.Itoa(line.Quantity), props.Text{Size: 9, Align: consts.Right})
			})
			m.Col(2, func() {
				m.Text(util.FormatMoney(line.Price), props.Text{Size: 9, Align: consts.Right})
			})
			m.Col(2, func() {
				m.Text(util.FormatMoney(line.Subtotal()), props.Text{Size: 9, Align: consts.Right})
			})
		})
	}

	m.Row(4, func() {})
	m.Row(8, func() {
		m.Col(10, func() {
			m.Text("Total", props.Text{Size: 11, Style: consts.Bold, Align: consts.Right})
		})
		m.Col(2, func() {
			m.Text(util.FormatMoney(c.Total()), props.Text{Size: 11, Style: consts.Bold, Align: consts.Right})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
