package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const publishedHTML = `
<html><body><table>
<tr><td></td><td></td><td></td><td></td></tr>
<tr><td></td><td>Código</td><td>Detalle</td><td>Precio</td></tr>
<tr><td>1</td><td>A1</td><td>Collar</td><td>$100.00</td></tr>
<tr><td>2</td><td>A2</td><td>Ración</td><td>$1,250.50</td></tr>
<tr><td>3</td><td></td><td></td><td></td></tr>
<tr><td>4</td><td>Z9</td><td>ignorado</td><td>$1</td></tr>
</table></body></html>`

func TestParseHTML(t *testing.T) {
	line, err := ParseHTML(publishedHTML, testSrc)
	if err != nil {
		t.Fatal(err)
	}
	if len(line.Records) != 2 {
		t.Fatalf("records=%d want 2", len(line.Records))
	}
	if line.Records[1].Name != "Ración" {
		t.Fatalf("name=%q", line.Records[1].Name)
	}
	if !line.Records[1].Price.Equal(decimal.RequireFromString("1250.5")) {
		t.Fatalf("price=%s", line.Records[1].Price)
	}
	if len(line.Warnings) != 1 || !strings.Contains(line.Warnings[0], "sentinel") {
		t.Fatalf("expected trailing-row warning, got %v", line.Warnings)
	}
}

func TestParseHTMLNoTable(t *testing.T) {
	if _, err := ParseHTML("<html><body><p>hola</p></body></html>", testSrc); err == nil {
		t.Fatal("expected error for document without table")
	}
}
