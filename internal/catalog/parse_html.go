package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"millex/internal"
	"millex/internal/config"
	"millex/internal/util"
)

// isHTMLPayload distinguishes a published-to-web HTML document from an xlsx
// workbook, which always starts with the zip magic.
func isHTMLPayload(blob []byte) bool {
	if bytes.HasPrefix(blob, []byte("PK")) {
		return false
	}
	head := bytes.TrimLeft(blob, " \t\r\n")
	return len(head) > 0 && head[0] == '<'
}

// ParseHTML reads a catalog line from a sheet published to the web, which
// Google renders as an HTML table. Same column layout and end-of-table
// sentinel as the xlsx export; this format never carries embedded images.
func ParseHTML(html string, src config.CatalogSource) (internal.CatalogLine, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return internal.CatalogLine{}, &internal.ParseError{SourceID: src.SourceID, Err: err}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return internal.CatalogLine{}, &internal.ParseError{SourceID: src.SourceID, Err: fmt.Errorf("no table in document")}
	}

	line := internal.CatalogLine{Name: src.Name, SourceID: src.SourceID}
	stopped := false
	trailing := 0
	firstTrailing := 0

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		sheetRow := i + 1
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, util.NormalizeSpaces(cell.Text()))
		})

		if sheetRow < dataStartRow {
			return
		}
		if stopped {
			for _, c := range cells {
				if c != "" {
					trailing++
					if firstTrailing == 0 {
						firstTrailing = sheetRow
					}
					break
				}
			}
			return
		}

		code := cellAt(cells, colCode)
		if code == "" {
			stopped = true
			return
		}
		line.Records = append(line.Records, internal.ProductRecord{
			Code:     code,
			Name:     cellAt(cells, colName),
			Price:    util.ParsePrice(cellAt(cells, colPrice)),
			SheetRow: sheetRow,
		})
	})

	if trailing > 0 {
		line.Warnings = append(line.Warnings,
			fmt.Sprintf("%d populated row(s) after end-of-table sentinel were ignored (first: row %d)", trailing, firstTrailing))
	}

	return line, nil
}
