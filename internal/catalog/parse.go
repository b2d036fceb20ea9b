package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"millex/internal"
	"millex/internal/config"
	"millex/internal/util"
)

// Sheet layout inherited from the upstream catalog template: two header rows,
// data from row 3, columns B/C/D holding code, name and price.
const (
	dataStartRow = 3
	colCode      = 2
	colName      = 3
	colPrice     = 4
)

// Parse reads one catalog line out of an xlsx payload. With an empty sheet
// selector the active sheet is used; a named sheet that does not exist is a
// ParseError. Reading stops at the first row with an empty code cell: the
// upstream sheets use that as an end-of-table sentinel. Populated rows found
// after the sentinel are reported as a warning, not an error.
func Parse(blob []byte, src config.CatalogSource, sheetSelector string) (internal.CatalogLine, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return internal.CatalogLine{}, &internal.ParseError{SourceID: src.SourceID, Err: err}
	}
	defer f.Close()

	sheet, err := resolveSheet(f, sheetSelector)
	if err != nil {
		return internal.CatalogLine{}, &internal.ParseError{SourceID: src.SourceID, Sheet: sheetSelector, Err: err}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return internal.CatalogLine{}, &internal.ParseError{SourceID: src.SourceID, Sheet: sheet, Err: err}
	}

	line := internal.CatalogLine{Name: src.Name, SourceID: src.SourceID}
	stopRow := 0
	for i := dataStartRow - 1; i < len(rows); i++ {
		sheetRow := i + 1
		code := cellAt(rows[i], colCode)
		if code == "" {
			stopRow = sheetRow
			break
		}
		line.Records = append(line.Records, internal.ProductRecord{
			Code:     code,
			Name:     cellAt(rows[i], colName),
			Price:    util.ParsePrice(cellAt(rows[i], colPrice)),
			SheetRow: sheetRow,
		})
	}

	if w := trailingRowsWarning(rows, stopRow); w != "" {
		line.Warnings = append(line.Warnings, w)
	}

	if err := attachImages(f, sheet, &line); err != nil {
		return internal.CatalogLine{}, &internal.ParseError{SourceID: src.SourceID, Sheet: sheet, Err: err}
	}

	return line, nil
}

func resolveSheet(f *excelize.File, selector string) (string, error) {
	if selector == "" {
		return f.GetSheetName(f.GetActiveSheetIndex()), nil
	}
	for _, name := range f.GetSheetList() {
		if name == selector {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet not found")
}

// attachImages associates embedded pictures with records by anchor row. The
// anchor-to-row convention is fragile, so two pictures landing on the same
// data row abort the load instead of silently picking one.
func attachImages(f *excelize.File, sheet string, line *internal.CatalogLine) error {
	cells, err := f.GetPictureCells(sheet)
	if err != nil {
		return err
	}
	if len(cells) == 0 {
		return nil
	}

	recordByRow := make(map[int]*internal.ProductRecord, len(line.Records))
	for i := range line.Records {
		recordByRow[line.Records[i].SheetRow] = &line.Records[i]
	}

	for _, cell := range cells {
		_, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil {
			return err
		}
		record, ok := recordByRow[row]
		if !ok {
			line.Warnings = append(line.Warnings, fmt.Sprintf("picture at %s anchors no data row", cell))
			continue
		}

		pics, err := f.GetPictures(sheet, cell)
		if err != nil {
			return err
		}
		if len(pics) == 0 {
			continue
		}
		if record.Image != nil || len(pics) > 1 {
			return fmt.Errorf("ambiguous picture anchor for row %d (code %s)", row, record.Code)
		}
		record.Image = pics[0].File
	}

	return nil
}

func cellAt(row []string, col int) string {
	if col-1 >= len(row) {
		return ""
	}
	return util.NormalizeSpaces(row[col-1])
}

func trailingRowsWarning(rows [][]string, stopRow int) string {
	if stopRow == 0 {
		return ""
	}
	var populated []int
	for i := stopRow; i < len(rows); i++ {
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				populated = append(populated, i+1)
				break
			}
		}
	}
	if len(populated) == 0 {
		return ""
	}
	return fmt.Sprintf("%d populated row(s) after end-of-table sentinel at row %d were ignored (first: row %d)",
		len(populated), stopRow, populated[0])
}
