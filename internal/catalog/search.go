package catalog

import (
	"iter"
	"strings"

	"millex/internal"
	"millex/internal/util"
)

// Index holds the folded code and name of every record in a line. It is
// rebuilt whenever the line loads and never mutates the records themselves.
type Index struct {
	line   internal.CatalogLine
	folded []foldedRecord
}

type foldedRecord struct {
	code string
	name string
}

func BuildIndex(line internal.CatalogLine) *Index {
	idx := &Index{line: line, folded: make([]foldedRecord, 0, len(line.Records))}
	for _, record := range line.Records {
		idx.folded = append(idx.folded, foldedRecord{
			code: util.Fold(record.Code),
			name: util.Fold(record.Name),
		})
	}
	return idx
}

// Search yields the records whose folded code or name contains the folded
// query as a substring. An empty query yields every record; source order is
// preserved either way. The sequence restarts from the top on every range.
func (idx *Index) Search(query string) iter.Seq[internal.ProductRecord] {
	folded := util.Fold(strings.TrimSpace(query))
	return func(yield func(internal.ProductRecord) bool) {
		for i, record := range idx.line.Records {
			if folded != "" &&
				!strings.Contains(idx.folded[i].code, folded) &&
				!strings.Contains(idx.folded[i].name, folded) {
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}

// Paginate materializes the sequence and returns the window
// [(page-1)*pageSize, page*pageSize) together with the page number actually
// served: out-of-range requests clamp to the nearest valid page and the
// clamped number is what callers must report back. A page size below 1 is a
// configuration error.
func Paginate(seq iter.Seq[internal.ProductRecord], pageSize, pageNumber int) ([]internal.ProductRecord, int, error) {
	if pageSize < 1 {
		return nil, 0, internal.ErrInvalidPageSize
	}

	var all []internal.ProductRecord
	for record := range seq {
		all = append(all, record)
	}
	if len(all) == 0 {
		return nil, 1, nil
	}

	lastPage := (len(all) + pageSize - 1) / pageSize
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > lastPage {
		pageNumber = lastPage
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], pageNumber, nil
}

// PageCount reports how many pages a sequence spans with the given page size.
func PageCount(seq iter.Seq[internal.ProductRecord], pageSize int) (int, error) {
	if pageSize < 1 {
		return 0, internal.ErrInvalidPageSize
	}
	count := 0
	for range seq {
		count++
	}
	return (count + pageSize - 1) / pageSize, nil
}
