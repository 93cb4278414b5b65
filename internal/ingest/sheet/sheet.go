// Package sheet reads the first worksheet of an xlsx workbook into rows
// keyed by canonical field names.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidWorkbook = errors.New("invalid_workbook")
	ErrEmptySheet      = errors.New("empty_sheet")
)

// Aliases maps a canonical field to the header spellings seen in the wild.
type Aliases map[string][]string

// Row is one data row. Number is the 1-based spreadsheet row.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the trimmed value of a canonical field.
func (r Row) Get(field string) string {
	return strings.TrimSpace(r.Values[field])
}

type Table struct {
	Sheet string
	// Fields lists the canonical fields found in the header row.
	Fields []string
	// Unmapped lists header cells that matched no alias.
	Unmapped []string
	Rows     []Row
}

func (t Table) Has(field string) bool {
	for _, f := range t.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Read parses the first sheet of the workbook. The first non-empty row is
// the header. Cells are read raw so dates arrive as Excel serials.
func Read(r io.Reader, aliases Aliases) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrEmptySheet
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	headerAt := -1
	for i, row := range rows {
		if !blank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return Table{}, ErrEmptySheet
	}

	index := buildIndex(aliases)
	table := Table{Sheet: name}
	columns := make(map[int]string)
	for col, cell := range rows[headerAt] {
		key := HeaderKey(cell)
		if key == "" {
			continue
		}
		field, ok := index[key]
		if !ok {
			table.Unmapped = append(table.Unmapped, strings.TrimSpace(cell))
			continue
		}
		if table.Has(field) {
			// First matching column wins.
			continue
		}
		columns[col] = field
		table.Fields = append(table.Fields, field)
	}

	for i := headerAt + 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		values := make(map[string]string, len(columns))
		for col, field := range columns {
			if col < len(rows[i]) {
				values[field] = rows[i][col]
			}
		}
		table.Rows = append(table.Rows, Row{Number: i + 1, Values: values})
	}
	return table, nil
}

// HeaderKey folds case, underscores and repeated spaces so "Total_Rent",
// "total rent" and " TOTAL  RENT " compare equal.
func HeaderKey(header string) string {
	value := strings.ToLower(strings.TrimSpace(header))
	value = strings.NewReplacer("_", " ", "-", " ").Replace(value)
	return strings.Join(strings.Fields(value), " ")
}

func buildIndex(aliases Aliases) map[string]string {
	index := make(map[string]string)
	for field, names := range aliases {
		index[HeaderKey(field)] = field
		for _, name := range names {
			index[HeaderKey(name)] = field
		}
	}
	return index
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
