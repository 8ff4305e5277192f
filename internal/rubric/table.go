package rubric

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a spreadsheet lacks the requested sheet.
var ErrSheetNotFound = errors.New("rubric sheet not found")

// Table is a raw grid of cell text, row-major, with no header applied.
// Rows may have different lengths; missing cells read as "".
type Table [][]string

// Cell returns the trimmed text at (row, col), or "" when out of bounds.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t) || col < 0 || col >= len(t[row]) {
		return ""
	}
	return strings.TrimSpace(t[row][col])
}

// Format identifies the encoding of a rubric source.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks a format from the source key's extension.
// Anything that is not .csv is treated as a spreadsheet.
func FormatFor(key string) Format {
	if strings.EqualFold(filepath.Ext(key), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// ReadTable decodes r into a Table. sheet selects an XLSX worksheet; the
// first sheet is used when it is empty. It is ignored for CSV.
func ReadTable(r io.Reader, format Format, sheet string) (Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r, sheet)
	default:
		return nil, errors.Errorf("unsupported rubric format: %s", format)
	}
}

func readCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv rubric")
	}
	return Table(rows), nil
}

func readXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx rubric")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("xlsx rubric has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		var missing excelize.ErrSheetNotExist
		if errors.As(err, &missing) {
			return nil, errors.Wrapf(ErrSheetNotFound, "sheet %q", sheet)
		}
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	return Table(rows), nil
}
