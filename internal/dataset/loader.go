package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// day-first layouts seen in the source spreadsheet exports.
var dateLayouts = []string{"02/01/2006", "2/1/2006", "02/01/2006 15:04", "2006-01-02"}

// Load reads a voting dataset from a CSV, TSV, or XLSX file, validates it against the schema, and
// normalizes date and year cells.
func Load(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset %s: %w", path, err)
	}
	defer file.Close()

	return LoadReader(filepath.Base(path), file)
}

// LoadReader reads a dataset from r. The name's extension selects the format: .xlsx is read as a
// spreadsheet (first sheet), anything else as delimited text with the delimiter auto-detected
// among comma, semicolon, and tab.
func LoadReader(name string, r io.Reader) (*Frame, error) {
	var records [][]string
	var err error
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		records, err = readSheet(r)
	} else {
		records, err = readDelimited(r)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read dataset %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", name)
	}

	header := records[0]
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}

	// Map schema columns to source positions; extra source columns are ignored.
	positions := make([]int, len(Schema))
	for i, spec := range Schema {
		positions[i] = -1
		for j, col := range header {
			if col == spec.Name {
				positions[i] = j
				break
			}
		}
		if positions[i] < 0 {
			return nil, fmt.Errorf("dataset %s is missing required column %q", name, spec.Name)
		}
	}

	columns := ColumnNames()
	rows := make([][]string, 0, len(records)-1)
	dropped := 0
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row := make([]string, len(columns))
		for i, pos := range positions {
			var cell string
			if pos < len(record) {
				cell = strings.TrimSpace(record[pos])
			}
			switch Schema[i].Kind {
			case KindDate:
				cell = normalizeDate(cell)
			case KindInt:
				var ok bool
				cell, ok = normalizeYear(cell)
				if !ok {
					dropped++
				}
			}
			row[i] = cell
		}
		rows = append(rows, row)
	}

	if dropped > 0 {
		slog.Warn("dataset rows with unparseable year", "dataset", name, "rows", dropped)
	}
	slog.Info("dataset loaded", "dataset", name, "rows", len(rows), "columns", len(columns))

	return NewFrame(strings.TrimSuffix(name, filepath.Ext(name)), columns, rows), nil
}

func readDelimited(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

func readSheet(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return book.GetRows(sheets[0])
}

// detectDelimiter picks the delimiter that splits the header line into the most fields.
func detectDelimiter(text string) rune {
	header := text
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	best, bestCount := ',', strings.Count(header, ",")
	for _, cand := range []rune{';', '\t'} {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeDate converts a day-first date to ISO YYYY-MM-DD so that string order is chronological
// order. Unparseable dates become empty, mirroring a coerced NaT.
func normalizeDate(cell string) string {
	if cell == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// normalizeYear coerces a year label to a plain integer string. Spreadsheet round-trips often turn
// years into floats ("1994.0"); those are rounded back.
func normalizeYear(cell string) (string, bool) {
	if cell == "" {
		return "", true
	}
	if _, err := strconv.Atoi(cell); err == nil {
		return cell, true
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return strconv.FormatInt(int64(math.Round(v)), 10), true
	}
	return "", false
}
