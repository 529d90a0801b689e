package dataset

import (
	"sort"
	"strconv"
	"strings"
)

// Frame is an immutable view over the loaded voting records. Every operation returns a new Frame
// sharing the underlying rows, so the dataset itself is never mutated after load. The exported
// methods form the surface available to interpreted analysis snippets, which is why they swallow
// unknown column names instead of returning errors: a bad column yields an empty result that shows
// up in the answer, not a crashed interpreter.
type Frame struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewFrame builds a frame from column names and rows. Rows shorter than the column set are padded
// with empty cells.
func NewFrame(name string, columns []string, rows [][]string) *Frame {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}
	for i, row := range rows {
		for len(row) < len(columns) {
			row = append(row, "")
		}
		rows[i] = row
	}
	return &Frame{name: name, columns: columns, index: index, rows: rows}
}

func (f *Frame) Name() string      { return f.name }
func (f *Frame) Columns() []string { return f.columns }
func (f *Frame) NumRows() int      { return len(f.rows) }

// Rows returns up to limit raw rows; limit <= 0 means all.
func (f *Frame) Rows(limit int) [][]string {
	if limit <= 0 || limit > len(f.rows) {
		limit = len(f.rows)
	}
	out := make([][]string, limit)
	copy(out, f.rows[:limit])
	return out
}

// Cell returns the raw value at (row, col), or "" if out of range.
func (f *Frame) Cell(row int, col string) string {
	idx, ok := f.index[col]
	if !ok || row < 0 || row >= len(f.rows) {
		return ""
	}
	return f.rows[row][idx]
}

// Column returns all values of the named column, or nil for an unknown column.
func (f *Frame) Column(col string) []string {
	idx, ok := f.index[col]
	if !ok {
		return nil
	}
	out := make([]string, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[idx]
	}
	return out
}

func (f *Frame) withRows(rows [][]string) *Frame {
	return &Frame{name: f.name, columns: f.columns, index: f.index, rows: rows}
}

// Select returns a frame containing the rows for which keep returns true.
func (f *Frame) Select(keep func(row int) bool) *Frame {
	var rows [][]string
	for i, row := range f.rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}
	return f.withRows(rows)
}

// Head returns a frame containing the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	return f.withRows(f.rows[:n])
}

// MatchCell reports whether a single cell satisfies op against value, using the column's kind.
// Integer columns compare numerically, date columns chronologically (ISO dates sort
// lexicographically), everything else as strings. "contains" is case-insensitive.
func MatchCell(kind Kind, cell, op string, value string) bool {
	switch op {
	case "contains":
		return strings.Contains(strings.ToLower(cell), strings.ToLower(value))
	}

	if kind == KindInt {
		a, errA := strconv.Atoi(strings.TrimSpace(cell))
		b, errB := strconv.Atoi(strings.TrimSpace(value))
		if errA != nil || errB != nil {
			return false
		}
		switch op {
		case "==", "=":
			return a == b
		case "!=":
			return a != b
		case ">":
			return a > b
		case ">=":
			return a >= b
		case "<":
			return a < b
		case "<=":
			return a <= b
		}
		return false
	}

	// Dates are normalized to YYYY-MM-DD at load time, so ordered string comparison is
	// chronological. Empty cells never satisfy an ordered comparison.
	if kind == KindDate && (op == ">" || op == ">=" || op == "<" || op == "<=") && cell == "" {
		return false
	}

	switch op {
	case "==", "=":
		return cell == value
	case "!=":
		return cell != value
	case ">":
		return cell > value
	case ">=":
		return cell >= value
	case "<":
		return cell < value
	case "<=":
		return cell <= value
	}
	return false
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		// Snippets routinely write years as untyped constants, which arrive here as float64
		// through the interface; render them without a fractional part when they are whole.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Where filters rows where column op value holds. Unknown columns match nothing.
func (f *Frame) Where(col, op string, value any) *Frame {
	idx, ok := f.index[col]
	if !ok {
		return f.withRows(nil)
	}
	kind := columnKind(col)
	want := formatValue(value)
	var rows [][]string
	for _, row := range f.rows {
		if MatchCell(kind, row[idx], op, want) {
			rows = append(rows, row)
		}
	}
	return f.withRows(rows)
}

// WhereIn filters rows whose column value is one of values.
func (f *Frame) WhereIn(col string, values []string) *Frame {
	idx, ok := f.index[col]
	if !ok {
		return f.withRows(nil)
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	var rows [][]string
	for _, row := range f.rows {
		if _, ok := set[row[idx]]; ok {
			rows = append(rows, row)
		}
	}
	return f.withRows(rows)
}

// DropDuplicates keeps the first row for each distinct value of col.
func (f *Frame) DropDuplicates(col string) *Frame {
	idx, ok := f.index[col]
	if !ok {
		return f.withRows(nil)
	}
	seen := make(map[string]struct{})
	var rows [][]string
	for _, row := range f.rows {
		if _, dup := seen[row[idx]]; dup {
			continue
		}
		seen[row[idx]] = struct{}{}
		rows = append(rows, row)
	}
	return f.withRows(rows)
}

// NumUnique counts distinct non-empty values of col.
func (f *Frame) NumUnique(col string) int {
	idx, ok := f.index[col]
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for _, row := range f.rows {
		if row[idx] != "" {
			seen[row[idx]] = struct{}{}
		}
	}
	return len(seen)
}

// Series is an ordered label/count pairing produced by CountBy.
type Series struct {
	Labels []string
	Values []float64
}

// CountBy tallies rows per distinct value of col, ordered by descending count with ties broken by
// label.
func (f *Frame) CountBy(col string) *Series {
	idx, ok := f.index[col]
	if !ok {
		return &Series{}
	}
	counts := make(map[string]int)
	for _, row := range f.rows {
		counts[row[idx]]++
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	s := &Series{Labels: labels, Values: make([]float64, len(labels))}
	for i, label := range labels {
		s.Values[i] = float64(counts[label])
	}
	return s
}

// Pivot is a two-dimensional count table produced by PivotCount: one row label per distinct rowCol
// value, one series per distinct colCol value.
type Pivot struct {
	RowLabels []string
	ColLabels []string
	Counts    [][]float64 // indexed [col][row], one slice per ColLabel
}

// PivotCount cross-tabulates rows by (rowCol, colCol). Row labels sort ascending (numerically when
// rowCol is an integer column), column labels sort ascending.
func (f *Frame) PivotCount(rowCol, colCol string) *Pivot {
	ri, ok := f.index[rowCol]
	if !ok {
		return &Pivot{}
	}
	ci, ok := f.index[colCol]
	if !ok {
		return &Pivot{}
	}

	counts := make(map[string]map[string]int)
	colSet := make(map[string]struct{})
	for _, row := range f.rows {
		r, c := row[ri], row[ci]
		if counts[r] == nil {
			counts[r] = make(map[string]int)
		}
		counts[r][c]++
		colSet[c] = struct{}{}
	}

	rowLabels := make([]string, 0, len(counts))
	for label := range counts {
		rowLabels = append(rowLabels, label)
	}
	rowKind := columnKind(rowCol)
	sort.Slice(rowLabels, func(i, j int) bool {
		if rowKind == KindInt {
			a, errA := strconv.Atoi(rowLabels[i])
			b, errB := strconv.Atoi(rowLabels[j])
			if errA == nil && errB == nil {
				return a < b
			}
		}
		return rowLabels[i] < rowLabels[j]
	})

	colLabels := make([]string, 0, len(colSet))
	for label := range colSet {
		colLabels = append(colLabels, label)
	}
	sort.Strings(colLabels)

	p := &Pivot{RowLabels: rowLabels, ColLabels: colLabels}
	for _, col := range colLabels {
		vals := make([]float64, len(rowLabels))
		for i, row := range rowLabels {
			vals[i] = float64(counts[row][col])
		}
		p.Counts = append(p.Counts, vals)
	}
	return p
}
