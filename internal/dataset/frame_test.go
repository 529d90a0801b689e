package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unsc-explorer/internal/dataset"
)

func testFrame() *dataset.Frame {
	columns := dataset.ColumnNames()
	rows := [][]string{
		{"1", "1994", "1994-05-31", "924 (1994)", "S/1994/646", "Adopted unanimously", "Yemen", "Country-specific", "Middle East", "Yes", "France"},
		{"1", "1994", "1994-05-31", "924 (1994)", "S/1994/646", "Adopted unanimously", "Yemen", "Country-specific", "Middle East", "Yes", "China"},
		{"2", "2002", "2002-03-14", "", "S/2002/275", "Not adopted - veto", "Middle East", "Country-specific", "Middle East", "No", "United States"},
		{"3", "2004", "2004-06-01", "", "S/2004/100", "Not adopted - veto", "Cyprus", "Country-specific", "Europe", "No", "Russian Federation"},
		{"4", "2004", "2004-07-09", "1554 (2004)", "S/2004/533", "Adopted by majority", "Bosnia", "Country-specific", "Europe", "Abstain", "France"},
	}
	return dataset.NewFrame("test", columns, rows)
}

func TestWhereStringEq(t *testing.T) {
	f := testFrame()
	assert.Equal(t, 2, f.Where(dataset.ColMemberState, "==", "France").NumRows())
	assert.Equal(t, 0, f.Where(dataset.ColMemberState, "==", "Brazil").NumRows())
	assert.Equal(t, 3, f.Where(dataset.ColMemberState, "!=", "France").NumRows())
}

func TestWhereIntComparisons(t *testing.T) {
	f := testFrame()
	assert.Equal(t, 3, f.Where(dataset.ColYear, ">", 2000).NumRows())
	assert.Equal(t, 2, f.Where(dataset.ColYear, "==", 2004).NumRows())
	assert.Equal(t, 5, f.Where(dataset.ColYear, ">=", 1994).NumRows())
	// Untyped constants pass through interface{} as int; floats must also work.
	assert.Equal(t, 3, f.Where(dataset.ColYear, ">", 2000.0).NumRows())
}

func TestWhereDateOrdering(t *testing.T) {
	f := testFrame()
	assert.Equal(t, 2, f.Where(dataset.ColDate, ">=", "2004-01-01").NumRows())
	assert.Equal(t, 2, f.Where(dataset.ColDate, "<", "2002-01-01").NumRows())
}

func TestWhereContains(t *testing.T) {
	f := testFrame()
	assert.Equal(t, 2, f.Where(dataset.ColOutcomeResults, "contains", "not adopted").NumRows())
}

func TestWhereUnknownColumn(t *testing.T) {
	f := testFrame()
	assert.Equal(t, 0, f.Where("No Such Column", "==", "x").NumRows())
}

func TestWhereChaining(t *testing.T) {
	f := testFrame()
	out := f.Where(dataset.ColVote, "==", "No").Where(dataset.ColYear, ">=", 2004)
	assert.Equal(t, 1, out.NumRows())
	assert.Equal(t, "Russian Federation", out.Cell(0, dataset.ColMemberState))
}

func TestWhereIn(t *testing.T) {
	f := testFrame()
	p5 := []string{"China", "France", "Russian Federation", "United Kingdom", "United States"}
	assert.Equal(t, 5, f.WhereIn(dataset.ColMemberState, p5).NumRows())
	assert.Equal(t, 2, f.WhereIn(dataset.ColMemberState, []string{"France"}).NumRows())
}

func TestDropDuplicatesAndNumUnique(t *testing.T) {
	f := testFrame()
	assert.Equal(t, 4, f.DropDuplicates(dataset.ColDraft).NumRows())
	assert.Equal(t, 4, f.NumUnique(dataset.ColDraft))
	assert.Equal(t, 2, f.NumUnique(dataset.ColResolution)) // empty cells are not values
}

func TestCountByOrdering(t *testing.T) {
	f := testFrame()
	s := f.CountBy(dataset.ColMemberState)
	assert.Equal(t, []string{"France", "China", "Russian Federation", "United States"}, s.Labels)
	assert.Equal(t, []float64{2, 1, 1, 1}, s.Values)
}

func TestPivotCount(t *testing.T) {
	f := testFrame()
	p := f.DropDuplicates(dataset.ColDraft).PivotCount(dataset.ColYear, dataset.ColOutcomeResults)

	assert.Equal(t, []string{"1994", "2002", "2004"}, p.RowLabels)
	assert.Equal(t, []string{"Adopted by majority", "Adopted unanimously", "Not adopted - veto"}, p.ColLabels)

	// One series per outcome, one value per year.
	assert.Equal(t, []float64{0, 0, 1}, p.Counts[0]) // Adopted by majority
	assert.Equal(t, []float64{1, 0, 0}, p.Counts[1]) // Adopted unanimously
	assert.Equal(t, []float64{0, 1, 1}, p.Counts[2]) // Not adopted - veto
}

func TestHeadAndRows(t *testing.T) {
	f := testFrame()
	assert.Equal(t, 2, f.Head(2).NumRows())
	assert.Equal(t, 5, f.Head(10).NumRows())
	assert.Len(t, f.Rows(3), 3)
	assert.Len(t, f.Rows(0), 5)
}

func TestFrameImmutability(t *testing.T) {
	f := testFrame()
	before := f.NumRows()
	f.Where(dataset.ColVote, "==", "No")
	f.DropDuplicates(dataset.ColDraft)
	assert.Equal(t, before, f.NumRows())
}
