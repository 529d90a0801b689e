package query

import (
	"unsc-explorer/internal/dataset"
)

// Filter decides whether a single dataset row matches a parsed query.
type Filter interface {
	Matches(f *dataset.Frame, row int) bool
}

type AndFilter struct {
	filters []Filter
}

func (f *AndFilter) Matches(frame *dataset.Frame, row int) bool {
	for _, filter := range f.filters {
		if !filter.Matches(frame, row) {
			return false
		}
	}
	return true
}

type OrFilter struct {
	filters []Filter
}

func (f *OrFilter) Matches(frame *dataset.Frame, row int) bool {
	for _, filter := range f.filters {
		if filter.Matches(frame, row) {
			return true
		}
	}
	return false
}

type NotFilter struct {
	filter Filter
}

func (f *NotFilter) Matches(frame *dataset.Frame, row int) bool {
	return !f.filter.Matches(frame, row)
}

// CmpFilter compares one column against a literal with the column's kind semantics.
type CmpFilter struct {
	column string
	op     string
	value  string
}

func (f *CmpFilter) Matches(frame *dataset.Frame, row int) bool {
	return dataset.MatchCell(dataset.KindOf(f.column), frame.Cell(row, f.column), f.op, f.value)
}

type ContainsFilter struct {
	column string
	substr string
}

func (f *ContainsFilter) Matches(frame *dataset.Frame, row int) bool {
	return dataset.MatchCell(dataset.KindOf(f.column), frame.Cell(row, f.column), "contains", f.substr)
}

// Apply returns the rows of f matching filter.
func Apply(f *dataset.Frame, filter Filter) *dataset.Frame {
	return f.Select(func(row int) bool { return filter.Matches(f, row) })
}
