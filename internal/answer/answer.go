// Package answer collects the output of an interpreted analysis snippet: natural-language lines
// plus zero or more chart payloads that the chat page renders client-side.
package answer

import (
	"fmt"
	"strings"

	"unsc-explorer/internal/dataset"
)

const (
	ChartBar        = "bar"
	ChartLine       = "line"
	ChartStackedBar = "stacked_bar"
)

type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type Chart struct {
	Kind   string        `json:"kind"`
	Title  string        `json:"title,omitempty"`
	Labels []string      `json:"labels"`
	Series []ChartSeries `json:"series"`
}

type Answer struct {
	Lines  []string `json:"lines"`
	Charts []Chart  `json:"charts,omitempty"`
}

// Text renders the collected lines as a single block.
func (a *Answer) Text() string {
	return strings.Join(a.Lines, "\n")
}

// Builder is the `out` value handed to a snippet.
type Builder struct {
	answer Answer
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Text(line string) {
	b.answer.Lines = append(b.answer.Lines, line)
}

func (b *Builder) Textf(format string, args ...any) {
	b.answer.Lines = append(b.answer.Lines, fmt.Sprintf(format, args...))
}

// Table writes up to maxRows rows of f as a markdown table.
func (b *Builder) Table(f *dataset.Frame, maxRows int) {
	if f == nil || f.NumRows() == 0 {
		b.Text("(no rows)")
		return
	}
	if maxRows <= 0 {
		maxRows = 10
	}

	cols := f.Columns()
	b.Text("| " + strings.Join(cols, " | ") + " |")
	sep := make([]string, len(cols))
	for i := range sep {
		sep[i] = "---"
	}
	b.Text("| " + strings.Join(sep, " | ") + " |")
	for _, row := range f.Rows(maxRows) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		b.Text("| " + strings.Join(cells, " | ") + " |")
	}
	if f.NumRows() > maxRows {
		b.Textf("... and %d more rows", f.NumRows()-maxRows)
	}
}

func (b *Builder) BarChart(title string, s *dataset.Series) {
	b.seriesChart(ChartBar, title, s)
}

func (b *Builder) LineChart(title string, s *dataset.Series) {
	b.seriesChart(ChartLine, title, s)
}

func (b *Builder) seriesChart(kind, title string, s *dataset.Series) {
	if s == nil || len(s.Labels) == 0 {
		b.Text("(no data to chart)")
		return
	}
	b.answer.Charts = append(b.answer.Charts, Chart{
		Kind:   kind,
		Title:  title,
		Labels: s.Labels,
		Series: []ChartSeries{{Name: title, Values: s.Values}},
	})
}

// StackedBars charts a pivot as one stacked bar per row label.
func (b *Builder) StackedBars(title string, p *dataset.Pivot) {
	if p == nil || len(p.RowLabels) == 0 {
		b.Text("(no data to chart)")
		return
	}
	chart := Chart{Kind: ChartStackedBar, Title: title, Labels: p.RowLabels}
	for i, col := range p.ColLabels {
		chart.Series = append(chart.Series, ChartSeries{Name: col, Values: p.Counts[i]})
	}
	b.answer.Charts = append(b.answer.Charts, chart)
}

// Answer returns everything collected so far.
func (b *Builder) Answer() *Answer {
	return &b.answer
}
