package query

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
)

/*
This is a parser for a small filter language over the voting dataset:

Query       := Expr
Expr        := OrExpr ( "OR" OrExpr )*
OrExpr      := Condition ( "AND" Condition )*
Condition   := [ "NOT" ] ( Filter | "(" Expr ")" )
Filter      := Field Op Value
Field       := <string> | <identifier>
Op          := "CONTAINS" | "<" | ">" | "="
Value       := <string> | <int>

Column names containing spaces ("Member State", "Outcome results") are written as quoted strings.
*/

var parser = participle.MustBuild[QueryExpr](
	participle.Unquote("String"),
	participle.Union[Value](StringValue{}, IntValue{}),
)

// Parse compiles a query string into a Filter.
func Parse(query string) (Filter, error) {
	q, err := parser.ParseString("", query)
	if err != nil {
		return nil, fmt.Errorf("error parsing query '%s': %w", query, err)
	}

	filter, err := q.ToFilter()
	if err != nil {
		return nil, fmt.Errorf("error converting query '%s' to filter: %w", query, err)
	}

	return filter, nil
}

type QueryExpr struct {
	Expr *Expr `parser:"@@"`
}

func (q *QueryExpr) ToFilter() (Filter, error) {
	return q.Expr.ToFilter()
}

type Expr struct {
	Ors []*OrExpr `parser:"@@ ( \"OR\" @@ )*"`
}

func (e *Expr) ToFilter() (Filter, error) {
	if len(e.Ors) == 0 {
		return nil, fmt.Errorf("empty OR expression")
	}

	if len(e.Ors) == 1 {
		return e.Ors[0].ToFilter()
	}

	var filters []Filter
	for _, cond := range e.Ors {
		f, err := cond.ToFilter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	return &OrFilter{filters: filters}, nil
}

type OrExpr struct {
	Ands []*Condition `parser:"@@ ( \"AND\" @@ )*"`
}

func (o *OrExpr) ToFilter() (Filter, error) {
	if len(o.Ands) == 0 {
		return nil, fmt.Errorf("empty AND expression")
	}

	if len(o.Ands) == 1 {
		return o.Ands[0].ToFilter()
	}

	var filters []Filter
	for _, cond := range o.Ands {
		f, err := cond.ToFilter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	return &AndFilter{filters: filters}, nil
}

type Condition struct {
	Not     bool        `parser:"@\"NOT\"?"`
	Filter  *FilterExpr `parser:"( @@"`
	SubExpr *Expr       `parser:"| \"(\" @@ \")\" )"`
}

func (c *Condition) ToFilter() (Filter, error) {
	var filter Filter
	var err error
	if c.Filter != nil {
		filter, err = c.Filter.ToFilter()
	} else if c.SubExpr != nil {
		filter, err = c.SubExpr.ToFilter()
	} else {
		err = fmt.Errorf("empty condition")
	}

	if err != nil {
		return nil, err
	}

	if c.Not {
		filter = &NotFilter{filter: filter}
	}

	return filter, nil
}

type FilterExpr struct {
	Field string `parser:"@(String | Ident)"`
	Op    string `parser:"@(\"CONTAINS\" | \"<\" | \">\" | \"=\")"`
	Value Value  `parser:"@@"`
}

func (f *FilterExpr) ToFilter() (Filter, error) {
	if f.Op == "CONTAINS" {
		s, ok := f.Value.(StringValue)
		if !ok {
			return nil, fmt.Errorf("CONTAINS expr requires a string value")
		}
		return &ContainsFilter{column: f.Field, substr: s.Value}, nil
	}

	return &CmpFilter{column: f.Field, op: f.Op, value: f.Value.Literal()}, nil
}

type Value interface {
	Literal() string
}

type StringValue struct {
	Value string `parser:"@String"`
}

func (v StringValue) Literal() string { return v.Value }

type IntValue struct {
	Value int `parser:"@Int"`
}

func (v IntValue) Literal() string { return strconv.Itoa(v.Value) }
