package model

import (
	"math"
	"time"
)

type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
)

// Column holds one named column. Raw keeps the cell text as uploaded;
// Values is only populated for numeric columns, with NaN for empty cells.
type Column struct {
	Name   string     `json:"name"`
	Kind   ColumnKind `json:"kind"`
	Raw    []string   `json:"-"`
	Values []float64  `json:"-"`
}

func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// Dataset is an uploaded table. It is never mutated after parsing.
type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Columns   []Column  `json:"columns"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

func (d *Dataset) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the numeric columns in table order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for i := range d.Columns {
		if d.Columns[i].IsNumeric() {
			out = append(out, &d.Columns[i])
		}
	}
	return out
}

func (d *Dataset) NumericNames() []string {
	var names []string
	for _, c := range d.NumericColumns() {
		names = append(names, c.Name)
	}
	return names
}

func (d *Dataset) Cell(row, col int) string {
	if col < 0 || col >= len(d.Columns) || row < 0 || row >= d.Rows {
		return ""
	}
	return d.Columns[col].Raw[row]
}

// Head returns up to n rows as cell text, for the preview table.
func (d *Dataset) Head(n int) [][]string {
	if n > d.Rows {
		n = d.Rows
	}
	rows := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(d.Columns))
		for c := range d.Columns {
			row[c] = d.Columns[c].Raw[r]
		}
		rows[r] = row
	}
	return rows
}

// ColumnSummary is the JSON view of a column.
type ColumnSummary struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	NonNull int        `json:"non_null"`
	Min     *float64   `json:"min,omitempty"`
	Max     *float64   `json:"max,omitempty"`
}

func (d *Dataset) Summary() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(d.Columns))
	for _, c := range d.Columns {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind}
		for _, raw := range c.Raw {
			if raw != "" {
				s.NonNull++
			}
		}
		if c.IsNumeric() {
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, v := range c.Values {
				if math.IsNaN(v) {
					continue
				}
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			if !math.IsInf(lo, 1) {
				s.Min, s.Max = &lo, &hi
			}
		}
		out = append(out, s)
	}
	return out
}
