package dataset

import (
	"math"

	"hyporeport/internal/errors"
)

// Frame is an ordered collection of uniquely named columns
type Frame struct {
	columns []Column
	index   map[string]int
}

// NewFrame creates a frame from columns, preserving their order
func NewFrame(columns ...Column) (*Frame, error) {
	f := &Frame{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if c.Name == "" {
			return nil, errors.InvalidInput("column name cannot be empty")
		}
		if _, dup := f.index[c.Name]; dup {
			return nil, errors.InvalidInput("duplicate column name: " + c.Name)
		}
		f.index[c.Name] = len(f.columns)
		f.columns = append(f.columns, c)
	}
	return f, nil
}

// MustFrame is like NewFrame but panics on error. Intended for fixtures.
func MustFrame(columns ...Column) *Frame {
	f, err := NewFrame(columns...)
	if err != nil {
		panic(err)
	}
	return f
}

// Width returns the number of columns
func (f *Frame) Width() int {
	return len(f.columns)
}

// Names returns column names in order
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.columns))
	copy(out, f.columns)
	return out
}

// Column looks up a column by name
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, false
	}
	return f.columns[i], true
}

// Select returns a new frame with the named columns in the given order
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, errors.NotFound("column " + name)
		}
		cols = append(cols, c)
	}
	return NewFrame(cols...)
}

// Samples returns each column's observed values with missing entries omitted
// independently per column. A cell that is present but not a number fails.
func (f *Frame) Samples() ([][]float64, error) {
	out := make([][]float64, len(f.columns))
	for i, c := range f.columns {
		values, err := c.Numeric()
		if err != nil {
			return nil, err
		}
		out[i] = values
	}
	return out, nil
}

// PairedSamples returns the columns as matched samples. Any row with a
// missing value in one of the columns is dropped from all of them.
func (f *Frame) PairedSamples() ([][]float64, error) {
	if len(f.columns) == 0 {
		return nil, nil
	}
	for _, c := range f.columns {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	n := len(f.columns[0].Values)
	for _, c := range f.columns[1:] {
		if len(c.Values) != n {
			return nil, errors.MismatchedSamples("paired columns must have the same length")
		}
	}

	out := make([][]float64, len(f.columns))
	for i := range out {
		out[i] = make([]float64, 0, n)
	}
	for row := 0; row < n; row++ {
		complete := true
		for _, c := range f.columns {
			if math.IsNaN(c.Values[row]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for i, c := range f.columns {
			out[i] = append(out[i], c.Values[row])
		}
	}
	return out, nil
}
