package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hyporeport/internal/errors"
)

// Column is a named, ordered sequence of observations.
// Values holds the numeric view (NaN marks a missing or unparsable cell).
// Text holds the raw cells and is nil for columns built from numbers.
// Invalid lists the rows whose cell is present but not a finite number.
type Column struct {
	Name    string    `json:"name"`
	Values  []float64 `json:"values"`
	Text    []string  `json:"text,omitempty"`
	Invalid []int     `json:"invalid,omitempty"`
}

// ParseOptions control how raw cells become numbers
type ParseOptions struct {
	// DecimalComma accepts a single comma as the decimal separator
	// ("2,5"). Cells mixing commas and dots stay invalid.
	DecimalComma bool
}

// missingTokens are cell contents treated as missing observations
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// FromFloats creates a numeric column
func FromFloats(name string, values []float64) Column {
	v := make([]float64, len(values))
	copy(v, values)
	return Column{Name: name, Values: v}
}

// FromStrings creates a column from raw cells with '.' as the decimal separator
func FromStrings(name string, cells []string) Column {
	return ParseStrings(name, cells, ParseOptions{})
}

// ParseStrings creates a column from raw cells, parsing numbers where possible.
// Missing cells become NaN. Cells that are neither missing nor a finite
// number also become NaN and their rows are recorded in Invalid.
func ParseStrings(name string, cells []string, opts ParseOptions) Column {
	values := make([]float64, len(cells))
	text := make([]string, len(cells))
	var invalid []int
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		text[i] = cell
		if IsMissingText(cell) {
			values[i] = math.NaN()
			continue
		}
		f, ok := parseNumber(cell, opts)
		if !ok {
			values[i] = math.NaN()
			invalid = append(invalid, i)
			continue
		}
		values[i] = f
	}
	return Column{Name: name, Values: values, Text: text, Invalid: invalid}
}

func parseNumber(cell string, opts ParseOptions) (float64, bool) {
	if opts.DecimalComma && strings.Count(cell, ",") == 1 {
		if strings.Contains(cell, ".") {
			return 0, false
		}
		cell = strings.Replace(cell, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsMissingText reports whether a raw cell denotes a missing observation
func IsMissingText(cell string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(cell))]
}

// Len returns the number of rows in the column, missing ones included
func (c Column) Len() int {
	if c.Text != nil && len(c.Text) > len(c.Values) {
		return len(c.Text)
	}
	return len(c.Values)
}

// Observed returns the non-missing numeric values in row order
func (c Column) Observed() []float64 {
	return DropMissing(c.Values)
}

// Validate fails on the first cell that is present but not a finite number
func (c Column) Validate() error {
	if len(c.Invalid) > 0 {
		row := c.Invalid[0]
		cell := ""
		if row < len(c.Text) {
			cell = c.Text[row]
		}
		return errors.InvalidInput(fmt.Sprintf("column %s row %d: %q is not a number", c.Name, row+1, cell))
	}
	for row, v := range c.Values {
		if math.IsInf(v, 0) {
			return errors.InvalidInput(fmt.Sprintf("column %s row %d: %v is not a finite number", c.Name, row+1, v))
		}
	}
	return nil
}

// Numeric returns the observed values of a column that must be entirely
// numeric apart from missing cells
func (c Column) Numeric() ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.Observed(), nil
}

// Categories returns the categorical view of the column.
// Missing cells are reported with ok=false.
func (c Column) Categories() (labels []string, ok []bool) {
	n := c.Len()
	labels = make([]string, n)
	ok = make([]bool, n)
	for i := 0; i < n; i++ {
		if c.Text != nil {
			if i < len(c.Text) && !IsMissingText(c.Text[i]) {
				labels[i] = c.Text[i]
				ok[i] = true
			}
			continue
		}
		if !math.IsNaN(c.Values[i]) {
			labels[i] = strconv.FormatFloat(c.Values[i], 'g', -1, 64)
			ok[i] = true
		}
	}
	return labels, ok
}

// DropMissing returns a copy of values without NaN entries
func DropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
