package profiling

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"hyporeport/domain/dataset"
	"hyporeport/internal/errors"
)

// Frequency table column headers
const (
	ColFrequency                   = "frequencia"
	ColRelativeFrequency           = "frequencia_relativa"
	ColCumulativeFrequency         = "frequencia_acumulada"
	ColRelativeCumulativeFrequency = "frequencia_relativa_acumulada"
)

// FrequencyOptions selects how a column is tabulated
type FrequencyOptions struct {
	// Precounted treats the column values as frequencies that were
	// already aggregated, one category per row.
	Precounted bool
	// LabelColumn names the category column for pre-counted data.
	// Row positions are used when empty.
	LabelColumn string
}

// FrequencyRow is one category of a frequency distribution
type FrequencyRow struct {
	Label              string  `json:"label"`
	Frequency          float64 `json:"frequencia"`
	Relative           float64 `json:"frequencia_relativa"`
	Cumulative         float64 `json:"frequencia_acumulada"`
	RelativeCumulative float64 `json:"frequencia_relativa_acumulada"`
}

// FrequencyTable is a frequency distribution with cumulative columns
type FrequencyTable struct {
	Column string         `json:"column"`
	Rows   []FrequencyRow `json:"rows"`
	Total  float64        `json:"total"`
}

// Headers returns the table's column names in display order
func (t *FrequencyTable) Headers() []string {
	return []string{
		t.Column,
		ColFrequency,
		ColRelativeFrequency,
		ColCumulativeFrequency,
		ColRelativeCumulativeFrequency,
	}
}

// BuildFrequencyTable tabulates one column of a frame
func BuildFrequencyTable(frame *dataset.Frame, column string, opts FrequencyOptions) (*FrequencyTable, error) {
	col, ok := frame.Column(column)
	if !ok {
		return nil, errors.NotFound("column " + column)
	}

	var labels []string
	var counts []float64
	var err error
	if opts.Precounted {
		labels, counts, err = precounted(frame, col, opts.LabelColumn)
	} else {
		labels, counts, err = categorical(col)
	}
	if err != nil {
		return nil, err
	}
	return accumulate(column, labels, counts)
}

// categorical counts the non-missing cells per category
func categorical(col dataset.Column) ([]string, []float64, error) {
	cells, present := col.Categories()
	counts := make(map[string]float64)
	for i, cell := range cells {
		if present[i] {
			counts[cell]++
		}
	}
	if len(counts) == 0 {
		return nil, nil, errors.InsufficientData(fmt.Sprintf("column %s has no observations", col.Name))
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sortCategories(labels)

	freq := make([]float64, len(labels))
	for i, label := range labels {
		freq[i] = counts[label]
	}
	return labels, freq, nil
}

// precounted reads frequencies from the column values in row order
func precounted(frame *dataset.Frame, col dataset.Column, labelColumn string) ([]string, []float64, error) {
	if err := col.Validate(); err != nil {
		return nil, nil, err
	}
	var names []string
	var named []bool
	if labelColumn != "" {
		lc, ok := frame.Column(labelColumn)
		if !ok {
			return nil, nil, errors.NotFound("column " + labelColumn)
		}
		names, named = lc.Categories()
	}

	var labels []string
	var counts []float64
	for i, v := range col.Values {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 {
			return nil, nil, errors.InvalidInput(fmt.Sprintf("negative frequency %v at row %d", v, i))
		}
		label := strconv.Itoa(i)
		if i < len(names) && named[i] {
			label = names[i]
		}
		labels = append(labels, label)
		counts = append(counts, v)
	}
	if len(counts) == 0 {
		return nil, nil, errors.InsufficientData(fmt.Sprintf("column %s has no frequencies", col.Name))
	}
	return labels, counts, nil
}

func accumulate(column string, labels []string, counts []float64) (*FrequencyTable, error) {
	var total float64
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, errors.DegenerateData(fmt.Sprintf("column %s frequencies sum to zero", column))
	}

	table := &FrequencyTable{Column: column, Total: total, Rows: make([]FrequencyRow, len(counts))}
	var running float64
	for i, c := range counts {
		running += c
		table.Rows[i] = FrequencyRow{
			Label:              labels[i],
			Frequency:          c,
			Relative:           c / total,
			Cumulative:         running,
			RelativeCumulative: running / total,
		}
	}
	// pin the last row against rounding drift
	table.Rows[len(counts)-1].RelativeCumulative = 1.0
	return table, nil
}

// sortCategories orders labels numerically when all of them are numbers,
// lexicographically otherwise
func sortCategories(labels []string) {
	nums := make(map[string]float64, len(labels))
	for _, l := range labels {
		f, err := strconv.ParseFloat(strings.ReplaceAll(l, ",", "."), 64)
		if err != nil {
			sort.Strings(labels)
			return
		}
		nums[l] = f
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return nums[labels[i]] < nums[labels[j]]
	})
}
