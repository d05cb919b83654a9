package profiling

import (
	"hyporeport/domain/dataset"
)

// ColumnProfile bundles the summary and outlier fences of one column
type ColumnProfile struct {
	Column   string  `json:"column"`
	Missing  int     `json:"missing"`
	Summary  Summary `json:"summary"`
	Bounds   Bounds  `json:"bounds"`
	Outliers int     `json:"outliers"`
}

// DataProfiler describes every numeric column of a frame
type DataProfiler struct {
	whisker float64
}

// NewDataProfiler creates a profiler using the given IQR whisker
func NewDataProfiler(whisker float64) *DataProfiler {
	if whisker <= 0 {
		whisker = DefaultWhisker
	}
	return &DataProfiler{whisker: whisker}
}

// ProfileColumn analyzes a single column
func (dp *DataProfiler) ProfileColumn(col dataset.Column) (ColumnProfile, error) {
	if err := col.Validate(); err != nil {
		return ColumnProfile{}, err
	}
	summary, err := Describe(col.Values)
	if err != nil {
		return ColumnProfile{}, err
	}
	bounds, err := OutlierBounds(col.Values, dp.whisker)
	if err != nil {
		return ColumnProfile{}, err
	}
	return ColumnProfile{
		Column:   col.Name,
		Missing:  len(col.Values) - summary.N,
		Summary:  summary,
		Bounds:   bounds,
		Outliers: countOutliers(col.Values, bounds),
	}, nil
}

// ProfileFrame analyzes all columns in frame order. Text columns and columns
// without any numeric observation are skipped.
func (dp *DataProfiler) ProfileFrame(frame *dataset.Frame) []ColumnProfile {
	var profiles []ColumnProfile
	for _, col := range frame.Columns() {
		p, err := dp.ProfileColumn(col)
		if err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles
}
