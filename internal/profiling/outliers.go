package profiling

import (
	"fmt"

	"hyporeport/internal/errors"
)

// DefaultWhisker is the IQR multiplier used by the outlier filter
const DefaultWhisker = 1.5

// Bounds are the closed outlier fences of a column
type Bounds struct {
	Q1      float64 `json:"q1"`
	Q3      float64 `json:"q3"`
	IQR     float64 `json:"iqr"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Whisker float64 `json:"whisker"`
}

// Contains reports whether v lies inside the fences
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// OutlierBounds computes Q1 - w*IQR and Q3 + w*IQR over the non-missing values
func OutlierBounds(values []float64, whisker float64) (Bounds, error) {
	if whisker <= 0 {
		return Bounds{}, errors.InvalidInput(fmt.Sprintf("whisker must be positive, got %v", whisker))
	}
	data := observed(values)
	if len(data) == 0 {
		return Bounds{}, errors.InsufficientData("no observations to compute outlier bounds")
	}

	q1, q3 := Quartiles(data)
	iqr := q3 - q1
	return Bounds{
		Q1:      q1,
		Q3:      q3,
		IQR:     iqr,
		Lower:   q1 - whisker*iqr,
		Upper:   q3 + whisker*iqr,
		Whisker: whisker,
	}, nil
}

// RemoveOutliers keeps the values inside the bounds in their original order.
// Missing values are dropped.
func RemoveOutliers(values []float64, whisker float64) ([]float64, Bounds, error) {
	bounds, err := OutlierBounds(values, whisker)
	if err != nil {
		return nil, Bounds{}, err
	}

	kept := make([]float64, 0, len(values))
	for _, v := range observed(values) {
		if bounds.Contains(v) {
			kept = append(kept, v)
		}
	}
	return kept, bounds, nil
}

// countOutliers returns how many values fall outside the bounds
func countOutliers(values []float64, bounds Bounds) int {
	count := 0
	for _, v := range observed(values) {
		if !bounds.Contains(v) {
			count++
		}
	}
	return count
}
