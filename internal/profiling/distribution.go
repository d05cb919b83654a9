package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"hyporeport/internal/errors"
)

// Summary describes the shape of a single numeric column
type Summary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	StdDev   float64 `json:"std_dev"` // sample standard deviation (n-1)
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis
}

// IQR returns the interquartile range
func (s Summary) IQR() float64 {
	return s.Q3 - s.Q1
}

// Describe computes summary statistics over the non-missing values.
// The mode is the smallest of the most frequent values; when every value
// is unique the minimum is reported.
func Describe(values []float64) (Summary, error) {
	data := observed(values)
	if len(data) == 0 {
		return Summary{}, errors.InsufficientData("no observations to describe")
	}

	summary := Summary{N: len(data)}
	var err error

	if summary.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}

	modes, err := stats.Mode(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "mode")
	}
	summary.Mode = summary.Min
	if len(modes) > 0 {
		summary.Mode = modes[0]
	}

	if len(data) > 1 {
		if summary.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, errors.Wrap(err, "standard deviation")
		}
	}

	q1, q3 := Quartiles(data)
	summary.Q1, summary.Q3 = q1, q3
	summary.Skewness = calculateSkewness(data, summary.Mean)
	summary.Kurtosis = calculateKurtosis(data, summary.Mean)
	return summary, nil
}

// Quartiles returns the first and third quartiles of data using linear
// interpolation between order statistics (Hyndman and Fan type 7)
func Quartiles(data []float64) (q1, q3 float64) {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return Quantile(sorted, 0.25), Quantile(sorted, 0.75)
}

// Quantile returns the q-th quantile of an ascending slice with type 7
// interpolation: h = (n-1)q, x[floor h] + (h - floor h)(x[floor h + 1] - x[floor h]).
// It returns NaN for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[n-1]
	}
	h := float64(n-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean float64) float64 {
	n := float64(len(data))
	if n < 3 {
		return 0
	}

	var m2, m3 float64
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}

	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateKurtosis computes bias-corrected sample excess kurtosis
func calculateKurtosis(data []float64, mean float64) float64 {
	n := float64(len(data))
	if n < 4 {
		return 0
	}

	var m2, m4 float64
	for _, x := range data {
		d := x - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}

	g2 := m4/(m2*m2) - 3
	return (n - 1) / ((n - 2) * (n - 3)) * ((n+1)*g2 + 6)
}

// observed drops NaN entries
func observed(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
