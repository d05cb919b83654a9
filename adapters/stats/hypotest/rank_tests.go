package hypotest

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"hyporeport/internal/errors"
)

// Friedman tests whether k >= 3 matched samples share the same distribution.
// Observations are ranked within each row (block).
func Friedman(samples [][]float64) (chi2, p float64, err error) {
	k := len(samples)
	if k < 3 {
		return 0, 0, errors.InvalidInput(fmt.Sprintf("friedman needs at least 3 samples, got %d", k))
	}
	n := len(samples[0])
	for _, s := range samples[1:] {
		if len(s) != n {
			return 0, 0, errors.MismatchedSamples("friedman samples must have the same length")
		}
	}
	if n == 0 {
		return 0, 0, errors.InsufficientData("friedman samples are empty")
	}

	rankSums := make([]float64, k)
	row := make([]float64, k)
	var tieSum float64
	for i := 0; i < n; i++ {
		for j := range samples {
			row[j] = samples[j][i]
		}
		r := rankAverage(row)
		floats.Add(rankSums, r)
		for _, t := range tieSizes(row) {
			ft := float64(t)
			tieSum += ft*ft*ft - ft
		}
	}

	fk := float64(k)
	fn := float64(n)
	c := 1 - tieSum/(fk*fk*fk-fk)/fn
	if c == 0 {
		return 0, 0, errors.DegenerateData("friedman rows are entirely tied")
	}

	ssbn := floats.Dot(rankSums, rankSums)
	chi2 = (12.0/(fk*fn*(fk+1))*ssbn - 3*fn*(fk+1)) / c
	return chi2, chiSquareSurvival(chi2, k-1), nil
}

// KruskalWallis tests whether k >= 2 independent samples share the same
// distribution, using ranks over the pooled observations.
func KruskalWallis(samples [][]float64) (h, p float64, err error) {
	k := len(samples)
	if k < 2 {
		return 0, 0, errors.InvalidInput(fmt.Sprintf("kruskal-wallis needs at least 2 samples, got %d", k))
	}

	var pooled []float64
	for i, s := range samples {
		if len(s) == 0 {
			return 0, 0, errors.InsufficientData(fmt.Sprintf("kruskal-wallis sample %d is empty", i))
		}
		pooled = append(pooled, s...)
	}

	ties := tieCorrection(pooled)
	if ties == 0 {
		return 0, 0, errors.DegenerateData("all numbers are identical in kruskal-wallis")
	}

	ranks := rankAverage(pooled)
	total := float64(len(pooled))

	offset := 0
	for _, s := range samples {
		rs := floats.Sum(ranks[offset : offset+len(s)])
		h += rs * rs / float64(len(s))
		offset += len(s)
	}
	h = 12.0/(total*(total+1))*h - 3*(total+1)
	h /= ties
	return h, chiSquareSurvival(h, k-1), nil
}
