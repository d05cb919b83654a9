package hypotest

import (
	"fmt"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
)

// Levene tests the null hypothesis that all samples come from populations
// with equal variances. The center selects the location statistic deviations
// are measured from; proportion is the fraction trimmed from each end when
// center is trimmed.
func Levene(samples [][]float64, center domainstats.Center, proportion float64) (w, p float64, err error) {
	k := len(samples)
	if k < 2 {
		return 0, 0, errors.InvalidInput(fmt.Sprintf("levene needs at least 2 samples, got %d", k))
	}
	for i, s := range samples {
		if len(s) == 0 {
			return 0, 0, errors.InsufficientData(fmt.Sprintf("levene sample %d is empty", i))
		}
	}

	groups := samples
	if center == domainstats.CenterTrimmed {
		groups = make([][]float64, k)
		for i, s := range samples {
			trimmed, err := trimBoth(s, proportion)
			if err != nil {
				return 0, 0, err
			}
			groups[i] = trimmed
		}
	}

	ni := make([]float64, k)
	var ntot float64
	zij := make([][]float64, k)
	for i, g := range groups {
		c, err := centerOf(g, center)
		if err != nil {
			return 0, 0, err
		}
		ni[i] = float64(len(g))
		ntot += ni[i]

		z := make([]float64, len(g))
		for j, v := range g {
			z[j] = math.Abs(v - c)
		}
		zij[i] = z
	}

	zbari := make([]float64, k)
	var zbar float64
	for i, z := range zij {
		zbari[i] = stat.Mean(z, nil)
		zbar += zbari[i] * ni[i]
	}
	zbar /= ntot

	var sumz float64
	for i := range zbari {
		d := zbari[i] - zbar
		sumz += ni[i] * d * d
	}
	numer := (ntot - float64(k)) * sumz

	var dvar float64
	for i, z := range zij {
		for _, v := range z {
			d := v - zbari[i]
			dvar += d * d
		}
	}
	denom := float64(k-1) * dvar
	if denom == 0 {
		return 0, 0, errors.DegenerateData("levene deviations have zero variance")
	}

	w = numer / denom
	return w, fSurvival(w, k-1, int(ntot)-k), nil
}

func centerOf(values []float64, center domainstats.Center) (float64, error) {
	switch center {
	case domainstats.CenterMedian:
		m, err := mstats.Median(values)
		if err != nil {
			return 0, errors.WithCode(errors.CodeInsufficientData, err)
		}
		return m, nil
	case domainstats.CenterMean, domainstats.CenterTrimmed, "":
		return stat.Mean(values, nil), nil
	}
	return 0, errors.InvalidInput(fmt.Sprintf("unknown center %q", center))
}

// trimBoth sorts a copy of values and removes int(proportion*n) items from each end
func trimBoth(values []float64, proportion float64) ([]float64, error) {
	if proportion < 0 || proportion >= 0.5 {
		return nil, errors.InvalidInput(fmt.Sprintf("trim proportion must be in [0, 0.5), got %v", proportion))
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	cut := int(proportion * float64(len(sorted)))
	if cut >= len(sorted)-cut {
		return nil, errors.InvalidInput("trim proportion too big for sample size")
	}
	return sorted[cut : len(sorted)-cut], nil
}
