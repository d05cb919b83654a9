package hypotest

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"hyporeport/internal/errors"
)

// OneWayANOVA tests the null hypothesis that all samples share the same mean
func OneWayANOVA(samples [][]float64) (f, p float64, err error) {
	k := len(samples)
	if k < 2 {
		return 0, 0, errors.InvalidInput(fmt.Sprintf("one-way anova needs at least 2 samples, got %d", k))
	}

	var n int
	var grand float64
	means := make([]float64, k)
	for i, s := range samples {
		if len(s) == 0 {
			return 0, 0, errors.InsufficientData(fmt.Sprintf("anova sample %d is empty", i))
		}
		means[i] = stat.Mean(s, nil)
		grand += means[i] * float64(len(s))
		n += len(s)
	}
	if n <= k {
		return 0, 0, errors.InsufficientData("anova needs more observations than groups")
	}
	grand /= float64(n)

	var ssBetween, ssWithin float64
	for i, s := range samples {
		d := means[i] - grand
		ssBetween += float64(len(s)) * d * d
		for _, v := range s {
			e := v - means[i]
			ssWithin += e * e
		}
	}
	if ssWithin == 0 {
		return 0, 0, errors.DegenerateData("every group is constant; within-group variance is zero")
	}

	dfBetween := k - 1
	dfWithin := n - k
	f = (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithin))
	return f, fSurvival(f, dfBetween, dfWithin), nil
}
