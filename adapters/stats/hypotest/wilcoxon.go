package hypotest

import (
	"math"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
)

// wilcoxonExactMaxN is the largest sample size for which the exact null
// distribution is used
const wilcoxonExactMaxN = 50

// Wilcoxon runs the signed-rank test on paired samples x and y.
// Zero differences are discarded. For the two-sided alternative the
// statistic is min(R+, R-); for one-sided alternatives it is R+.
func Wilcoxon(x, y []float64, alt domainstats.Alternative) (statistic, p float64, err error) {
	if len(x) != len(y) {
		return 0, 0, errors.MismatchedSamples("wilcoxon samples must have the same length")
	}
	if _, err := locationHypothesis(alt); err != nil {
		return 0, 0, err
	}

	diffs := make([]float64, 0, len(x))
	for i := range x {
		if d := x[i] - y[i]; d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := len(diffs)
	if n == 0 {
		return 0, 0, errors.DegenerateData("wilcoxon differences are all zero")
	}
	zeros := len(x) - n

	abs := make([]float64, n)
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks := rankAverage(abs)

	var rPlus, rMinus float64
	for i, d := range diffs {
		if d > 0 {
			rPlus += ranks[i]
		} else {
			rMinus += ranks[i]
		}
	}

	statistic = rPlus
	if alt == domainstats.TwoSided || alt == "" {
		statistic = math.Min(rPlus, rMinus)
	}

	ties := tieSizes(abs)
	if n <= wilcoxonExactMaxN && len(ties) == 0 && zeros == 0 {
		return statistic, wilcoxonExactPValue(int(math.Round(rPlus)), n, alt), nil
	}

	mean := float64(n*(n+1)) / 4.0
	se := float64(n * (n + 1) * (2*n + 1))
	for _, t := range ties {
		ft := float64(t)
		se -= 0.5 * ft * (ft*ft - 1)
	}
	se = math.Sqrt(se / 24.0)
	if se == 0 {
		return 0, 0, errors.DegenerateData("wilcoxon rank variance is zero")
	}

	z := (statistic - mean) / se
	switch alt {
	case domainstats.Greater:
		p = normalSurvival(z)
	case domainstats.Less:
		p = normalCDF(z)
	default:
		p = 2 * normalSurvival(math.Abs(z))
	}
	return statistic, clampProbability(p), nil
}

// wilcoxonExactPValue computes p from the exact distribution of R+ when
// there are no ties or zeros
func wilcoxonExactPValue(rPlus, n int, alt domainstats.Alternative) float64 {
	total := n * (n + 1) / 2
	if rPlus < 0 {
		rPlus = 0
	}
	if rPlus > total {
		rPlus = total
	}

	// pmf[s] = P(R+ = s); each rank is positive with probability 1/2
	pmf := make([]float64, total+1)
	pmf[0] = 1
	for r := 1; r <= n; r++ {
		for s := total; s >= r; s-- {
			pmf[s] += pmf[s-r]
		}
	}
	scale := math.Ldexp(1, -n)
	for s := range pmf {
		pmf[s] *= scale
	}

	var lower, upper float64
	for s := 0; s <= rPlus; s++ {
		lower += pmf[s]
	}
	for s := rPlus; s <= total; s++ {
		upper += pmf[s]
	}

	switch alt {
	case domainstats.Greater:
		return clampProbability(upper)
	case domainstats.Less:
		return clampProbability(lower)
	}
	if rPlus == total/2 {
		return 1.0
	}
	return clampProbability(2 * math.Min(lower, upper))
}
