package hypotest

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/floats"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
)

// mannWhitneyExactMaxN is the smaller-sample size up to which the exact
// null distribution of U is used when there are no ties
const mannWhitneyExactMaxN = 8

// maxExactCount bounds arrangement counts so they stay exact in a float64
var maxExactCount = new(big.Int).Lsh(big.NewInt(1), 53)

// MannWhitneyU tests whether two independent samples come from the same
// distribution. The statistic is U for the first sample.
func MannWhitneyU(a, b []float64, alt domainstats.Alternative) (u, p float64, err error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, errors.InsufficientData("mann-whitney u needs two non-empty samples")
	}
	if allEqual(a, b) {
		return 0, 0, errors.DegenerateData("mann-whitney u input values are all equal")
	}
	if _, err := locationHypothesis(alt); err != nil {
		return 0, 0, err
	}

	pooled := make([]float64, 0, len(a)+len(b))
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)
	ranks := rankAverage(pooled)

	n1, n2 := len(a), len(b)
	u = floats.Sum(ranks[:n1]) - float64(n1*(n1+1))/2

	ties := tieSizes(pooled)
	if len(ties) == 0 && min(n1, n2) <= mannWhitneyExactMaxN {
		if p, ok := mannWhitneyExactPValue(int(math.Round(u)), n1, n2, alt); ok {
			return u, p, nil
		}
	}
	return u, mannWhitneyNormalPValue(u, n1, n2, ties, alt), nil
}

// mannWhitneyExactPValue counts the arrangements of the pooled ranks whose
// U is at least as extreme as u and divides by C(n1+n2, n1). It reports
// false when the counts are too large to be held exactly.
func mannWhitneyExactPValue(u, n1, n2 int, alt domainstats.Alternative) (float64, bool) {
	total := new(big.Int).Binomial(int64(n1+n2), int64(n1))
	if total.Cmp(maxExactCount) > 0 {
		return 0, false
	}
	counts := mannWhitneyCounts(n1, n2)
	top := n1 * n2

	// atLeast(k) is the number of arrangements with U >= k
	atLeast := func(k int) float64 {
		var c float64
		for s := max(k, 0); s <= top; s++ {
			c += counts[s]
		}
		return c
	}

	var count float64
	switch alt {
	case domainstats.Greater:
		count = atLeast(u)
	case domainstats.Less:
		count = atLeast(top - u)
	default:
		count = 2 * atLeast(max(u, top-u))
	}
	f, _ := total.Float64()
	return clampProbability(count / f), true
}

// mannWhitneyCounts returns, for s in [0, n1*n2], the number of ways to pick
// n1 of the n1+n2 ranks so that U equals s. These are the coefficients of
// the Gaussian binomial [n1+n2 choose n1] in q.
func mannWhitneyCounts(n1, n2 int) []float64 {
	top := n1 * n2
	c := make([]float64, top+1)
	c[0] = 1
	deg := 0
	for i := 1; i <= n1; i++ {
		shift := n2 + i
		hi := min(deg+shift, top)
		// multiply by (1 - q^(n2+i))
		for s := hi; s >= shift; s-- {
			c[s] -= c[s-shift]
		}
		// divide by (1 - q^i); the division is exact
		for s := i; s <= hi; s++ {
			c[s] += c[s-i]
		}
		deg += n2
	}
	return c
}

// mannWhitneyNormalPValue uses the tie-corrected normal approximation with
// a continuity correction of one half
func mannWhitneyNormalPValue(u float64, n1, n2 int, ties []int, alt domainstats.Alternative) float64 {
	n := float64(n1 + n2)
	prod := float64(n1 * n2)
	mean := prod / 2

	var tieTerm float64
	for _, t := range ties {
		ft := float64(t)
		tieTerm += ft*ft*ft - ft
	}
	sd := math.Sqrt(prod / 12 * ((n + 1) - tieTerm/(n*(n-1))))

	stat := u
	switch alt {
	case domainstats.Less:
		stat = prod - u
	case domainstats.Greater:
	default:
		stat = math.Max(u, prod-u)
	}

	z := (stat - mean - 0.5) / sd
	p := normalSurvival(z)
	if alt != domainstats.Greater && alt != domainstats.Less {
		p *= 2
	}
	return clampProbability(p)
}
