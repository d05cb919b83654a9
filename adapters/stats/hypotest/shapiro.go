package hypotest

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"hyporeport/internal/errors"
)

// Polynomial coefficients from Royston (1995), algorithm AS R94
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

const shapiroMinN = 3

// ShapiroWilk tests the null hypothesis that x was drawn from a normal
// distribution. It returns the W statistic and its p-value. The p-value
// approximation is accurate for 3 <= n <= 5000.
func ShapiroWilk(x []float64) (w, p float64, err error) {
	n := len(x)
	if n < shapiroMinN {
		return 0, 0, errors.InsufficientData(fmt.Sprintf("shapiro-wilk needs at least %d observations, got %d", shapiroMinN, n))
	}

	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)
	if sorted[n-1]-sorted[0] == 0 {
		return 0, 0, errors.DegenerateData("shapiro-wilk input has zero range")
	}

	a := shapiroCoefficients(n)

	var mean float64
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)

	var ssq float64
	for _, v := range sorted {
		d := v - mean
		ssq += d * d
	}

	var num float64
	for i := range a {
		num += a[i] * (sorted[n-1-i] - sorted[i])
	}
	w = num * num / ssq
	if w > 1 {
		w = 1
	}

	return w, shapiroPValue(w, n), nil
}

// shapiroCoefficients returns the upper half of the antisymmetric weights a_i
func shapiroCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an25 := float64(n) + 0.25
	m := make([]float64, nn2)
	var summ2 float64
	for i := 0; i < nn2; i++ {
		m[i] = normalQuantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))
	a1 := poly(swC1, rsn) - m[0]/ssumm2

	first := 1
	var fac float64
	if n > 5 {
		first = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < nn2; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		const (
			pi6  = 1.90985931710274 // 6/pi
			stqr = 1.04719755119660 // asin(sqrt(3/4))
		)
		return clampProbability(pi6 * (math.Asin(math.Sqrt(w)) - stqr))
	}

	an := float64(n)
	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}
	return clampProbability(distuv.Normal{Mu: m, Sigma: s}.Survival(y))
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	var r float64
	for k := len(c) - 1; k >= 0; k-- {
		r = r*x + c[k]
	}
	return r
}
