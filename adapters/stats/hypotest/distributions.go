package hypotest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// chiSquareSurvival computes P(X > x) for a chi-square distribution
func chiSquareSurvival(x float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return clampProbability(chiDist.Survival(x))
}

// fSurvival computes P(X > x) for an F-distribution (ANOVA, Levene)
func fSurvival(x float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1.0
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return clampProbability(fDist.Survival(x))
}

// normalCDF computes the cumulative distribution function for the standard normal
func normalCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}

// normalSurvival computes the upper tail of the standard normal
func normalSurvival(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

// normalQuantile computes the inverse CDF of the standard normal
func normalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// clampProbability keeps floating point noise from leaving [0, 1]; NaN
// passes through so the caller can reject it
func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return p
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
