package hypotest

import (
	"fmt"

	moremath "github.com/aclements/go-moremath/stats"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
)

// locationHypothesis maps an alternative onto go-moremath's convention,
// where "less" means the first sample's location is below the second's.
func locationHypothesis(alt domainstats.Alternative) (moremath.LocationHypothesis, error) {
	switch alt {
	case domainstats.TwoSided, "":
		return moremath.LocationDiffers, nil
	case domainstats.Less:
		return moremath.LocationLess, nil
	case domainstats.Greater:
		return moremath.LocationGreater, nil
	}
	return 0, errors.InvalidInput(fmt.Sprintf("unknown alternative %q", alt))
}

// translateMoremathError attaches an error code to go-moremath sentinel errors
func translateMoremathError(err error) error {
	switch err {
	case nil:
		return nil
	case moremath.ErrSampleSize:
		return errors.WithCode(errors.CodeInsufficientData, err)
	case moremath.ErrZeroVariance:
		return errors.WithCode(errors.CodeDegenerateData, err)
	case moremath.ErrMismatchedSamples:
		return errors.WithCode(errors.CodeMismatchedSamples, err)
	}
	return errors.Wrap(err, "statistics library error")
}

// IndependentTTest compares the means of two independent samples.
// With equalVar false it runs Welch's t-test.
func IndependentTTest(a, b []float64, equalVar bool, alt domainstats.Alternative) (t, p float64, err error) {
	h, err := locationHypothesis(alt)
	if err != nil {
		return 0, 0, err
	}
	if equalVar && len(a)+len(b) < 3 {
		return 0, 0, errors.InsufficientData("t-test needs at least 3 observations in total")
	}

	x1 := moremath.Sample{Xs: a}
	x2 := moremath.Sample{Xs: b}

	var res *moremath.TTestResult
	if equalVar {
		res, err = moremath.TwoSampleTTest(x1, x2, h)
	} else {
		res, err = moremath.TwoSampleWelchTTest(x1, x2, h)
	}
	if err != nil {
		return 0, 0, translateMoremathError(err)
	}
	return res.T, clampProbability(res.P), nil
}

// PairedTTest compares the means of two related samples
func PairedTTest(a, b []float64, alt domainstats.Alternative) (t, p float64, err error) {
	h, err := locationHypothesis(alt)
	if err != nil {
		return 0, 0, err
	}
	res, err := moremath.PairedTTest(a, b, 0, h)
	if err != nil {
		return 0, 0, translateMoremathError(err)
	}
	return res.T, clampProbability(res.P), nil
}
