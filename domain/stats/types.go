package stats

import (
	"fmt"
	"strings"

	"hyporeport/internal/errors"
)

// DefaultAlpha is the significance level used when none is given
const DefaultAlpha = 0.05

// DefaultTrimProportion is the fraction cut from each end for the trimmed center
const DefaultTrimProportion = 0.05

// TestKind identifies a supported hypothesis test
type TestKind string

const (
	TestShapiro      TestKind = "shapiro"
	TestLevene       TestKind = "levene"
	TestTTestInd     TestKind = "ttest_ind"
	TestTTestRel     TestKind = "ttest_rel"
	TestANOVA        TestKind = "anova_oneway"
	TestWilcoxon     TestKind = "wilcoxon"
	TestMannWhitneyU TestKind = "mannwhitneyu"
	TestFriedman     TestKind = "friedman"
	TestKruskal      TestKind = "kruskal"
)

// Alternative is the alternative hypothesis side
type Alternative string

const (
	TwoSided Alternative = "two-sided"
	Less     Alternative = "less"
	Greater  Alternative = "greater"
)

// ParseAlternative converts user input into an Alternative
func ParseAlternative(s string) (Alternative, error) {
	switch Alternative(strings.ToLower(strings.TrimSpace(s))) {
	case TwoSided, "two_sided", "":
		return TwoSided, nil
	case Less:
		return Less, nil
	case Greater:
		return Greater, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown alternative %q (want two-sided, less or greater)", s))
}

// Center is the location statistic Levene's test measures spread around
type Center string

const (
	CenterMean    Center = "mean"
	CenterMedian  Center = "median"
	CenterTrimmed Center = "trimmed"
)

// ParseCenter converts user input into a Center
func ParseCenter(s string) (Center, error) {
	switch Center(strings.ToLower(strings.TrimSpace(s))) {
	case CenterMean, "":
		return CenterMean, nil
	case CenterMedian:
		return CenterMedian, nil
	case CenterTrimmed:
		return CenterTrimmed, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown center %q (want mean, median or trimmed)", s))
}

// ValidateAlpha checks that a significance level lies in (0, 1)
func ValidateAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return errors.InvalidInput(fmt.Sprintf("alfa must be in (0, 1), got %v", alpha))
	}
	return nil
}

// Decision is the binary outcome of comparing a p-value to alfa
type Decision string

const (
	FailToReject Decision = "fail_to_reject"
	Reject       Decision = "reject"
)

// Decide fails to reject the null hypothesis only when p > alpha.
// A p-value exactly equal to alpha rejects.
func Decide(pValue, alpha float64) Decision {
	if pValue > alpha {
		return FailToReject
	}
	return Reject
}

// TestResult is the outcome of a single test invocation
// INVARIANTS:
// - PValue in [0, 1]
// - Decision == Decide(PValue, Alpha)
type TestResult struct {
	Test       TestKind               `json:"test"`
	Column     string                 `json:"column,omitempty"` // set for per-column tests (Shapiro-Wilk)
	Statistic  float64                `json:"statistic"`
	PValue     float64                `json:"p_value"`
	Alpha      float64                `json:"alpha"`
	Decision   Decision               `json:"decision"`
	Groups     int                    `json:"groups"`      // number of samples passed to the test
	N          int                    `json:"sample_size"` // observations used after omitting missing values
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// NewTestResult builds a result and derives its decision
func NewTestResult(kind TestKind, statistic, pValue, alpha float64) TestResult {
	return TestResult{
		Test:      kind,
		Statistic: statistic,
		PValue:    pValue,
		Alpha:     alpha,
		Decision:  Decide(pValue, alpha),
	}
}

// Rejected reports whether the null hypothesis was rejected
func (r TestResult) Rejected() bool {
	return r.Decision == Reject
}
