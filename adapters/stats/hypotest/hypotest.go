package hypotest

import (
	"fmt"
	"math"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
)

// Params carries the test-specific options a caller may set
type Params struct {
	Alternative    domainstats.Alternative
	EqualVariances bool
	Center         domainstats.Center
	TrimProportion float64
}

// DefaultParams returns a two-sided alternative, equal variances and the mean center
func DefaultParams() Params {
	return Params{
		Alternative:    domainstats.TwoSided,
		EqualVariances: true,
		Center:         domainstats.CenterMean,
		TrimProportion: domainstats.DefaultTrimProportion,
	}
}

// Outcome is the raw output of a test computation
type Outcome struct {
	Statistic float64
	PValue    float64
}

// HypothesisTest defines the interface every supported test implements
type HypothesisTest interface {
	Kind() domainstats.TestKind
	Description() string
	MinGroups() int
	MaxGroups() int // 0 means unbounded
	Paired() bool   // matched samples: incomplete rows are dropped together
	Compute(samples [][]float64, params Params) (Outcome, error)
}

// checkGroups validates the number of samples handed to a test
func checkGroups(t HypothesisTest, samples [][]float64) error {
	k := len(samples)
	if k < t.MinGroups() || (t.MaxGroups() > 0 && k > t.MaxGroups()) {
		want := fmt.Sprintf("at least %d", t.MinGroups())
		if t.MaxGroups() == t.MinGroups() {
			want = fmt.Sprintf("exactly %d", t.MinGroups())
		}
		return errors.InvalidInput(fmt.Sprintf("%s needs %s columns, got %d", t.Kind(), want, k))
	}
	return nil
}

// outcome converts a kernel's return values, refusing non-finite results
// so they never reach a verdict
func outcome(stat, p float64, err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	if !isFinite(stat) || !isFinite(p) {
		return Outcome{}, errors.DegenerateData(fmt.Sprintf("test produced a non-finite result (statistic %v, p-value %v)", stat, p))
	}
	return Outcome{Statistic: stat, PValue: p}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ShapiroTest checks a single column for normality
type ShapiroTest struct{}

func (ShapiroTest) Kind() domainstats.TestKind { return domainstats.TestShapiro }
func (ShapiroTest) Description() string {
	return "Shapiro-Wilk normality test, one column at a time"
}
func (ShapiroTest) MinGroups() int { return 1 }
func (ShapiroTest) MaxGroups() int { return 1 }
func (ShapiroTest) Paired() bool   { return false }

func (t ShapiroTest) Compute(samples [][]float64, _ Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(ShapiroWilk(samples[0]))
}

// LeveneTest checks homogeneity of variances across columns
type LeveneTest struct{}

func (LeveneTest) Kind() domainstats.TestKind { return domainstats.TestLevene }
func (LeveneTest) Description() string {
	return "Levene test for equal variances across all columns"
}
func (LeveneTest) MinGroups() int { return 2 }
func (LeveneTest) MaxGroups() int { return 0 }
func (LeveneTest) Paired() bool   { return false }

func (t LeveneTest) Compute(samples [][]float64, params Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(Levene(samples, params.Center, params.TrimProportion))
}

// IndependentTTestCase compares the means of two independent columns
type IndependentTTestCase struct{}

func (IndependentTTestCase) Kind() domainstats.TestKind { return domainstats.TestTTestInd }
func (IndependentTTestCase) Description() string {
	return "Student's (or Welch's) t-test for two independent columns"
}
func (IndependentTTestCase) MinGroups() int { return 2 }
func (IndependentTTestCase) MaxGroups() int { return 2 }
func (IndependentTTestCase) Paired() bool   { return false }

func (t IndependentTTestCase) Compute(samples [][]float64, params Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(IndependentTTest(samples[0], samples[1], params.EqualVariances, params.Alternative))
}

// PairedTTestCase compares the means of two matched columns
type PairedTTestCase struct{}

func (PairedTTestCase) Kind() domainstats.TestKind { return domainstats.TestTTestRel }
func (PairedTTestCase) Description() string {
	return "Paired t-test for two related columns"
}
func (PairedTTestCase) MinGroups() int { return 2 }
func (PairedTTestCase) MaxGroups() int { return 2 }
func (PairedTTestCase) Paired() bool   { return true }

func (t PairedTTestCase) Compute(samples [][]float64, params Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(PairedTTest(samples[0], samples[1], params.Alternative))
}

// ANOVATest compares the means of two or more columns
type ANOVATest struct{}

func (ANOVATest) Kind() domainstats.TestKind { return domainstats.TestANOVA }
func (ANOVATest) Description() string {
	return "One-way ANOVA across two or more columns"
}
func (ANOVATest) MinGroups() int { return 2 }
func (ANOVATest) MaxGroups() int { return 0 }
func (ANOVATest) Paired() bool   { return false }

func (t ANOVATest) Compute(samples [][]float64, _ Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(OneWayANOVA(samples))
}

// WilcoxonTest is the signed-rank test for two paired columns
type WilcoxonTest struct{}

func (WilcoxonTest) Kind() domainstats.TestKind { return domainstats.TestWilcoxon }
func (WilcoxonTest) Description() string {
	return "Wilcoxon signed-rank test for two paired columns"
}
func (WilcoxonTest) MinGroups() int { return 2 }
func (WilcoxonTest) MaxGroups() int { return 2 }
func (WilcoxonTest) Paired() bool   { return true }

func (t WilcoxonTest) Compute(samples [][]float64, params Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(Wilcoxon(samples[0], samples[1], params.Alternative))
}

// MannWhitneyTest is the rank-sum test for two independent columns
type MannWhitneyTest struct{}

func (MannWhitneyTest) Kind() domainstats.TestKind { return domainstats.TestMannWhitneyU }
func (MannWhitneyTest) Description() string {
	return "Mann-Whitney U test for two independent columns"
}
func (MannWhitneyTest) MinGroups() int { return 2 }
func (MannWhitneyTest) MaxGroups() int { return 2 }
func (MannWhitneyTest) Paired() bool   { return false }

func (t MannWhitneyTest) Compute(samples [][]float64, params Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(MannWhitneyU(samples[0], samples[1], params.Alternative))
}

// FriedmanTest compares three or more matched columns
type FriedmanTest struct{}

func (FriedmanTest) Kind() domainstats.TestKind { return domainstats.TestFriedman }
func (FriedmanTest) Description() string {
	return "Friedman chi-square test for three or more matched columns"
}
func (FriedmanTest) MinGroups() int { return 3 }
func (FriedmanTest) MaxGroups() int { return 0 }
func (FriedmanTest) Paired() bool   { return true }

func (t FriedmanTest) Compute(samples [][]float64, _ Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(Friedman(samples))
}

// KruskalTest compares two or more independent columns by ranks
type KruskalTest struct{}

func (KruskalTest) Kind() domainstats.TestKind { return domainstats.TestKruskal }
func (KruskalTest) Description() string {
	return "Kruskal-Wallis H test for two or more independent columns"
}
func (KruskalTest) MinGroups() int { return 2 }
func (KruskalTest) MaxGroups() int { return 0 }
func (KruskalTest) Paired() bool   { return false }

func (t KruskalTest) Compute(samples [][]float64, _ Params) (Outcome, error) {
	if err := checkGroups(t, samples); err != nil {
		return Outcome{}, err
	}
	return outcome(KruskalWallis(samples))
}

// Registry holds the supported tests in a stable order
type Registry struct {
	tests []HypothesisTest
}

// NewRegistry creates a registry with every supported test
func NewRegistry() *Registry {
	return &Registry{
		tests: []HypothesisTest{
			ShapiroTest{},
			LeveneTest{},
			IndependentTTestCase{},
			PairedTTestCase{},
			ANOVATest{},
			WilcoxonTest{},
			MannWhitneyTest{},
			FriedmanTest{},
			KruskalTest{},
		},
	}
}

// Lookup returns the test for a kind
func (r *Registry) Lookup(kind domainstats.TestKind) (HypothesisTest, bool) {
	for _, t := range r.tests {
		if t.Kind() == kind {
			return t, true
		}
	}
	return nil, false
}

// Tests returns all registered tests in order
func (r *Registry) Tests() []HypothesisTest {
	out := make([]HypothesisTest, len(r.tests))
	copy(out, r.tests)
	return out
}

// Kinds returns the kinds of all registered tests
func (r *Registry) Kinds() []domainstats.TestKind {
	kinds := make([]domainstats.TestKind, len(r.tests))
	for i, t := range r.tests {
		kinds[i] = t.Kind()
	}
	return kinds
}
