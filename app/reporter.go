package app

import (
	"fmt"

	"go.uber.org/zap"

	"hyporeport/adapters/stats/hypotest"
	"hyporeport/domain/dataset"
	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
	"hyporeport/ports"
)

// Options are the reporter-wide defaults; each call may override them
type Options struct {
	Alpha          float64
	Alternative    domainstats.Alternative
	EqualVariances bool
	Center         domainstats.Center
	TrimProportion float64
}

// DefaultOptions returns alfa 0.05, a two-sided alternative, equal
// variances and Levene centered on the mean
func DefaultOptions() Options {
	return Options{
		Alpha:          domainstats.DefaultAlpha,
		Alternative:    domainstats.TwoSided,
		EqualVariances: true,
		Center:         domainstats.CenterMean,
		TrimProportion: domainstats.DefaultTrimProportion,
	}
}

// Validate checks every option
func (o Options) Validate() error {
	if err := domainstats.ValidateAlpha(o.Alpha); err != nil {
		return err
	}
	if _, err := domainstats.ParseAlternative(string(o.Alternative)); err != nil {
		return err
	}
	if _, err := domainstats.ParseCenter(string(o.Center)); err != nil {
		return err
	}
	if o.TrimProportion < 0 || o.TrimProportion >= 0.5 {
		return errors.InvalidInput(fmt.Sprintf("trim proportion must be in [0, 0.5), got %v", o.TrimProportion))
	}
	return nil
}

func (o Options) params() hypotest.Params {
	return hypotest.Params{
		Alternative:    o.Alternative,
		EqualVariances: o.EqualVariances,
		Center:         o.Center,
		TrimProportion: o.TrimProportion,
	}
}

// Option overrides a single setting for one call
type Option func(*Options)

func WithAlpha(alpha float64) Option {
	return func(o *Options) { o.Alpha = alpha }
}

func WithAlternative(alt domainstats.Alternative) Option {
	return func(o *Options) { o.Alternative = alt }
}

func WithEqualVariances(equal bool) Option {
	return func(o *Options) { o.EqualVariances = equal }
}

func WithCenter(center domainstats.Center) Option {
	return func(o *Options) { o.Center = center }
}

func WithTrimProportion(proportion float64) Option {
	return func(o *Options) { o.TrimProportion = proportion }
}

// Reporter runs hypothesis tests over the columns of a frame and decides
// each one against alfa. Results are always returned; they are also
// printed when a printer is configured.
type Reporter struct {
	opts     Options
	registry *hypotest.Registry
	printer  ports.ResultPrinter
	logger   *zap.Logger
}

// NewReporter creates a reporter. printer and logger may be nil.
func NewReporter(opts Options, printer ports.ResultPrinter, logger *zap.Logger) (*Reporter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		opts:     opts,
		registry: hypotest.NewRegistry(),
		printer:  printer,
		logger:   logger.Named("reporter"),
	}, nil
}

// Registry exposes the supported tests
func (r *Reporter) Registry() *hypotest.Registry {
	return r.registry
}

// Shapiro tests every column for normality, one result per column in column order
func (r *Reporter) Shapiro(frame *dataset.Frame, opts ...Option) ([]domainstats.TestResult, error) {
	results, err := r.compute(domainstats.TestShapiro, frame, opts)
	if err != nil {
		return nil, err
	}
	return results, r.print(results)
}

// Levene tests whether all columns share the same variance
func (r *Reporter) Levene(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestLevene, frame, opts)
}

// IndependentTTest compares the means of two independent columns
func (r *Reporter) IndependentTTest(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestTTestInd, frame, opts)
}

// PairedTTest compares the means of two matched columns
func (r *Reporter) PairedTTest(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestTTestRel, frame, opts)
}

// OneWayANOVA compares the means of two or more columns
func (r *Reporter) OneWayANOVA(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestANOVA, frame, opts)
}

// Wilcoxon runs the signed-rank test on two matched columns
func (r *Reporter) Wilcoxon(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestWilcoxon, frame, opts)
}

// MannWhitneyU runs the rank-sum test on two independent columns
func (r *Reporter) MannWhitneyU(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestMannWhitneyU, frame, opts)
}

// Friedman compares three or more matched columns
func (r *Reporter) Friedman(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestFriedman, frame, opts)
}

// KruskalWallis compares two or more independent columns by ranks
func (r *Reporter) KruskalWallis(frame *dataset.Frame, opts ...Option) (domainstats.TestResult, error) {
	return r.single(domainstats.TestKruskal, frame, opts)
}

// ShapiroLevene checks normality of every column and then homogeneity of
// variances. When Levene fails the Shapiro-Wilk block is still printed and
// returned along with the error.
func (r *Reporter) ShapiroLevene(frame *dataset.Frame, opts ...Option) ([]domainstats.TestResult, domainstats.TestResult, error) {
	shapiro, err := r.compute(domainstats.TestShapiro, frame, opts)
	if err != nil {
		return nil, domainstats.TestResult{}, err
	}
	levene, err := r.compute(domainstats.TestLevene, frame, opts)
	if err != nil {
		if perr := r.print(shapiro); perr != nil {
			return nil, domainstats.TestResult{}, perr
		}
		return shapiro, domainstats.TestResult{}, errors.Wrap(err, "levene")
	}
	if r.printer != nil {
		if err := r.printer.PrintComposite(shapiro, levene[0]); err != nil {
			return nil, domainstats.TestResult{}, err
		}
	}
	return shapiro, levene[0], nil
}

// Run dispatches to a test by kind
func (r *Reporter) Run(kind domainstats.TestKind, frame *dataset.Frame, opts ...Option) ([]domainstats.TestResult, error) {
	results, err := r.compute(kind, frame, opts)
	if err != nil {
		return nil, err
	}
	return results, r.print(results)
}

func (r *Reporter) single(kind domainstats.TestKind, frame *dataset.Frame, opts []Option) (domainstats.TestResult, error) {
	results, err := r.compute(kind, frame, opts)
	if err != nil {
		return domainstats.TestResult{}, err
	}
	if err := r.print(results); err != nil {
		return domainstats.TestResult{}, err
	}
	return results[0], nil
}

func (r *Reporter) print(results []domainstats.TestResult) error {
	if r.printer == nil {
		return nil
	}
	return r.printer.PrintResults(results...)
}

// compute resolves options, extracts samples and runs the test.
// Shapiro-Wilk yields one result per column; every other test yields one.
func (r *Reporter) compute(kind domainstats.TestKind, frame *dataset.Frame, overrides []Option) ([]domainstats.TestResult, error) {
	test, ok := r.registry.Lookup(kind)
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown test %q", kind))
	}
	if frame == nil || frame.Width() == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s needs at least one column", kind))
	}

	opts := r.opts
	for _, o := range overrides {
		o(&opts)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Alternative, _ = domainstats.ParseAlternative(string(opts.Alternative))
	opts.Center, _ = domainstats.ParseCenter(string(opts.Center))

	var samples [][]float64
	if test.Paired() {
		paired, err := frame.PairedSamples()
		if err != nil {
			return nil, err
		}
		samples = paired
	} else {
		independent, err := frame.Samples()
		if err != nil {
			return nil, err
		}
		samples = independent
	}

	if kind == domainstats.TestShapiro {
		return r.perColumn(test, frame.Names(), samples, opts)
	}

	res, err := r.runOne(test, samples, opts)
	if err != nil {
		return nil, err
	}
	return []domainstats.TestResult{res}, nil
}

// perColumn runs a one-sample test on every column in order; the first
// failing column stops the run
func (r *Reporter) perColumn(test hypotest.HypothesisTest, names []string, samples [][]float64, opts Options) ([]domainstats.TestResult, error) {
	results := make([]domainstats.TestResult, 0, len(samples))
	for i, name := range names {
		res, err := r.runOne(test, [][]float64{samples[i]}, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", name)
		}
		res.Column = name
		results = append(results, res)
	}
	return results, nil
}

func (r *Reporter) runOne(test hypotest.HypothesisTest, samples [][]float64, opts Options) (domainstats.TestResult, error) {
	out, err := test.Compute(samples, opts.params())
	if err != nil {
		r.logger.Debug("test failed", zap.String("test", string(test.Kind())), zap.Error(err))
		return domainstats.TestResult{}, err
	}

	res := domainstats.NewTestResult(test.Kind(), out.Statistic, out.PValue, opts.Alpha)
	res.Groups = len(samples)
	for _, s := range samples {
		res.N += len(s)
	}
	res.Parameters = parametersFor(test.Kind(), opts)

	r.logger.Debug("test computed",
		zap.String("test", string(res.Test)),
		zap.Int("groups", res.Groups),
		zap.Int("n", res.N),
		zap.Float64("statistic", res.Statistic),
		zap.Float64("p_value", res.PValue),
		zap.String("decision", string(res.Decision)),
	)
	return res, nil
}

// parametersFor records the options that influenced a test
func parametersFor(kind domainstats.TestKind, opts Options) map[string]interface{} {
	switch kind {
	case domainstats.TestLevene:
		params := map[string]interface{}{"center": string(opts.Center)}
		if opts.Center == domainstats.CenterTrimmed {
			params["proportiontocut"] = opts.TrimProportion
		}
		return params
	case domainstats.TestTTestInd:
		return map[string]interface{}{
			"equal_var":   opts.EqualVariances,
			"alternative": string(opts.Alternative),
		}
	case domainstats.TestTTestRel, domainstats.TestWilcoxon, domainstats.TestMannWhitneyU:
		return map[string]interface{}{"alternative": string(opts.Alternative)}
	}
	return nil
}
