package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hyporeport/adapters/stats/hypotest"
	"hyporeport/app"
	domainstats "hyporeport/domain/stats"
)

type testCmdSpec struct {
	use   string
	kind  domainstats.TestKind
	short string
	flags func(cmd *cobra.Command, opts *app.Options)
}

func alternativeFlag(cmd *cobra.Command, opts *app.Options) {
	cmd.Flags().Var(alternativeValue{&opts.Alternative}, "alternative", "Alternative hypothesis")
}

func leveneFlags(cmd *cobra.Command, opts *app.Options) {
	cmd.Flags().Var(centerValue{&opts.Center}, "center", "Center used for the absolute deviations")
	cmd.Flags().Float64Var(&opts.TrimProportion, "trim", opts.TrimProportion, "Proportion cut from each end when --center=trimmed")
}

var testCmdSpecs = []testCmdSpec{
	{use: "shapiro", kind: domainstats.TestShapiro, short: "Shapiro-Wilk normality test for every column"},
	{use: "levene", kind: domainstats.TestLevene, short: "Levene test for equal variances", flags: leveneFlags},
	{use: "ttest-ind", kind: domainstats.TestTTestInd, short: "t-test for two independent columns", flags: func(cmd *cobra.Command, opts *app.Options) {
		cmd.Flags().BoolVar(&opts.EqualVariances, "equal-var", opts.EqualVariances, "Assume equal variances (false runs Welch's test)")
		alternativeFlag(cmd, opts)
	}},
	{use: "ttest-rel", kind: domainstats.TestTTestRel, short: "Paired t-test for two related columns", flags: alternativeFlag},
	{use: "anova", kind: domainstats.TestANOVA, short: "One-way ANOVA across two or more columns"},
	{use: "wilcoxon", kind: domainstats.TestWilcoxon, short: "Wilcoxon signed-rank test for two paired columns", flags: alternativeFlag},
	{use: "mannwhitney", kind: domainstats.TestMannWhitneyU, short: "Mann-Whitney U test for two independent columns", flags: alternativeFlag},
	{use: "friedman", kind: domainstats.TestFriedman, short: "Friedman test for three or more matched columns"},
	{use: "kruskal", kind: domainstats.TestKruskal, short: "Kruskal-Wallis H test for two or more columns"},
}

func (c *cli) testCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(testCmdSpecs))
	for _, spec := range testCmdSpecs {
		cmds = append(cmds, c.newTestCmd(spec))
	}
	return cmds
}

func (c *cli) newTestCmd(spec testCmdSpec) *cobra.Command {
	opts := c.options()

	cmd := &cobra.Command{
		Use:   spec.use + " [data-file]",
		Short: spec.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts.Alpha = c.alpha
			return c.report(opts, func(r *app.Reporter) error {
				_, err := r.Run(spec.kind, frame)
				return err
			})
		},
	}
	if spec.flags != nil {
		spec.flags(cmd, &opts)
	}
	return cmd
}

func (c *cli) newShapiroLeveneCmd() *cobra.Command {
	opts := c.options()

	cmd := &cobra.Command{
		Use:   "shapiro-levene [data-file]",
		Short: "Normality of every column followed by Levene's test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts.Alpha = c.alpha
			return c.report(opts, func(r *app.Reporter) error {
				_, _, err := r.ShapiroLevene(frame)
				return err
			})
		},
	}
	leveneFlags(cmd, &opts)
	return cmd
}

func (c *cli) newTestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tests",
		Short: "List the supported hypothesis tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			for _, t := range hypotest.NewRegistry().Tests() {
				columns := fmt.Sprintf("%d+", t.MinGroups())
				switch {
				case t.Kind() == domainstats.TestShapiro:
					columns = "each"
				case t.MaxGroups() == t.MinGroups():
					columns = fmt.Sprintf("%d", t.MinGroups())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Kind(), columns, t.Description())
			}
			return tw.Flush()
		},
	}
}
