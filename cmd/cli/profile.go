package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hyporeport/adapters/excel"
	"hyporeport/adapters/plot"
	"hyporeport/domain/dataset"
	"hyporeport/internal/errors"
	"hyporeport/internal/profiling"
	"hyporeport/internal/testkit"
)

func (c *cli) newFreqCmd() *cobra.Command {
	var opts profiling.FrequencyOptions

	cmd := &cobra.Command{
		Use:   "freq [data-file] [column]",
		Short: "Frequency distribution of a column",
		Long: `Build a frequency table with relative and cumulative frequencies.

With --precounted the column already holds counts and --label names the
column with the category of each row.

Example: hyporeport freq vendas.xlsx regiao`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table, err := profiling.BuildFrequencyTable(frame, args[1], opts)
			if err != nil {
				return err
			}
			p := c.printer()
			if err := p.PrintFrequencyTable(table); err != nil {
				return err
			}
			return p.Flush()
		},
	}

	cmd.Flags().BoolVar(&opts.Precounted, "precounted", false, "The column holds counts rather than observations")
	cmd.Flags().StringVar(&opts.LabelColumn, "label", "", "Column with the category labels of a precounted table")
	return cmd
}

func (c *cli) newOutliersCmd() *cobra.Command {
	whisker := c.cfg.Figure.Whisker
	var out string

	cmd := &cobra.Command{
		Use:   "outliers [data-file]",
		Short: "Drop values outside the IQR fences of every column",
		Long: `Compute Q1 - k*IQR and Q3 + k*IQR for every column and report how many
values fall inside. With --out the filtered columns are written to a CSV or
Excel file.

Example: hyporeport outliers dados.csv --columns peso --whisker 3 --out limpo.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p := c.printer()
			kept := make([]dataset.Column, 0, frame.Width())
			for i, col := range frame.Columns() {
				observed, err := col.Numeric()
				if err != nil {
					return err
				}
				values, bounds, err := profiling.RemoveOutliers(observed, whisker)
				if err != nil {
					return errors.Wrapf(err, "column %s", col.Name)
				}
				if i > 0 {
					if err := p.Blank(); err != nil {
						return err
					}
				}
				if err := p.PrintBounds(col.Name, bounds, len(values), len(observed)); err != nil {
					return err
				}
				kept = append(kept, dataset.FromFloats(col.Name, values))
			}
			if err := p.Flush(); err != nil {
				return err
			}

			if out == "" {
				return nil
			}
			filtered, err := dataset.NewFrame(kept...)
			if err != nil {
				return err
			}
			c.logger.Info("writing filtered data", zap.String("path", out), zap.Int("columns", len(kept)))
			return excel.NewDataWriter(c.readerConfig()).Write(out, filtered)
		},
	}

	cmd.Flags().Float64Var(&whisker, "whisker", whisker, "Fence distance in IQRs")
	cmd.Flags().StringVar(&out, "out", "", "Write the filtered columns to this CSV or Excel file")
	return cmd
}

func (c *cli) newDescribeCmd() *cobra.Command {
	whisker := c.cfg.Figure.Whisker

	cmd := &cobra.Command{
		Use:   "describe [data-file]",
		Short: "Summary statistics and outlier counts for every numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			profiles := profiling.NewDataProfiler(whisker).ProfileFrame(frame)
			if len(profiles) < frame.Width() {
				c.logger.Warn("skipped columns without enough numeric values",
					zap.Int("columns", frame.Width()), zap.Int("profiled", len(profiles)))
			}
			p := c.printer()
			if err := p.PrintProfiles(profiles); err != nil {
				return err
			}
			return p.Flush()
		},
	}

	cmd.Flags().Float64Var(&whisker, "whisker", whisker, "Fence distance in IQRs used to count outliers")
	return cmd
}

func (c *cli) newFigureCmd() *cobra.Command {
	opts := plot.DefaultFigureOptions()
	opts.Bins = c.cfg.Figure.Bins
	opts.Whisker = c.cfg.Figure.Whisker
	width, height := c.cfg.Figure.Width, c.cfg.Figure.Height
	var out string

	cmd := &cobra.Command{
		Use:   "figure [data-file] [column]",
		Short: "Histogram with KDE, boxplot and mean, median and mode lines",
		Long: `Draw the distribution of a column: histogram bars with a kernel density
curve, a boxplot above the bars and dashed lines at the mean, median and mode.
The output format follows the extension of --out (png, svg, pdf, jpg).

Example: hyporeport figure dados.csv peso --bins 12 --out peso.svg --lang pt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			col, ok := frame.Column(args[1])
			if !ok {
				return errors.NotFound("column " + args[1])
			}

			pb := c.printer().Phrases()
			figOpts := opts
			figOpts.Labels = plot.Labels{Mean: pb.MeanLabel, Median: pb.MedianLabel, Mode: pb.ModeLabel, Count: pb.CountLabel}
			if figOpts.Title == "" {
				figOpts.Title = col.Name
			}
			fig, err := plot.NewHistogramBoxplot(col, figOpts)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = sanitizeFileName(col.Name) + ".png"
			}
			if err := fig.Save(path, width, height); err != nil {
				return err
			}
			c.logger.Info("figure saved", zap.String("path", path), zap.Int("bins", fig.Bins))
			fmt.Fprintln(c.out, path)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Bins, "bins", opts.Bins, "Number of histogram bins (0 picks automatically)")
	cmd.Flags().Float64Var(&opts.Whisker, "whisker", opts.Whisker, "Boxplot whisker reach in IQRs")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Figure title (default: column name)")
	cmd.Flags().Float64Var(&width, "width", width, "Width in inches")
	cmd.Flags().Float64Var(&height, "height", height, "Height in inches")
	cmd.Flags().StringVar(&out, "out", "", "Output image (default: <column>.png)")
	return cmd
}

func (c *cli) newGenerateCmd() *cobra.Command {
	cfg := testkit.DefaultGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "generate [out-file]",
		Short: "Write a synthetic dataset of normal columns A, B and C",
		Long: `Write a reproducible dataset for trying the other commands. Columns A, B
and C are normal with means 10, 12 and 15. --paired makes them share a base
sample so paired tests apply.

Example: hyporeport generate demo.xlsx --rows 50 --paired`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := testkit.Generate(cfg)
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}
			return excel.NewDataWriter(c.readerConfig()).Write(args[0], frame)
		},
	}

	cmd.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "Rows per column")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for deterministic output")
	cmd.Flags().BoolVar(&cfg.Paired, "paired", false, "Columns share a base sample")
	cmd.Flags().IntVar(&cfg.MissingEvery, "missing-every", 0, "Leave every k-th row empty")
	return cmd
}

// sanitizeFileName keeps a column name usable as a file name
func sanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
	return filepath.Clean(name)
}
