package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hyporeport/adapters/excel"
	"hyporeport/app"
	"hyporeport/domain/dataset"
	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/config"
	"hyporeport/internal/errors"
	"hyporeport/internal/logging"
	"hyporeport/internal/report"
	"hyporeport/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}

	if err := newRootCmd(cfg, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine formats a failure for stderr, tagging application errors with
// their code
func errorLine(err error) string {
	if errors.IsAppError(err) {
		return fmt.Sprintf("error [%s]: %v", errors.GetCode(err), err)
	}
	return fmt.Sprintf("error: %v", err)
}

// cli carries the settings shared by every subcommand
type cli struct {
	cfg    *config.Config
	out    io.Writer
	logger *zap.Logger

	alpha    float64
	columns  []string
	sheet    string
	jsonPath string
	decimal  bool
	lang     report.Language
	format   report.Format
}

func newRootCmd(cfg *config.Config, out io.Writer) *cobra.Command {
	c := &cli{
		cfg:      cfg,
		out:      out,
		logger:   zap.NewNop(),
		alpha:    cfg.Tests.Alpha,
		sheet:    cfg.Input.Sheet,
		jsonPath: cfg.Input.DataPath,
		decimal:  cfg.Input.DecimalComma,
		lang:     report.Language(cfg.Report.Language),
		format:   report.Format(cfg.Report.Format),
	}

	rootCmd := &cobra.Command{
		Use:   "hyporeport",
		Short: "Hypothesis test reports for tabular data",
		Long: `Run classic hypothesis tests on the columns of a CSV, Excel or JSON file
and print the statistic, the p-value and the verdict at the chosen alfa.

Defaults come from HYPOREPORT_* environment variables, a .env file or the
YAML file named by HYPOREPORT_CONFIG.

Example: hyporeport levene dados.csv --columns A,B,C --alfa 0.01 --lang pt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			c.logger = logger.With(zap.String("run_id", uuid.NewString()))
			return domainstats.ValidateAlpha(c.alpha)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&c.alpha, "alfa", c.alpha, "Significance level")
	flags.StringSliceVar(&c.columns, "columns", nil, "Columns to use, in order (default: every column)")
	flags.StringVar(&c.sheet, "sheet", c.sheet, "Excel sheet (default: first sheet)")
	flags.StringVar(&c.jsonPath, "json-path", c.jsonPath, "Path to the records inside a JSON file")
	flags.BoolVar(&c.decimal, "decimal-comma", c.decimal, "Read \"2,5\" as 2.5 in data files")
	flags.Var(languageValue{&c.lang}, "lang", "Report language")
	flags.Var(formatValue{&c.format}, "format", "Report format")

	rootCmd.AddCommand(c.testCommands()...)
	rootCmd.AddCommand(
		c.newShapiroLeveneCmd(),
		c.newTestsCmd(),
		c.newFreqCmd(),
		c.newOutliersCmd(),
		c.newDescribeCmd(),
		c.newFigureCmd(),
		c.newGenerateCmd(),
	)
	return rootCmd
}

// load reads the data file and narrows it to --columns
func (c *cli) load(ctx context.Context, path string) (*dataset.Frame, error) {
	var reader ports.DatasetReader = excel.NewDataReader(c.readerConfig(), c.logger)
	frame, err := reader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(c.columns) == 0 {
		return frame, nil
	}
	return frame.Select(c.columns...)
}

func (c *cli) readerConfig() excel.ReaderConfig {
	return excel.ReaderConfig{
		Sheet:        c.sheet,
		DataPath:     c.jsonPath,
		Delimiter:    c.cfg.DelimiterRune(),
		DecimalComma: c.decimal,
	}
}

func (c *cli) printer() *report.Printer {
	return report.NewPrinter(c.out, c.lang, c.format)
}

// options starts from the configured test defaults and the --alfa flag
func (c *cli) options() app.Options {
	return app.Options{
		Alpha:          c.alpha,
		Alternative:    domainstats.Alternative(c.cfg.Tests.Alternative),
		EqualVariances: c.cfg.Tests.EqualVariances,
		Center:         domainstats.Center(c.cfg.Tests.Center),
		TrimProportion: c.cfg.Tests.TrimProportion,
	}
}

// report runs fn against a reporter wired to a fresh printer and flushes it
func (c *cli) report(opts app.Options, fn func(*app.Reporter) error) error {
	p := c.printer()
	reporter, err := app.NewReporter(opts, p, c.logger)
	if err != nil {
		return err
	}
	if err := fn(reporter); err != nil {
		return err
	}
	return p.Flush()
}
