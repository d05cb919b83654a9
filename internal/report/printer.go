package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
	"hyporeport/internal/profiling"
)

// Format is the output format of a Printer
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat converts user input into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown format %q (want text, markdown or html)", s))
}

// Printer renders test results, outlier bounds and frequency tables.
// HTML output is buffered as Markdown and converted on Flush.
type Printer struct {
	w       io.Writer
	format  Format
	phrases *Phrasebook
	pending bytes.Buffer
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, lang Language, format Format) *Printer {
	if format == "" {
		format = FormatText
	}
	return &Printer{w: w, format: format, phrases: PhrasebookFor(lang)}
}

// Phrases exposes the printer's phrasebook
func (p *Printer) Phrases() *Phrasebook {
	return p.phrases
}

// PrintResults prints the title of the first result's test once, then the
// statistic and verdict of every result in order.
func (p *Printer) PrintResults(results ...domainstats.TestResult) error {
	if len(results) == 0 {
		return nil
	}
	if p.format == FormatText {
		return p.emit(p.textResults(results))
	}
	return p.emit(p.markdownResults(results))
}

// PrintComposite prints the Shapiro-Wilk results, a blank line and the Levene result
func (p *Printer) PrintComposite(shapiro []domainstats.TestResult, levene domainstats.TestResult) error {
	var b strings.Builder
	if p.format == FormatText {
		b.WriteString(p.phrases.CompositeTitle + "\n")
		b.WriteString(p.textResults(shapiro))
		b.WriteString("\n")
		b.WriteString(p.textResults([]domainstats.TestResult{levene}))
	} else {
		fmt.Fprintf(&b, "## %s\n\n", p.phrases.CompositeTitle)
		b.WriteString(p.markdownResults(shapiro))
		b.WriteString(p.markdownResults([]domainstats.TestResult{levene}))
	}
	return p.emit(b.String())
}

func (p *Printer) textResults(results []domainstats.TestResult) string {
	var b strings.Builder
	b.WriteString(p.phrases.Title(results[0].Test) + "\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%s = %.3f\n", p.phrases.StatisticLabel(r.Test), r.Statistic)
		fmt.Fprintf(&b, "%s (%s: %.3f)\n", p.phrases.Verdict(r), p.phrases.PValue, r.PValue)
	}
	return b.String()
}

func (p *Printer) markdownResults(results []domainstats.TestResult) string {
	perColumn := results[0].Column != ""

	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", p.phrases.Title(results[0].Test))
	header := []string{p.phrases.StatisticLabel(results[0].Test), p.phrases.PValue, "alfa", p.phrases.VerdictHeader}
	if perColumn {
		header = append([]string{p.phrases.ColumnHeader}, header...)
	}
	writeMarkdownRow(&b, header)
	writeMarkdownRule(&b, len(header))
	for _, r := range results {
		row := []string{
			fmt.Sprintf("%.3f", r.Statistic),
			fmt.Sprintf("%.3f", r.PValue),
			fmt.Sprintf("%g", r.Alpha),
			p.phrases.Verdict(r),
		}
		if perColumn {
			row = append([]string{r.Column}, row...)
		}
		writeMarkdownRow(&b, row)
	}
	b.WriteString("\n")
	return b.String()
}

// PrintBounds reports the outlier fences of a column and how many values survived
func (p *Printer) PrintBounds(column string, bounds profiling.Bounds, kept, total int) error {
	var b strings.Builder
	if p.format == FormatText {
		fmt.Fprintf(&b, "%s: %s\n", p.phrases.Bounds, column)
		fmt.Fprintf(&b, "Q1 = %.3f, Q3 = %.3f, IQR = %.3f\n", bounds.Q1, bounds.Q3, bounds.IQR)
		fmt.Fprintf(&b, "[%.3f, %.3f] (%d/%d)\n", bounds.Lower, bounds.Upper, kept, total)
		return p.emit(b.String())
	}
	fmt.Fprintf(&b, "### %s: %s\n\n", p.phrases.Bounds, column)
	writeMarkdownRow(&b, []string{"Q1", "Q3", "IQR", "lower", "upper", "n"})
	writeMarkdownRule(&b, 6)
	writeMarkdownRow(&b, []string{
		fmt.Sprintf("%.3f", bounds.Q1),
		fmt.Sprintf("%.3f", bounds.Q3),
		fmt.Sprintf("%.3f", bounds.IQR),
		fmt.Sprintf("%.3f", bounds.Lower),
		fmt.Sprintf("%.3f", bounds.Upper),
		fmt.Sprintf("%d/%d", kept, total),
	})
	b.WriteString("\n")
	return p.emit(b.String())
}

// PrintFrequencyTable writes a frequency distribution as an aligned table
func (p *Printer) PrintFrequencyTable(table *profiling.FrequencyTable) error {
	rows := make([][]string, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = []string{
			r.Label,
			fmt.Sprintf("%g", r.Frequency),
			fmt.Sprintf("%.4f", r.Relative),
			fmt.Sprintf("%g", r.Cumulative),
			fmt.Sprintf("%.4f", r.RelativeCumulative),
		}
	}

	if p.format == FormatText {
		var b strings.Builder
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, strings.Join(table.Headers(), "\t")+"\t")
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "failed to align frequency table")
		}
		return p.emit(b.String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### %s: %s\n\n", p.phrases.Frequency, table.Column)
	writeMarkdownRow(&b, table.Headers())
	writeMarkdownRule(&b, len(table.Headers()))
	for _, row := range rows {
		writeMarkdownRow(&b, row)
	}
	b.WriteString("\n")
	return p.emit(b.String())
}

// PrintProfiles writes one summary line per profiled column
func (p *Printer) PrintProfiles(profiles []profiling.ColumnProfile) error {
	headers := []string{p.phrases.ColumnHeader, "n", "missing", "mean", "median", "mode", "std", "min", "max", "outliers"}
	rows := make([][]string, len(profiles))
	for i, pr := range profiles {
		s := pr.Summary
		rows[i] = []string{
			pr.Column,
			fmt.Sprintf("%d", s.N),
			fmt.Sprintf("%d", pr.Missing),
			fmt.Sprintf("%.3f", s.Mean),
			fmt.Sprintf("%.3f", s.Median),
			fmt.Sprintf("%.3f", s.Mode),
			fmt.Sprintf("%.3f", s.StdDev),
			fmt.Sprintf("%.3f", s.Min),
			fmt.Sprintf("%.3f", s.Max),
			fmt.Sprintf("%d", pr.Outliers),
		}
	}

	var b strings.Builder
	if p.format == FormatText {
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, strings.Join(headers, "\t")+"\t")
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "failed to align summary table")
		}
		return p.emit(b.String())
	}

	fmt.Fprintf(&b, "### %s\n\n", p.phrases.Summary)
	writeMarkdownRow(&b, headers)
	writeMarkdownRule(&b, len(headers))
	for _, row := range rows {
		writeMarkdownRow(&b, row)
	}
	b.WriteString("\n")
	return p.emit(b.String())
}

// Blank writes an empty line between reports
func (p *Printer) Blank() error {
	return p.emit("\n")
}

// Flush converts buffered Markdown to HTML. Text and Markdown printers write
// immediately and Flush is a no-op for them.
func (p *Printer) Flush() error {
	if p.format != FormatHTML || p.pending.Len() == 0 {
		return nil
	}
	out := ToHTML(p.pending.Bytes())
	p.pending.Reset()
	if _, err := p.w.Write(out); err != nil {
		return errors.Wrap(err, "failed to write html report")
	}
	return nil
}

func (p *Printer) emit(s string) error {
	if p.format == FormatHTML {
		p.pending.WriteString(s)
		return nil
	}
	if _, err := io.WriteString(p.w, s); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}
