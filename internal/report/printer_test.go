package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/profiling"
)

func leveneResult(p float64) domainstats.TestResult {
	return domainstats.NewTestResult(domainstats.TestLevene, 8.24894, p, 0.05)
}

func TestPrintResults_Text(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, English, FormatText)

	require.NoError(t, p.PrintResults(leveneResult(0.0208)))
	assert.Equal(t,
		"Levene test\n"+
			"statistic_levene = 8.249\n"+
			"At least one variance differs (p-value: 0.021)\n",
		buf.String())
}

func TestPrintResults_Portuguese(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Portuguese, FormatText)

	r := domainstats.NewTestResult(domainstats.TestKruskal, 1.2346, 0.3, 0.05)
	require.NoError(t, p.PrintResults(r))
	assert.Equal(t,
		"Teste de Kruskal\n"+
			"estatistica_kruskal = 1.235\n"+
			"Não rejeita a hipótese nula (valor p: 0.300)\n",
		buf.String())
}

func TestVerdict_BoundaryRejects(t *testing.T) {
	pb := PhrasebookFor(English)

	r := domainstats.NewTestResult(domainstats.TestTTestInd, 2.0, 0.05, 0.05)
	assert.Equal(t, "Rejects the null hypothesis", pb.Verdict(r))

	r = domainstats.NewTestResult(domainstats.TestTTestInd, 2.0, 0.0500001, 0.05)
	assert.Equal(t, "Fails to reject the null hypothesis", pb.Verdict(r))

	assert.Equal(t, "Variances are equal", pb.Verdict(leveneResult(0.5)))
}

func TestPrintResults_ShapiroPerColumn(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, English, FormatText)

	a := domainstats.NewTestResult(domainstats.TestShapiro, 0.98, 0.7, 0.05)
	a.Column = "altura"
	b := domainstats.NewTestResult(domainstats.TestShapiro, 0.81, 0.001, 0.05)
	b.Column = "renda"
	require.NoError(t, p.PrintResults(a, b))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Shapiro-Wilk test", lines[0])
	assert.Equal(t, "altura follows a normal distribution (p-value: 0.700)", lines[2])
	assert.Equal(t, "renda does not follow a normal distribution (p-value: 0.001)", lines[4])
}

func TestPrintComposite_BlankLineBetweenTests(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Portuguese, FormatText)

	s := domainstats.NewTestResult(domainstats.TestShapiro, 0.95, 0.4, 0.05)
	s.Column = "A"
	require.NoError(t, p.PrintComposite([]domainstats.TestResult{s}, leveneResult(0.0208)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Teste de Shapiro e Levene\nTeste de Shapiro-Wilk\n"))
	assert.Contains(t, out, "(valor p: 0.400)\n\nTeste de Levene\n")
	assert.Contains(t, out, "Ao menos uma variância é diferente (valor p: 0.021)")
}

func TestPrintResults_MarkdownAndHTML(t *testing.T) {
	var md bytes.Buffer
	require.NoError(t, NewPrinter(&md, English, FormatMarkdown).PrintResults(leveneResult(0.0208)))
	assert.Contains(t, md.String(), "### Levene test")
	assert.Contains(t, md.String(), "| 8.249 | 0.021 | 0.05 | At least one variance differs |")

	var out bytes.Buffer
	p := NewPrinter(&out, English, FormatHTML)
	require.NoError(t, p.PrintResults(leveneResult(0.0208)))
	assert.Empty(t, out.String(), "html is written on flush")
	require.NoError(t, p.Flush())
	assert.Contains(t, out.String(), "<table>")
	assert.Contains(t, out.String(), "<h3")
	assert.Contains(t, out.String(), "At least one variance differs")
}

func TestPrintFrequencyTable(t *testing.T) {
	table := &profiling.FrequencyTable{
		Column: "cor",
		Total:  4,
		Rows: []profiling.FrequencyRow{
			{Label: "azul", Frequency: 1, Relative: 0.25, Cumulative: 1, RelativeCumulative: 0.25},
			{Label: "verde", Frequency: 3, Relative: 0.75, Cumulative: 4, RelativeCumulative: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, English, FormatText).PrintFrequencyTable(table))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "frequencia_relativa_acumulada")
	assert.Contains(t, lines[2], "verde")
	assert.Contains(t, lines[2], "1.0000")
	// right-aligned columns share a width
	assert.Equal(t, len(lines[1]), len(lines[2]))

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, Portuguese, FormatMarkdown).PrintFrequencyTable(table))
	assert.Contains(t, buf.String(), "### Distribuição de frequências: cor")
	assert.Contains(t, buf.String(), "| azul | 1 | 0.2500 | 1 | 0.2500 |")
}

func TestParseFormatAndLanguage(t *testing.T) {
	f, err := ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	l, err := ParseLanguage("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, Portuguese, l)
	_, err = ParseLanguage("fr")
	assert.Error(t, err)
}
