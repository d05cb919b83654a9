package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyporeport/adapters/excel"
	"hyporeport/internal/config"
	"hyporeport/internal/testkit"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(config.Default(), &out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func demoFile(t *testing.T, paired bool) string {
	t.Helper()
	cfg := testkit.DefaultGeneratorConfig()
	cfg.Paired = paired
	frame, err := testkit.Generate(cfg)
	require.NoError(t, err)
	return testkit.WriteCSV(t, "demo.csv", frame)
}

func TestTestCommands(t *testing.T) {
	independent := demoFile(t, false)
	paired := demoFile(t, true)

	testCases := []struct {
		args  []string
		title string
		label string
	}{
		{[]string{"levene", independent}, "Levene test", "statistic_levene = "},
		{[]string{"levene", independent, "--center", "median"}, "Levene test", "statistic_levene = "},
		{[]string{"anova", independent}, "One-way ANOVA", "statistic_f = "},
		{[]string{"kruskal", independent}, "Kruskal-Wallis test", "statistic_kruskal = "},
		{[]string{"ttest-ind", independent, "--columns", "A,B", "--equal-var=false"}, "ttest_ind", "statistic_ttest = "},
		{[]string{"mannwhitney", independent, "--columns", "A,B", "--alternative", "less"}, "Mann-Whitney U test", "statistic_mannwhitneyu = "},
		{[]string{"ttest-rel", paired, "--columns", "A,B"}, "ttest_rel", "statistic_ttest = "},
		{[]string{"wilcoxon", paired, "--columns", "A,B"}, "Wilcoxon signed-rank test", "statistic_wilcoxon = "},
		{[]string{"friedman", paired}, "Friedman chi-square test", "statistic_friedmanchisquare = "},
	}

	for _, tc := range testCases {
		t.Run(strings.Join(tc.args[:1], " "), func(t *testing.T) {
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tc.title)
			assert.Contains(t, out, tc.label)
			assert.Contains(t, out, "p-value: ")
		})
	}
}

func TestShapiroPortuguese(t *testing.T) {
	out, err := execute(t, "shapiro", demoFile(t, false), "--lang", "pt", "--alfa", "0.01")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Teste de Shapiro-Wilk"), "title printed once")
	assert.Equal(t, 3, strings.Count(out, "estatistica_sw = "))
}

func TestShapiroLeveneMarkdown(t *testing.T) {
	out, err := execute(t, "shapiro-levene", demoFile(t, false), "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## ")
	assert.Contains(t, out, "| A |")
	assert.Contains(t, out, "### Levene test")
}

func TestInvalidFlags(t *testing.T) {
	path := demoFile(t, false)

	_, err := execute(t, "levene", path, "--center", "mode")
	assert.Error(t, err)
	_, err = execute(t, "levene", path, "--alfa", "1.5")
	assert.Error(t, err)
	_, err = execute(t, "ttest-ind", path)
	assert.Error(t, err, "three columns for a two-sample test")
	_, err = execute(t, "levene", path, "--columns", "Z")
	assert.Error(t, err)
}

func TestErrorLine(t *testing.T) {
	path := demoFile(t, false)

	_, err := execute(t, "ttest-ind", path)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(errorLine(err), "error [INVALID_INPUT]: "))

	assert.Equal(t, "error: boom", errorLine(fmt.Errorf("boom")))
}

func TestTestsCommand(t *testing.T) {
	out, err := execute(t, "tests")
	require.NoError(t, err)
	assert.Contains(t, out, "shapiro")
	assert.Contains(t, out, "friedman")
	assert.Equal(t, 9, strings.Count(out, "\n"))
}

func TestProfilingCommands(t *testing.T) {
	path := demoFile(t, false)

	out, err := execute(t, "describe", path)
	require.NoError(t, err)
	assert.Contains(t, out, "mean")

	filtered := filepath.Join(t.TempDir(), "filtered.xlsx")
	out, err = execute(t, "outliers", path, "--columns", "A", "--out", filtered)
	require.NoError(t, err)
	assert.Contains(t, out, "Outlier bounds: A")
	frame, err := excel.NewDataReader(excel.DefaultReaderConfig(), nil).Load(context.Background(), filtered)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, frame.Names())
}

func TestFreqCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "votes.csv")
	require.NoError(t, os.WriteFile(path, []byte("voto\nsim\nnao\nsim\n"), 0o644))

	out, err := execute(t, "freq", path, "voto")
	require.NoError(t, err)
	assert.Contains(t, out, "nao")
	assert.Contains(t, out, "0.6667")
}

func TestFigureAndGenerate(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "demo.xlsx")
	_, err := execute(t, "generate", data, "--rows", "40", "--seed", "7")
	require.NoError(t, err)

	img := filepath.Join(dir, "A.svg")
	out, err := execute(t, "figure", data, "A", "--out", img, "--lang", "pt")
	require.NoError(t, err)
	assert.Equal(t, img+"\n", out)
	info, err := os.Stat(img)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
