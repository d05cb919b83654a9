package report

import (
	"fmt"
	"strings"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
)

// Language selects the phrasebook used for verdicts
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt"
)

// ParseLanguage converts user input into a Language
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case English, "":
		return English, nil
	case Portuguese, "pt-br", "pt_br":
		return Portuguese, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown language %q (want en or pt)", s))
}

// Phrasebook holds the wording of every printed line
type Phrasebook struct {
	Titles          map[domainstats.TestKind]string
	StatisticLabels map[domainstats.TestKind]string
	CompositeTitle  string
	PValue          string // label inside the verdict parentheses

	FailToReject string
	Reject       string
	Normal       string // format verb receives the column name
	NotNormal    string
	EqualVar     string
	UnequalVar   string

	ColumnHeader  string
	VerdictHeader string
	Bounds        string
	Frequency     string
	Summary       string

	// figure legend
	MeanLabel   string
	MedianLabel string
	ModeLabel   string
	CountLabel  string
}

var english = Phrasebook{
	Titles: map[domainstats.TestKind]string{
		domainstats.TestShapiro:      "Shapiro-Wilk test",
		domainstats.TestLevene:       "Levene test",
		domainstats.TestTTestInd:     "Student's t-test - ttest_ind",
		domainstats.TestTTestRel:     "Student's t-test - ttest_rel",
		domainstats.TestANOVA:        "One-way ANOVA",
		domainstats.TestWilcoxon:     "Wilcoxon signed-rank test",
		domainstats.TestMannWhitneyU: "Mann-Whitney U test",
		domainstats.TestFriedman:     "Friedman chi-square test",
		domainstats.TestKruskal:      "Kruskal-Wallis test",
	},
	StatisticLabels: map[domainstats.TestKind]string{
		domainstats.TestShapiro:      "statistic_sw",
		domainstats.TestLevene:       "statistic_levene",
		domainstats.TestTTestInd:     "statistic_ttest",
		domainstats.TestTTestRel:     "statistic_ttest",
		domainstats.TestANOVA:        "statistic_f",
		domainstats.TestWilcoxon:     "statistic_wilcoxon",
		domainstats.TestMannWhitneyU: "statistic_mannwhitneyu",
		domainstats.TestFriedman:     "statistic_friedmanchisquare",
		domainstats.TestKruskal:      "statistic_kruskal",
	},
	CompositeTitle: "Shapiro-Wilk and Levene tests",
	PValue:         "p-value",
	FailToReject:   "Fails to reject the null hypothesis",
	Reject:         "Rejects the null hypothesis",
	Normal:         "%s follows a normal distribution",
	NotNormal:      "%s does not follow a normal distribution",
	EqualVar:       "Variances are equal",
	UnequalVar:     "At least one variance differs",
	ColumnHeader:   "column",
	VerdictHeader:  "verdict",
	Bounds:         "Outlier bounds",
	Frequency:      "Frequency distribution",
	Summary:        "Summary",
	MeanLabel:      "Mean",
	MedianLabel:    "Median",
	ModeLabel:      "Mode",
	CountLabel:     "Count",
}

var portuguese = Phrasebook{
	Titles: map[domainstats.TestKind]string{
		domainstats.TestShapiro:      "Teste de Shapiro-Wilk",
		domainstats.TestLevene:       "Teste de Levene",
		domainstats.TestTTestInd:     "Teste de t Students - ttest_ind",
		domainstats.TestTTestRel:     "Teste de t Students - ttest_rel",
		domainstats.TestANOVA:        "Teste de ANOVA one way",
		domainstats.TestWilcoxon:     "Teste de Wilcoxon",
		domainstats.TestMannWhitneyU: "Teste de MannWhitney",
		domainstats.TestFriedman:     "Teste de Friedmanchisquare",
		domainstats.TestKruskal:      "Teste de Kruskal",
	},
	StatisticLabels: map[domainstats.TestKind]string{
		domainstats.TestShapiro:      "estatistica_sw",
		domainstats.TestLevene:       "estatistica_levene",
		domainstats.TestTTestInd:     "estatistica_tteste",
		domainstats.TestTTestRel:     "estatistica_tteste",
		domainstats.TestANOVA:        "estatistica_f",
		domainstats.TestWilcoxon:     "estatistica_wilcoxon",
		domainstats.TestMannWhitneyU: "estatistica_mannwhitneyu",
		domainstats.TestFriedman:     "estatistica_friedmanchisquare",
		domainstats.TestKruskal:      "estatistica_kruskal",
	},
	CompositeTitle: "Teste de Shapiro e Levene",
	PValue:         "valor p",
	FailToReject:   "Não rejeita a hipótese nula",
	Reject:         "Rejeita a hipótese nula",
	Normal:         "%s segue uma distribuição normal",
	NotNormal:      "%s não segue uma distribuição normal",
	EqualVar:       "Variâncias iguais",
	UnequalVar:     "Ao menos uma variância é diferente",
	ColumnHeader:   "coluna",
	VerdictHeader:  "decisão",
	Bounds:         "Limites de outliers",
	Frequency:      "Distribuição de frequências",
	Summary:        "Resumo",
	MeanLabel:      "Média",
	MedianLabel:    "Mediana",
	ModeLabel:      "Moda",
	CountLabel:     "Contagem",
}

// PhrasebookFor returns the phrasebook of a language
func PhrasebookFor(lang Language) *Phrasebook {
	if lang == Portuguese {
		return &portuguese
	}
	return &english
}

// Title returns the heading printed before a test's results
func (pb *Phrasebook) Title(kind domainstats.TestKind) string {
	if t, ok := pb.Titles[kind]; ok {
		return t
	}
	return string(kind)
}

// StatisticLabel names the statistic of a test
func (pb *Phrasebook) StatisticLabel(kind domainstats.TestKind) string {
	if l, ok := pb.StatisticLabels[kind]; ok {
		return l
	}
	return "statistic"
}

// Verdict phrases a result's decision. Shapiro and Levene use their own
// wording; every other test uses the generic null-hypothesis phrasing.
func (pb *Phrasebook) Verdict(r domainstats.TestResult) string {
	keep := !r.Rejected()
	switch r.Test {
	case domainstats.TestShapiro:
		if keep {
			return fmt.Sprintf(pb.Normal, r.Column)
		}
		return fmt.Sprintf(pb.NotNormal, r.Column)
	case domainstats.TestLevene:
		if keep {
			return pb.EqualVar
		}
		return pb.UnequalVar
	}
	if keep {
		return pb.FailToReject
	}
	return pb.Reject
}
