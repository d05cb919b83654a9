package main

import (
	"github.com/spf13/pflag"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/report"
)

var (
	_ pflag.Value = alternativeValue{}
	_ pflag.Value = centerValue{}
	_ pflag.Value = languageValue{}
	_ pflag.Value = formatValue{}
)

// alternativeValue is a pflag.Value restricted to the alternative hypotheses
type alternativeValue struct{ v *domainstats.Alternative }

func (a alternativeValue) String() string { return string(*a.v) }
func (a alternativeValue) Type() string   { return "two-sided|less|greater" }
func (a alternativeValue) Set(s string) error {
	alt, err := domainstats.ParseAlternative(s)
	if err != nil {
		return err
	}
	*a.v = alt
	return nil
}

// centerValue is a pflag.Value for Levene's center
type centerValue struct{ v *domainstats.Center }

func (c centerValue) String() string { return string(*c.v) }
func (c centerValue) Type() string   { return "mean|median|trimmed" }
func (c centerValue) Set(s string) error {
	center, err := domainstats.ParseCenter(s)
	if err != nil {
		return err
	}
	*c.v = center
	return nil
}

type languageValue struct{ v *report.Language }

func (l languageValue) String() string { return string(*l.v) }
func (l languageValue) Type() string   { return "en|pt" }
func (l languageValue) Set(s string) error {
	lang, err := report.ParseLanguage(s)
	if err != nil {
		return err
	}
	*l.v = lang
	return nil
}

type formatValue struct{ v *report.Format }

func (f formatValue) String() string { return string(*f.v) }
func (f formatValue) Type() string   { return "text|markdown|html" }
func (f formatValue) Set(s string) error {
	format, err := report.ParseFormat(s)
	if err != nil {
		return err
	}
	*f.v = format
	return nil
}
