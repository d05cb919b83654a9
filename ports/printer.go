package ports

import (
	"hyporeport/domain/stats"
)

// ResultPrinter renders test results for people to read.
// The reporter works without one; printing is optional.
type ResultPrinter interface {
	PrintResults(results ...stats.TestResult) error
	PrintComposite(shapiro []stats.TestResult, levene stats.TestResult) error
}
