package testkit

import (
	"encoding/csv"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"hyporeport/domain/dataset"
)

// source returns a deterministic random source for a seed
func source(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func draw(d interface{ Rand() float64 }, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}

// NormalSample draws n values from N(mu, sigma)
func NormalSample(seed uint64, n int, mu, sigma float64) []float64 {
	return draw(distuv.Normal{Mu: mu, Sigma: sigma, Src: source(seed)}, n)
}

// UniformSample draws n values from U(min, max)
func UniformSample(seed uint64, n int, min, max float64) []float64 {
	return draw(distuv.Uniform{Min: min, Max: max, Src: source(seed)}, n)
}

// ExponentialSample draws n values from Exp(rate)
func ExponentialSample(seed uint64, n int, rate float64) []float64 {
	return draw(distuv.Exponential{Rate: rate, Src: source(seed)}, n)
}

// WithMissing returns a copy of values where every k-th entry is NaN
func WithMissing(values []float64, k int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if k <= 0 {
		return out
	}
	for i := k - 1; i < len(out); i += k {
		out[i] = math.NaN()
	}
	return out
}

// WriteCSV writes a frame to a csv file in a test temp dir and returns its path.
// Missing values are written as empty cells.
func WriteCSV(t testing.TB, name string, frame *dataset.Frame) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := frame.Columns()
	if err := w.Write(frame.Names()); err != nil {
		t.Fatalf("write header: %v", err)
	}
	rows := 0
	for _, c := range cols {
		if c.Len() > rows {
			rows = c.Len()
		}
	}
	for i := 0; i < rows; i++ {
		record := make([]string, len(cols))
		for j, c := range cols {
			switch {
			case c.Text != nil && i < len(c.Text):
				record[j] = c.Text[i]
			case i < len(c.Values) && !math.IsNaN(c.Values[i]):
				record[j] = strconv.FormatFloat(c.Values[i], 'g', -1, 64)
			}
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("write row %d: %v", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return path
}
