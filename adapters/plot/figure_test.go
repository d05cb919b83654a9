package plot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyporeport/domain/dataset"
	"hyporeport/internal/errors"
	"hyporeport/internal/testkit"
)

func TestAutoBins(t *testing.T) {
	// 1..100 uniform: Sturges gives 8
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i + 1)
	}
	bins := AutoBins(data)
	assert.GreaterOrEqual(t, bins, 8)

	// zero IQR falls back to Sturges
	assert.Equal(t, 4, AutoBins([]float64{1, 1, 1, 1, 1, 1, 1, 9}))
	assert.Equal(t, 1, AutoBins([]float64{3}))
}

func TestBoxStats_SplitsOutliers(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 100}
	col := dataset.FromFloats("x", data)
	fig, err := NewHistogramBoxplot(col, DefaultFigureOptions())
	require.NoError(t, err)

	assert.Equal(t, []float64{100}, fig.Box.Outliers)
	assert.Equal(t, 1.0, fig.Box.Low)
	assert.Equal(t, 10.0, fig.Box.High)
	assert.Equal(t, 6.0, fig.Summary.Median)
}

func TestHistogramBoxplot_Save(t *testing.T) {
	values := testkit.NormalSample(7, 200, 50, 10)
	values[3] = math.NaN()
	col := dataset.FromFloats("peso", values)

	opts := DefaultFigureOptions()
	opts.Title = "peso"
	fig, err := NewHistogramBoxplot(col, opts)
	require.NoError(t, err)
	assert.Equal(t, 199, fig.Summary.N)
	assert.Greater(t, fig.Bins, 1)

	dir := t.TempDir()
	for _, name := range []string{"figura.png", "figura.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, fig.Save(path, 6, 4))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	err = fig.Save(filepath.Join(dir, "figura.bmp"), 6, 4)
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
	err = fig.Save(filepath.Join(dir, "figura.png"), 0, 4)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestHistogramBoxplot_Errors(t *testing.T) {
	_, err := NewHistogramBoxplot(dataset.FromFloats("x", []float64{1}), DefaultFigureOptions())
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))

	_, err = NewHistogramBoxplot(dataset.FromFloats("x", []float64{2, 2, 2}), DefaultFigureOptions())
	assert.Equal(t, errors.CodeDegenerateData, errors.GetCode(err))

	opts := DefaultFigureOptions()
	opts.Bins = -1
	_, err = NewHistogramBoxplot(dataset.FromFloats("x", []float64{1, 2, 3}), opts)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
