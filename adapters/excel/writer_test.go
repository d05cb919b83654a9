package excel

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyporeport/domain/dataset"
	"hyporeport/internal/errors"
)

func sampleFrame() *dataset.Frame {
	return dataset.MustFrame(
		dataset.FromFloats("A", []float64{1.5, math.NaN(), 3}),
		dataset.FromStrings("grupo", []string{"x", "y", "x"}),
	)
}

func TestWrite_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.csv", "out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, NewDataWriter(DefaultReaderConfig()).Write(path, sampleFrame()))

			frame, err := NewDataReader(DefaultReaderConfig(), nil).Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "grupo"}, frame.Names())

			a, _ := frame.Column("A")
			assert.Equal(t, []float64{1.5, 3}, a.Observed())
			g, _ := frame.Column("grupo")
			labels, _ := g.Categories()
			assert.Equal(t, []string{"x", "y", "x"}, labels)
		})
	}
}

func TestWrite_NamedSheetAndDelimiter(t *testing.T) {
	cfg := ReaderConfig{Sheet: "dados", Delimiter: ';'}
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "out.xlsx")
	require.NoError(t, NewDataWriter(cfg).Write(xlsx, sampleFrame()))
	frame, err := NewDataReader(cfg, nil).Load(context.Background(), xlsx)
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Width())

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, NewDataWriter(cfg).Write(csvPath, sampleFrame()))
	frame, err = NewDataReader(cfg, nil).Load(context.Background(), csvPath)
	require.NoError(t, err)
	a, _ := frame.Column("A")
	assert.Equal(t, []float64{1.5, 3}, a.Observed())
}

func TestWrite_Unsupported(t *testing.T) {
	err := NewDataWriter(DefaultReaderConfig()).Write(filepath.Join(t.TempDir(), "out.json"), sampleFrame())
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}
