package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyporeport/internal/errors"
)

func TestFromStrings_ParsesAndMarksMissing(t *testing.T) {
	c := FromStrings("peso", []string{"1.5", " 2.25 ", "", "NA", "null"})

	require.Len(t, c.Values, 5)
	assert.Equal(t, 1.5, c.Values[0])
	assert.Equal(t, 2.25, c.Values[1])
	for _, i := range []int{2, 3, 4} {
		assert.True(t, math.IsNaN(c.Values[i]), "row %d should be missing", i)
	}
	assert.Empty(t, c.Invalid)
	assert.NoError(t, c.Validate())
	assert.Equal(t, []float64{1.5, 2.25}, c.Observed())
	assert.Equal(t, 5, c.Len())
}

func TestFromStrings_RecordsMalformedCells(t *testing.T) {
	c := FromStrings("A", []string{"1", "2", "3x", "inf", "-Infinity", "1,500", "5"})
	assert.Equal(t, []int{2, 3, 4, 5}, c.Invalid)
	assert.Equal(t, []string{"1", "2", "3x", "inf", "-Infinity", "1,500", "5"}, c.Text)

	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), `"3x"`)

	_, err = c.Numeric()
	assert.Error(t, err)
}

func TestParseStrings_DecimalComma(t *testing.T) {
	c := ParseStrings("peso", []string{"2,25", "1.5", "1.500,25", "3"}, ParseOptions{DecimalComma: true})
	assert.Equal(t, 2.25, c.Values[0])
	assert.Equal(t, 1.5, c.Values[1])
	assert.Equal(t, []int{2}, c.Invalid, "mixed separators stay invalid")
	assert.Equal(t, 3.0, c.Values[3])
}

func TestValidate_InfiniteFloats(t *testing.T) {
	c := FromFloats("x", []float64{1, math.Inf(1)})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(c.Validate()))
}

func TestCategories(t *testing.T) {
	c := FromStrings("grupo", []string{"a", "", "b"})
	labels, ok := c.Categories()
	assert.Equal(t, []string{"a", "", "b"}, labels)
	assert.Equal(t, []bool{true, false, true}, ok)

	n := FromFloats("x", []float64{1, math.NaN(), 2.5})
	labels, ok = n.Categories()
	assert.Equal(t, []string{"1", "", "2.5"}, labels)
	assert.Equal(t, []bool{true, false, true}, ok)
}

func TestNewFrame_RejectsDuplicates(t *testing.T) {
	_, err := NewFrame(FromFloats("a", nil), FromFloats("a", nil))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = NewFrame(FromFloats("", nil))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestSelect(t *testing.T) {
	f := MustFrame(
		FromFloats("a", []float64{1}),
		FromFloats("b", []float64{2}),
		FromFloats("c", []float64{3}),
	)

	sel, err := f.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Names())

	_, err = f.Select("z")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestSamples_OmitMissingPerColumn(t *testing.T) {
	nan := math.NaN()
	f := MustFrame(
		FromFloats("a", []float64{1, nan, 3}),
		FromFloats("b", []float64{4, 5, nan}),
	)
	got, err := f.Samples()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 3}, {4, 5}}, got)

	bad := MustFrame(
		FromStrings("a", []string{"1", "2", "3x"}),
		FromFloats("b", []float64{4, 5, 6}),
	)
	_, err = bad.Samples()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	_, err = bad.PairedSamples()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestPairedSamples_DropIncompleteRows(t *testing.T) {
	nan := math.NaN()
	f := MustFrame(
		FromFloats("antes", []float64{1, nan, 3, 4}),
		FromFloats("depois", []float64{2, 5, nan, 8}),
	)
	got, err := f.PairedSamples()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 4}, {2, 8}}, got)

	g := MustFrame(
		FromFloats("a", []float64{1, 2}),
		FromFloats("b", []float64{1}),
	)
	_, err = g.PairedSamples()
	assert.Equal(t, errors.CodeMismatchedSamples, errors.GetCode(err))
}
