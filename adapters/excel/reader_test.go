package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hyporeport/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "dados.csv", "A,B,grupo\n1,10,x\n2,,y\n3,30\n")

	frame, err := NewDataReader(DefaultReaderConfig(), nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "grupo"}, frame.Names())

	b, ok := frame.Column("B")
	require.True(t, ok)
	assert.Equal(t, 10.0, b.Values[0])
	assert.True(t, math.IsNaN(b.Values[1]))
	assert.Equal(t, []float64{10, 30}, b.Observed())

	g, _ := frame.Column("grupo")
	labels, present := g.Categories()
	assert.Equal(t, []string{"x", "y", ""}, labels)
	assert.Equal(t, []bool{true, true, false}, present)
}

func TestLoad_CSVSemicolonWithDecimalComma(t *testing.T) {
	path := writeFile(t, "dados.csv", "peso;altura\n70,5;1,80\n82,1;1,75\n")

	cfg := DefaultReaderConfig()
	cfg.Delimiter = ';'
	cfg.DecimalComma = true
	frame, err := NewDataReader(cfg, nil).Load(context.Background(), path)
	require.NoError(t, err)

	peso, _ := frame.Column("peso")
	assert.Equal(t, []float64{70.5, 82.1}, peso.Values)
	assert.Empty(t, peso.Invalid)
}

func TestLoad_CommaIsNotADecimalByDefault(t *testing.T) {
	path := writeFile(t, "dados.csv", `A;B
1;10
2;"1,500"
`)

	cfg := DefaultReaderConfig()
	cfg.Delimiter = ';'
	frame, err := NewDataReader(cfg, nil).Load(context.Background(), path)
	require.NoError(t, err)

	b, _ := frame.Column("B")
	assert.Equal(t, []int{1}, b.Invalid)
	_, err = frame.Samples()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), `"1,500"`)
}

func TestLoad_JSONRecords(t *testing.T) {
	path := writeFile(t, "dados.json", `{"result": {"rows": [
		{"A": 1, "B": 10},
		{"A": 2, "B": null},
		{"A": 3, "C": "z"}
	]}}`)

	cfg := DefaultReaderConfig()
	cfg.DataPath = "result.rows"
	frame, err := NewDataReader(cfg, nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, frame.Names())

	a, _ := frame.Column("A")
	assert.Equal(t, []float64{1, 2, 3}, a.Values)
	b, _ := frame.Column("B")
	assert.Equal(t, []float64{10}, b.Observed())
}

func TestLoad_JSONColumns(t *testing.T) {
	path := writeFile(t, "dados.json", `{"antes": [1, 2, 3], "depois": [2.5, 3.5, 4.5]}`)

	frame, err := NewDataReader(DefaultReaderConfig(), nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"antes", "depois"}, frame.Names())
	depois, _ := frame.Column("depois")
	assert.Equal(t, []float64{2.5, 3.5, 4.5}, depois.Values)
}

func TestLoad_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"A", "B"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1, 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{2, 20}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{3}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	frame, err := NewDataReader(DefaultReaderConfig(), nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, frame.Names())

	b, _ := frame.Column("B")
	assert.Equal(t, []float64{10, 20}, b.Observed())
	assert.Equal(t, 3, b.Len())

	cfg := DefaultReaderConfig()
	cfg.Sheet = "Planilha9"
	_, err = NewDataReader(cfg, nil).Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig(), nil)

	_, err := reader.Load(context.Background(), "dados.parquet")
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))

	_, err = reader.Load(context.Background(), filepath.Join(t.TempDir(), "nada.csv"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	headerOnly := writeFile(t, "vazio.csv", "A,B\n")
	_, err = reader.Load(context.Background(), headerOnly)
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))

	dup := writeFile(t, "dup.csv", "A,A\n1,2\n")
	_, err = reader.Load(context.Background(), dup)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	bad := writeFile(t, "ruim.json", `{"a": [1, 2`)
	_, err = reader.Load(context.Background(), bad)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.Load(ctx, headerOnly)
	assert.ErrorIs(t, err, context.Canceled)
}
