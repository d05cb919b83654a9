package excel

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hyporeport/domain/dataset"
	"hyporeport/internal/errors"
)

// DataReader loads CSV, Excel and JSON files into a frame.
// The first row (or the record keys) names the columns.
type DataReader struct {
	config ReaderConfig
	logger *zap.Logger
}

// NewDataReader creates a reader; logger may be nil
func NewDataReader(config ReaderConfig, logger *zap.Logger) *DataReader {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReader{config: config, logger: logger.Named("reader")}
}

// Load reads the file at path
func (r *DataReader) Load(ctx context.Context, path string) (*dataset.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType, ok := DetectFileType(path)
	if !ok {
		return nil, errors.UnsupportedFormat(filepath.Ext(path))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NotFound("file " + path)
	}

	start := time.Now()
	var frame *dataset.Frame
	var err error
	switch fileType {
	case FileTypeCSV:
		frame, err = r.readCSV(path)
	case FileTypeXLSX:
		frame, err = r.readExcel(path)
	case FileTypeJSON:
		frame, err = r.readJSON(path)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("dataset loaded",
		zap.String("path", path),
		zap.String("type", string(fileType)),
		zap.Int("columns", frame.Width()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return frame, nil
}

func (r *DataReader) parseOptions() dataset.ParseOptions {
	return dataset.ParseOptions{DecimalComma: r.config.DecimalComma}
}

func (r *DataReader) readCSV(path string) (*dataset.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.config.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "failed to read CSV file"))
	}
	return rowsToFrame(rows, r.parseOptions())
}

func (r *DataReader) readExcel(path string) (*dataset.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeNotFound, errors.Wrapf(err, "failed to read sheet %s", sheet))
	}
	return rowsToFrame(rows, r.parseOptions())
}

// readJSON accepts an array of records or an object of column arrays,
// optionally nested under the configured data path
func (r *DataReader) readJSON(path string) (*dataset.Frame, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read JSON file")
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.InvalidInput("file is not valid JSON: " + path)
	}

	data := gjson.ParseBytes(body)
	if r.config.DataPath != "" {
		data = gjson.GetBytes(body, r.config.DataPath)
		if !data.Exists() {
			return nil, errors.NotFound("data path " + r.config.DataPath)
		}
	}

	switch {
	case data.IsArray():
		return recordsToFrame(data, r.parseOptions())
	case data.IsObject():
		return columnsToFrame(data, r.parseOptions())
	}
	return nil, errors.InvalidInput("json data must be an array of records or an object of columns")
}

// rowsToFrame treats the first row as the header; short rows are padded
// with missing cells
func rowsToFrame(rows [][]string, opts dataset.ParseOptions) (*dataset.Frame, error) {
	if len(rows) < 2 {
		return nil, errors.InsufficientData("file must have a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	cells := make([][]string, len(headers))
	for _, row := range rows[1:] {
		for j := range headers {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			cells[j] = append(cells[j], cell)
		}
	}

	columns := make([]dataset.Column, len(headers))
	for j, h := range headers {
		columns[j] = dataset.ParseStrings(h, cells[j], opts)
	}
	return dataset.NewFrame(columns...)
}

func recordsToFrame(data gjson.Result, opts dataset.ParseOptions) (*dataset.Frame, error) {
	records := data.Array()
	if len(records) == 0 {
		return nil, errors.InsufficientData("json data has no records")
	}

	var headers []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if !rec.IsObject() {
			return nil, errors.InvalidInput("json records must be objects")
		}
		rec.ForEach(func(key, _ gjson.Result) bool {
			if !seen[key.String()] {
				seen[key.String()] = true
				headers = append(headers, key.String())
			}
			return true
		})
	}

	columns := make([]dataset.Column, len(headers))
	for j, h := range headers {
		cells := make([]string, len(records))
		for i, rec := range records {
			cells[i] = cellText(rec.Get(gjson.Escape(h)))
		}
		columns[j] = dataset.ParseStrings(h, cells, opts)
	}
	return dataset.NewFrame(columns...)
}

func columnsToFrame(data gjson.Result, opts dataset.ParseOptions) (*dataset.Frame, error) {
	var columns []dataset.Column
	var err error
	data.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			err = errors.InvalidInput("json column " + key.String() + " is not an array")
			return false
		}
		values := value.Array()
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellText(v)
		}
		columns = append(columns, dataset.ParseStrings(key.String(), cells, opts))
		return true
	})
	if err != nil {
		return nil, err
	}
	return dataset.NewFrame(columns...)
}

// cellText renders a json value the way it would appear in a csv cell
func cellText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.Number:
		return v.Raw
	}
	return v.String()
}
