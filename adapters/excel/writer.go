package excel

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"hyporeport/domain/dataset"
	"hyporeport/internal/errors"
)

// DataWriter saves a frame as CSV or Excel, the inverse of DataReader
type DataWriter struct {
	config ReaderConfig
}

// NewDataWriter creates a writer using the sheet name and delimiter of config
func NewDataWriter(config ReaderConfig) *DataWriter {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if config.Sheet == "" {
		config.Sheet = "Sheet1"
	}
	return &DataWriter{config: config}
}

// Write saves frame to path; the extension picks the format.
// Missing observations become empty cells.
func (w *DataWriter) Write(path string, frame *dataset.Frame) error {
	fileType, ok := DetectFileType(path)
	if !ok || fileType == FileTypeJSON {
		return errors.UnsupportedFormat(filepath.Ext(path))
	}
	rows := frameRows(frame)
	if fileType == FileTypeXLSX {
		return w.writeExcel(path, rows)
	}
	return w.writeCSV(path, rows)
}

func (w *DataWriter) writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = w.config.Delimiter
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to write CSV file")
	}
	return nil
}

func (w *DataWriter) writeExcel(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.config.Sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", w.config.Sheet); err != nil {
			return errors.Wrap(err, "failed to name sheet")
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "failed to address row")
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			if i > 0 {
				if num, err := strconv.ParseFloat(v, 64); err == nil {
					values[j] = num
					continue
				}
			}
			values[j] = v
		}
		if err := f.SetSheetRow(w.config.Sheet, cell, &values); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+1)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save Excel file")
	}
	return nil
}

// frameRows lays the frame out as a header row followed by data rows
func frameRows(frame *dataset.Frame) [][]string {
	cols := frame.Columns()
	n := 0
	for _, c := range cols {
		if c.Len() > n {
			n = c.Len()
		}
	}

	rows := make([][]string, 0, n+1)
	rows = append(rows, frame.Names())
	for i := 0; i < n; i++ {
		record := make([]string, len(cols))
		for j, c := range cols {
			switch {
			case c.Text != nil && i < len(c.Text):
				record[j] = c.Text[i]
			case i < len(c.Values) && !math.IsNaN(c.Values[i]):
				record[j] = strconv.FormatFloat(c.Values[i], 'g', -1, 64)
			}
		}
		rows = append(rows, record)
	}
	return rows
}
