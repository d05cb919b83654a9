package excel

import (
	"path/filepath"
	"strings"
)

// FileType is a supported input format
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
	FileTypeJSON FileType = "json"
)

// DetectFileType picks the format from the file extension
func DetectFileType(path string) (FileType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FileTypeCSV, true
	case ".xlsx", ".xlsm":
		return FileTypeXLSX, true
	case ".json":
		return FileTypeJSON, true
	}
	return "", false
}
