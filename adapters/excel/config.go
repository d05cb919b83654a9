package excel

// ReaderConfig controls how tabular files are parsed
type ReaderConfig struct {
	Sheet     string `json:"sheet" yaml:"sheet"`         // xlsx sheet; first sheet when empty
	DataPath  string `json:"data_path" yaml:"data_path"` // gjson path to the records in a json file
	Delimiter rune   `json:"delimiter" yaml:"delimiter"` // csv field separator; ',' when zero
	// DecimalComma reads "2,5" as 2.5; off by default so "1,500" is not
	// mistaken for 1.5
	DecimalComma bool `json:"decimal_comma" yaml:"decimal_comma"`
}

// DefaultReaderConfig returns comma-separated csv, the first sheet and the json document root
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{Delimiter: ','}
}
