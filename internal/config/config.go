package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domainstats "hyporeport/domain/stats"
	"hyporeport/internal/errors"
	"hyporeport/internal/logging"
	"hyporeport/internal/report"
)

// Config represents the complete application configuration
type Config struct {
	Tests  TestsConfig  `yaml:"tests"`
	Report ReportConfig `yaml:"report"`
	Figure FigureConfig `yaml:"figure"`
	Input  InputConfig  `yaml:"input"`
	Log    LogConfig    `yaml:"log"`
}

// TestsConfig holds the defaults every hypothesis test starts from
type TestsConfig struct {
	Alpha          float64 `yaml:"alpha"`
	Alternative    string  `yaml:"alternative"`
	EqualVariances bool    `yaml:"equal_var"`
	Center         string  `yaml:"center"`
	TrimProportion float64 `yaml:"trim"`
}

// ReportConfig holds presentation settings
type ReportConfig struct {
	Language string `yaml:"lang"`
	Format   string `yaml:"format"`
}

// FigureConfig holds histogram and boxplot settings
type FigureConfig struct {
	Bins    int     `yaml:"bins"` // 0 means automatic
	Whisker float64 `yaml:"whisker"`
	Width   float64 `yaml:"width"`  // inches
	Height  float64 `yaml:"height"` // inches
}

// InputConfig holds dataset parsing settings
type InputConfig struct {
	Sheet        string `yaml:"sheet"`
	DataPath     string `yaml:"json_path"`
	Delimiter    string `yaml:"delimiter"`
	DecimalComma bool   `yaml:"decimal_comma"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Tests: TestsConfig{
			Alpha:          domainstats.DefaultAlpha,
			Alternative:    string(domainstats.TwoSided),
			EqualVariances: true,
			Center:         string(domainstats.CenterMean),
			TrimProportion: domainstats.DefaultTrimProportion,
		},
		Report: ReportConfig{
			Language: string(report.English),
			Format:   string(report.FormatText),
		},
		Figure: FigureConfig{
			Whisker: 1.5,
			Width:   8,
			Height:  6,
		},
		Input: InputConfig{Delimiter: ","},
		Log:   LogConfig{Level: "warn"},
	}
}

// Load builds the configuration from, in order of precedence: environment
// variables, the YAML file named by HYPOREPORT_CONFIG, and the defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "failed to read .env"))
		}
	}

	config := Default()

	if path := os.Getenv("HYPOREPORT_CONFIG"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, errors.Wrap(err, "failed to load environment configuration")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// loadFile overlays a YAML file onto config; keys absent from the file keep
// their current values
func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to read config file %s", path))
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to parse config file %s", path))
	}
	return nil
}

func applyEnv(c *Config) error {
	var err error
	if c.Tests.Alpha, err = getEnvFloatOrDefault("HYPOREPORT_ALPHA", c.Tests.Alpha); err != nil {
		return err
	}
	c.Tests.Alternative = getEnvOrDefault("HYPOREPORT_ALTERNATIVE", c.Tests.Alternative)
	if c.Tests.EqualVariances, err = getEnvBoolOrDefault("HYPOREPORT_EQUAL_VAR", c.Tests.EqualVariances); err != nil {
		return err
	}
	c.Tests.Center = getEnvOrDefault("HYPOREPORT_CENTER", c.Tests.Center)
	if c.Tests.TrimProportion, err = getEnvFloatOrDefault("HYPOREPORT_TRIM", c.Tests.TrimProportion); err != nil {
		return err
	}

	if c.Input.DecimalComma, err = getEnvBoolOrDefault("HYPOREPORT_DECIMAL_COMMA", c.Input.DecimalComma); err != nil {
		return err
	}

	c.Report.Language = getEnvOrDefault("HYPOREPORT_LANG", c.Report.Language)
	c.Report.Format = getEnvOrDefault("HYPOREPORT_FORMAT", c.Report.Format)

	if c.Figure.Bins, err = getEnvIntOrDefault("HYPOREPORT_BINS", c.Figure.Bins); err != nil {
		return err
	}
	if c.Figure.Whisker, err = getEnvFloatOrDefault("HYPOREPORT_WHISKER", c.Figure.Whisker); err != nil {
		return err
	}
	if c.Figure.Width, err = getEnvFloatOrDefault("HYPOREPORT_FIG_WIDTH", c.Figure.Width); err != nil {
		return err
	}
	if c.Figure.Height, err = getEnvFloatOrDefault("HYPOREPORT_FIG_HEIGHT", c.Figure.Height); err != nil {
		return err
	}

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	if c.Log.Development, err = getEnvBoolOrDefault("LOG_DEV", c.Log.Development); err != nil {
		return err
	}
	return nil
}

// Validate rejects out-of-range or unknown settings
func (c *Config) Validate() error {
	if err := domainstats.ValidateAlpha(c.Tests.Alpha); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if _, err := domainstats.ParseAlternative(c.Tests.Alternative); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if _, err := domainstats.ParseCenter(c.Tests.Center); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if c.Tests.TrimProportion < 0 || c.Tests.TrimProportion >= 0.5 {
		return errors.ConfigInvalid(fmt.Sprintf("trim must be in [0, 0.5), got %v", c.Tests.TrimProportion))
	}
	if _, err := report.ParseLanguage(c.Report.Language); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if c.Figure.Bins < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("bins must not be negative, got %d", c.Figure.Bins))
	}
	if c.Figure.Whisker <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("whisker must be positive, got %v", c.Figure.Whisker))
	}
	if c.Figure.Width <= 0 || c.Figure.Height <= 0 {
		return errors.ConfigInvalid("figure width and height must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if len([]rune(c.Input.Delimiter)) != 1 {
		return errors.ConfigInvalid(fmt.Sprintf("delimiter must be a single character, got %q", c.Input.Delimiter))
	}
	return nil
}

// DelimiterRune returns the csv field separator
func (c *Config) DelimiterRune() rune {
	return []rune(c.Input.Delimiter)[0]
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be a boolean, got %q", key, value))
	}
	return boolValue, nil
}
