package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Analysis defaults
	DefaultKPI         string `mapstructure:"default_kpi" yaml:"default_kpi"`
	DefaultEntity      string `mapstructure:"default_entity" yaml:"default_entity"`
	LactationYears     int    `mapstructure:"lactation_years" yaml:"lactation_years"`
	MinLactationMonths int    `mapstructure:"min_lactation_months" yaml:"min_lactation_months"`
	HistogramMonths    int    `mapstructure:"histogram_months" yaml:"histogram_months"`

	// Peer group
	Province  string `mapstructure:"province" yaml:"province"`
	Processor string `mapstructure:"processor" yaml:"processor"`

	// Parsing
	DecimalSeparator string `mapstructure:"decimal_separator" yaml:"decimal_separator"`

	// Output and logging
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultDir is ~/.milkbench.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".milkbench"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.milkbench/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MILKBENCH")
	v.AutomaticEnv()

	v.SetDefault("default_kpi", "cellule")
	v.SetDefault("default_entity", "")
	v.SetDefault("lactation_years", 3)
	v.SetDefault("min_lactation_months", 4)
	v.SetDefault("histogram_months", 12)
	v.SetDefault("province", "")
	v.SetDefault("processor", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("output_format", "text")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.LactationYears <= 0 {
		c.LactationYears = 3
	}
	if c.MinLactationMonths <= 0 {
		c.MinLactationMonths = 4
	}
	if c.HistogramMonths <= 0 {
		c.HistogramMonths = 12
	}
	return &c, nil
}

// DecimalRune maps a decimal_separator setting to its rune. Empty means
// auto-detect and yields 0.
func DecimalRune(value string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported decimal separator: %s (use '.'|'dot'|','|'comma')", value)
}

// Set assigns one key by its config name. Unknown keys and malformed
// numbers are errors.
func (c *Global) Set(key, value string) error {
	switch key {
	case "default_kpi":
		c.DefaultKPI = value
	case "default_entity":
		c.DefaultEntity = value
	case "province":
		c.Province = value
	case "processor":
		c.Processor = value
	case "decimal_separator":
		if _, err := DecimalRune(value); err != nil {
			return err
		}
		c.DecimalSeparator = value
	case "output_format":
		switch value {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("output_format must be text, json or yaml")
		}
		c.OutputFormat = value
	case "log_level":
		c.LogLevel = value
	case "lactation_years", "min_lactation_months", "histogram_months":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		switch key {
		case "lactation_years":
			c.LactationYears = n
		case "min_lactation_months":
			c.MinLactationMonths = n
		default:
			c.HistogramMonths = n
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
