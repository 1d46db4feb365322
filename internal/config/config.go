package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Columns is a preset name ("star", "star-odd", "degree") or a comma
	// separated label list.
	Columns        string `mapstructure:"columns" yaml:"columns" validate:"required"`
	SetSize        int    `mapstructure:"set_size" yaml:"set_size" validate:"min=1,max=32"`
	IncludePaired  bool   `mapstructure:"include_paired" yaml:"include_paired"`
	IdentityColumn string `mapstructure:"identity_column" yaml:"identity_column" validate:"required,alpha"`
	OutcomeColumn  string `mapstructure:"outcome_column" yaml:"outcome_column" validate:"required,alpha"`
	IdentityLabel  string `mapstructure:"identity_label" yaml:"identity_label" validate:"required"`
	HeaderRow      bool   `mapstructure:"header_row" yaml:"header_row"`
	SumValues      bool   `mapstructure:"sum_values" yaml:"sum_values"`
	PadWidth       int    `mapstructure:"pad_width" yaml:"pad_width" validate:"min=0,max=12"`
	OutputDir      string `mapstructure:"output_dir" yaml:"output_dir"`
	OutputFormat   string `mapstructure:"output_format" yaml:"output_format" validate:"omitempty,oneof=csv xlsx tsv"`
	Sheet          string `mapstructure:"sheet" yaml:"sheet"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogJSON  bool   `mapstructure:"log_json" yaml:"log_json"`
}

var validate = validator.New()

// Default returns the built-in configuration. It follows the daily player
// sheets: player in A, result in H, the star columns, triples.
func Default() *Global {
	return &Global{
		Columns:        "star",
		SetSize:        3,
		IdentityColumn: "A",
		OutcomeColumn:  "H",
		IdentityLabel:  "Player",
		LogLevel:       "warn",
	}
}

// Validate checks field ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.combotally/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".combotally", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.combotally/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = p
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
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("COMBOTALLY")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("columns", d.Columns)
	v.SetDefault("set_size", d.SetSize)
	v.SetDefault("include_paired", d.IncludePaired)
	v.SetDefault("identity_column", d.IdentityColumn)
	v.SetDefault("outcome_column", d.OutcomeColumn)
	v.SetDefault("identity_label", d.IdentityLabel)
	v.SetDefault("header_row", d.HeaderRow)
	v.SetDefault("sum_values", d.SumValues)
	v.SetDefault("pad_width", d.PadWidth)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("sheet", d.Sheet)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", d.LogJSON)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
