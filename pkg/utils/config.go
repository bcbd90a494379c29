package utils

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/AlbinSjoegren/SPV/pkg/analysis"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/kepler"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
	"github.com/AlbinSjoegren/SPV/pkg/export"
)

// EnvPrefix prefixes every environment override, e.g. SPV_SOLVER_METHOD.
const EnvPrefix = "SPV"

// Config represents the calculator configuration
type Config struct {
	Solver SolverConfig `yaml:"solver" mapstructure:"solver"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SolverConfig selects the Kepler equation solver
type SolverConfig struct {
	Method        string  `yaml:"method" mapstructure:"method"`
	MaxIterations int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" mapstructure:"tolerance"`
}

// OutputConfig controls where results are written
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BatchConfig contains catalogue pipeline settings
type BatchConfig struct {
	Workers          int    `yaml:"workers" mapstructure:"workers"`
	ProperMotionUnit string `yaml:"proper_motion_unit" mapstructure:"proper_motion_unit"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Method:        kepler.FixedPoint.String(),
			MaxIterations: kepler.DefaultMaxIterations,
			Tolerance:     0,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: export.FormatStdout,
		},
		Batch: BatchConfig{
			Workers:          4,
			ProperMotionUnit: string(analysis.MilliarcsecPerYear),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("solver.method", c.Solver.Method)
	v.SetDefault("solver.max_iterations", c.Solver.MaxIterations)
	v.SetDefault("solver.tolerance", c.Solver.Tolerance)
	v.SetDefault("output.dir", c.Output.Dir)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("batch.workers", c.Batch.Workers)
	v.SetDefault("batch.proper_motion_unit", c.Batch.ProperMotionUnit)
	v.SetDefault("server.addr", c.Server.Addr)
	v.SetDefault("server.read_timeout", c.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", c.Server.WriteTimeout)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
}

// LoadConfig loads configuration from path, or searches the default
// locations when path is empty. A missing config file in the default
// locations yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Set environment variable prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig writes configuration to path as YAML
func SaveConfig(config *Config, path string) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if _, err := kepler.ParseMethod(config.Solver.Method); err != nil {
		return errorsmod.Wrap(validation.ErrInvalidConfig, err.Error())
	}

	if config.Solver.MaxIterations < 0 {
		return errorsmod.Wrapf(validation.ErrInvalidConfig,
			"solver max iterations cannot be negative, got %d", config.Solver.MaxIterations)
	}

	if config.Solver.Tolerance < 0 || !validation.IsFinite(config.Solver.Tolerance) {
		return errorsmod.Wrapf(validation.ErrInvalidConfig,
			"solver tolerance must be a finite non-negative number, got %v", config.Solver.Tolerance)
	}

	if _, err := export.New(config.Output.Format, config.Output.Dir, os.Stdout); err != nil {
		return errorsmod.Wrap(validation.ErrInvalidConfig, err.Error())
	}

	if config.Batch.Workers < 0 {
		return errorsmod.Wrapf(validation.ErrInvalidConfig,
			"batch workers cannot be negative, got %d", config.Batch.Workers)
	}

	if _, err := analysis.ParseProperMotionUnit(config.Batch.ProperMotionUnit); err != nil {
		return errorsmod.Wrap(validation.ErrInvalidConfig, err.Error())
	}

	if config.Server.Addr == "" {
		return errorsmod.Wrap(validation.ErrInvalidConfig, "server address cannot be empty")
	}

	if _, err := ParseLogLevel(config.Log.Level); err != nil {
		return errorsmod.Wrap(validation.ErrInvalidConfig, err.Error())
	}

	switch config.Log.Format {
	case "", "text", "json":
	default:
		return errorsmod.Wrapf(validation.ErrInvalidConfig, "invalid log format: %s", config.Log.Format)
	}

	return nil
}

func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".spv"), nil
}

// GetConfigPath returns the path to the default config file
func GetConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// KeplerSolver returns the configured solver
func (c *Config) KeplerSolver() kepler.Solver {
	method, _ := kepler.ParseMethod(c.Solver.Method)
	return kepler.Solver{
		Method:        method,
		MaxIterations: c.Solver.MaxIterations,
		Tolerance:     c.Solver.Tolerance,
	}
}

// ProperMotionUnit returns the catalogue proper-motion unit
func (c *Config) ProperMotionUnit() analysis.ProperMotionUnit {
	u, _ := analysis.ParseProperMotionUnit(c.Batch.ProperMotionUnit)
	return u
}

// ParseLogLevel maps a level name to a slog level
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
	return level, nil
}

// NewLogger builds the process logger from the log settings
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLogLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
