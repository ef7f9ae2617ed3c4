// Package config loads converter settings: built-in defaults, an optional
// TOML file named by MMCONV_CONFIG, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the converter settings.
type Config struct {
	OutputDir    string `toml:"output_dir"`
	RegistryName string `toml:"registry_name"`
	SceneDir     string `toml:"scene_dir"`
	AmbientDir   string `toml:"ambient_dir"`
	ContainerExt string `toml:"container_ext"`

	// Slot counts written to the registry are rounded up to these units.
	SceneRound   int `toml:"scene_round"`
	AmbientRound int `toml:"ambient_round"`
	AmbientMin   int `toml:"ambient_min"`

	LogLevel string `toml:"log_level"`
	JSONLog  bool   `toml:"json_log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir:    "MultipleMaids Converter",
		RegistryName: "MultipleMaids.ini",
		SceneDir:     "scene",
		AmbientDir:   "kankyo",
		ContainerExt: ".png",
		SceneRound:   100,
		AmbientRound: 10,
		AmbientMin:   20,
		LogLevel:     "info",
	}
}

// LoadFromEnv loads the file named by MMCONV_CONFIG, if any.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv("MMCONV_CONFIG"))
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("MMCONV_OUT_DIR")); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("MMCONV_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if os.Getenv("MMCONV_JSON_LOG") == "1" {
		c.JSONLog = true
	}
}

func (c *Config) normalize() error {
	if c.OutputDir != "" {
		abs, err := filepath.Abs(c.OutputDir)
		if err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
		c.OutputDir = abs
	}

	c.ContainerExt = strings.ToLower(strings.TrimSpace(c.ContainerExt))
	if c.ContainerExt != "" && !strings.HasPrefix(c.ContainerExt, ".") {
		c.ContainerExt = "." + c.ContainerExt
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir must be set"))
	}
	if c.RegistryName == "" || filepath.Base(c.RegistryName) != c.RegistryName {
		errs = append(errs, fmt.Errorf("registry_name %q must be a plain file name", c.RegistryName))
	}
	if c.SceneDir == "" || c.AmbientDir == "" {
		errs = append(errs, errors.New("scene_dir and ambient_dir must be set"))
	} else if filepath.Clean(c.SceneDir) == filepath.Clean(c.AmbientDir) {
		errs = append(errs, errors.New("scene_dir and ambient_dir must differ"))
	}
	if c.ContainerExt == "" {
		errs = append(errs, errors.New("container_ext must be set"))
	}
	if c.SceneRound <= 0 || c.AmbientRound <= 0 {
		errs = append(errs, errors.New("scene_round and ambient_round must be positive"))
	}
	if c.AmbientMin < 0 {
		errs = append(errs, errors.New("ambient_min must not be negative"))
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "off":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SceneOutputDir is where ordinary containers are written.
func (c *Config) SceneOutputDir() string {
	return filepath.Join(c.OutputDir, c.SceneDir)
}

// AmbientOutputDir is where ambient containers are written.
func (c *Config) AmbientOutputDir() string {
	return filepath.Join(c.OutputDir, c.AmbientDir)
}

// RegistryPath is where containers-to-registry output is saved.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.OutputDir, c.RegistryName)
}
