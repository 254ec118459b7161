package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. PAIMON_DOWNLOAD_DIR.
const EnvPrefix = "PAIMON"

// Config holds the toolkit configuration.
type Config struct {
	DownloadDir string `mapstructure:"download_dir" json:"download_dir"`
	ExcelSource string `mapstructure:"excel_source" json:"excel_source"` // go-getter source of ExcelBinOutput
	TextMapURL  string `mapstructure:"textmap_url" json:"textmap_url"`
	Retries     int    `mapstructure:"retries" json:"retries"`

	OutputPath string `mapstructure:"output_path" json:"output_path"`
	DBPath     string `mapstructure:"db_path" json:"db_path"` // empty disables the SQLite export

	ProfileOutput   string        `mapstructure:"profile_output" json:"profile_output"`
	ProfileTitle    string        `mapstructure:"profile_title" json:"profile_title"`
	ProfileInterval time.Duration `mapstructure:"profile_interval" json:"profile_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DownloadDir:     "./download",
		ExcelSource:     "git::https://github.com/Dimbreath/GenshinData.git//ExcelBinOutput?depth=1",
		TextMapURL:      "https://raw.githubusercontent.com/Dimbreath/GenshinData/master/TextMap/TextMapEN.json",
		Retries:         3,
		OutputPath:      "doc/avatar_sample.json",
		ProfileOutput:   "doc/memory_profile.png",
		ProfileTitle:    "Memory usage of paimon",
		ProfileInterval: 100 * time.Millisecond,
	}
}

// Load reads path (yaml, json or toml by extension) and PAIMON_* environment
// variables on top of DefaultConfig. An empty path only applies the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("download_dir", def.DownloadDir)
	v.SetDefault("excel_source", def.ExcelSource)
	v.SetDefault("textmap_url", def.TextMapURL)
	v.SetDefault("retries", def.Retries)
	v.SetDefault("output_path", def.OutputPath)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("profile_output", def.ProfileOutput)
	v.SetDefault("profile_title", def.ProfileTitle)
	v.SetDefault("profile_interval", def.ProfileInterval)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.DownloadDir == "":
		return errors.New("download dir required")
	case c.ExcelSource == "":
		return errors.New("excel source required")
	case c.TextMapURL == "":
		return errors.New("text map url required")
	case c.Retries < 0:
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	case c.ProfileInterval <= 0:
		return fmt.Errorf("profile interval must be positive, got %s", c.ProfileInterval)
	}
	return nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["download-dir"] {
		cfg.DownloadDir = fromFile.DownloadDir
	}
	if !explicitFlags["excel-source"] {
		cfg.ExcelSource = fromFile.ExcelSource
	}
	if !explicitFlags["textmap-url"] {
		cfg.TextMapURL = fromFile.TextMapURL
	}
	if !explicitFlags["retries"] {
		cfg.Retries = fromFile.Retries
	}
	if !explicitFlags["output"] {
		cfg.OutputPath = fromFile.OutputPath
	}
	if !explicitFlags["db"] {
		cfg.DBPath = fromFile.DBPath
	}
	if !explicitFlags["profile-output"] {
		cfg.ProfileOutput = fromFile.ProfileOutput
	}
	if !explicitFlags["title"] {
		cfg.ProfileTitle = fromFile.ProfileTitle
	}
	if !explicitFlags["interval"] {
		cfg.ProfileInterval = fromFile.ProfileInterval
	}
}
