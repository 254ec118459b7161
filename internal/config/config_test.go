package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paimon.yaml")
	data := []byte("download_dir: /tmp/dl\nretries: 5\nprofile_interval: 250ms\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("PAIMON_OUTPUT_PATH", "out/chars.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dl", cfg.DownloadDir)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.ProfileInterval)
	assert.Equal(t, "out/chars.json", cfg.OutputPath)
	assert.Equal(t, DefaultConfig().TextMapURL, cfg.TextMapURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty download dir": func(c *Config) { c.DownloadDir = "" },
		"empty source":       func(c *Config) { c.ExcelSource = "" },
		"empty url":          func(c *Config) { c.TextMapURL = "" },
		"negative retries":   func(c *Config) { c.Retries = -1 },
		"zero interval":      func(c *Config) { c.ProfileInterval = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestMerge_ExplicitFlagsWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DownloadDir = "flag-dir"
	cfg.Retries = 9

	fromFile := DefaultConfig()
	fromFile.DownloadDir = "file-dir"
	fromFile.Retries = 1
	fromFile.OutputPath = "file-out.json"

	Merge(cfg, fromFile, map[string]bool{"download-dir": true, "retries": true})

	assert.Equal(t, "flag-dir", cfg.DownloadDir)
	assert.Equal(t, 9, cfg.Retries)
	assert.Equal(t, "file-out.json", cfg.OutputPath)
}
