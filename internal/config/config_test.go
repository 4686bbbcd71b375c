package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: data/in.csv
column: vbo_id
http:
  timeout: 5s
  max_retries: 1
gezichten:
  source: shapefile
  shapefile: data/gezichten.shp
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/in.csv", cfg.Input)
	assert.Equal(t, "vbo_id", cfg.Column)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 1, cfg.HTTP.MaxRetries)
	assert.Equal(t, GezichtenSourceShapefile, cfg.Gezichten.Source)

	// Untouched values keep their defaults.
	assert.Equal(t, "temp/monumenten.csv", cfg.Output)
	assert.Equal(t, Default().Endpoints.CultureelErfgoed, cfg.Endpoints.CultureelErfgoed)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("MONUMENTEN_INPUT", "/elsewhere/in.csv")
	t.Setenv("INDIVIDUELE_BEVRAGINGEN_API_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/in.csv", cfg.Input)
	assert.Equal(t, "secret", cfg.BAG.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input", func(c *Config) { c.Input = "" }},
		{"missing output", func(c *Config) { c.Output = "" }},
		{"missing column", func(c *Config) { c.Column = "" }},
		{"missing rce endpoint", func(c *Config) { c.Endpoints.CultureelErfgoed = "" }},
		{"missing kadaster endpoint", func(c *Config) { c.Endpoints.Kadaster = "" }},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.HTTP.MaxRetries = -1 }},
		{"unknown gezichten source", func(c *Config) { c.Gezichten.Source = "oracle" }},
		{"shapefile source without path", func(c *Config) {
			c.Gezichten.Source = GezichtenSourceShapefile
			c.Gezichten.Shapefile = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
