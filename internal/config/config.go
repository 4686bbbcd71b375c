// Package config provides configuration loading for the monumenten pipeline.
// Precedence, lowest to highest: built-in defaults, YAML config file, .env
// file, process environment, command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Gezicht index sources.
const (
	GezichtenSourceSPARQL    = "sparql"
	GezichtenSourceShapefile = "shapefile"
)

// Config holds everything the pipeline needs at startup.
type Config struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Log    string `yaml:"log"`
	// Column is the input column carrying the BAG verblijfsobject
	// identifier.
	Column string `yaml:"column"`

	Endpoints EndpointsConfig `yaml:"endpoints"`
	BAG       BAGConfig       `yaml:"bag"`
	HTTP      HTTPConfig      `yaml:"http"`
	Gezichten GezichtenConfig `yaml:"gezichten"`
}

// EndpointsConfig holds the SPARQL endpoints for the two heritage datasets.
type EndpointsConfig struct {
	// CultureelErfgoed serves the rijksmonumenten and beschermde
	// gezichten datasets (RCE).
	CultureelErfgoed string `yaml:"cultureel_erfgoed"`
	// Kadaster serves the verblijfsobject geometries (KKG).
	Kadaster string `yaml:"kadaster"`
}

// BAGConfig configures the BAG individuele bevragingen API used by the
// successor fallback.
type BAGConfig struct {
	BaseURL string `yaml:"base_url"`
	// APIKey may be empty; the fallback resolver is then disabled.
	APIKey string `yaml:"api_key"`
}

// HTTPConfig applies to all outbound requests.
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	// RateLimit is requests per second per endpoint.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// GezichtenConfig selects where protected-area boundaries come from.
type GezichtenConfig struct {
	// Source is "sparql" (fetch boundaries from the RCE endpoint once at
	// startup) or "shapefile" (load a local boundary layer).
	Source    string `yaml:"source"`
	Shapefile string `yaml:"shapefile"`
	// NameField is the attribute carrying the gezicht name in shapefile
	// mode.
	NameField string `yaml:"name_field"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Input:  "temp/verblijfsobjecten.csv",
		Output: "temp/monumenten.csv",
		Log:    "temp/monumenten.log",
		Column: "bag_verblijfsobject_id",
		Endpoints: EndpointsConfig{
			CultureelErfgoed: "https://api.linkeddata.cultureelerfgoed.nl/datasets/rce/cho/sparql",
			Kadaster:         "https://api.labs.kadaster.nl/datasets/dst/kkg/services/default/sparql",
		},
		BAG: BAGConfig{
			BaseURL: "https://api.bag.kadaster.nl/lvbag/individuelebevragingen/v2",
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RateLimit:  2.0,
			RateBurst:  1,
		},
		Gezichten: GezichtenConfig{
			Source:    GezichtenSourceSPARQL,
			NameField: "NAAM",
		},
	}
}

// Load builds a Config from the YAML file at path layered over the defaults,
// then applies .env and environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// .env values never override what is already in the environment.
	loadEnvFile(".env")
	cfg.applyEnv()

	return cfg, nil
}

// Validate checks the configuration before any row is processed.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Log == "" {
		return fmt.Errorf("log path is required")
	}
	if c.Column == "" {
		return fmt.Errorf("identifier column is required")
	}
	if c.Endpoints.CultureelErfgoed == "" {
		return fmt.Errorf("endpoints.cultureel_erfgoed is required")
	}
	if c.Endpoints.Kadaster == "" {
		return fmt.Errorf("endpoints.kadaster is required")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative")
	}
	switch c.Gezichten.Source {
	case GezichtenSourceSPARQL:
	case GezichtenSourceShapefile:
		if c.Gezichten.Shapefile == "" {
			return fmt.Errorf("gezichten.shapefile is required when gezichten.source is %q", GezichtenSourceShapefile)
		}
	default:
		return fmt.Errorf("gezichten.source must be %q or %q", GezichtenSourceSPARQL, GezichtenSourceShapefile)
	}
	return nil
}

// applyEnv overrides config values from the process environment.
func (c *Config) applyEnv() {
	c.Input = getEnvOrDefault("MONUMENTEN_INPUT", c.Input)
	c.Output = getEnvOrDefault("MONUMENTEN_OUTPUT", c.Output)
	c.Log = getEnvOrDefault("MONUMENTEN_LOG", c.Log)
	c.Column = getEnvOrDefault("MONUMENTEN_COLUMN", c.Column)
	c.BAG.APIKey = getEnvOrDefault("INDIVIDUELE_BEVRAGINGEN_API_KEY", c.BAG.APIKey)
}
