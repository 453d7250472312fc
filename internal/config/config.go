// Package config loads the YAML configuration that drives a decode
// run: which capture files to read, the radar site used for the
// geodesic projection derivation, and the diagnostics sink.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RadarSite is the ground station's WGS-84 position, in degrees and
// meters as stored on disk; callers convert to radians before passing
// it to internal/geodesy.
type RadarSite struct {
	LatDeg float64 `yaml:"lat_deg"`
	LonDeg float64 `yaml:"lon_deg"`
	Height float64 `yaml:"height_m"`
}

// CorpusConfig names one capture file and the label its records
// should be reported under.
type CorpusConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// DiagnosticsConfig controls the decode-diagnostics sink.
type DiagnosticsConfig struct {
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"` // "DATA" or "DEBUG", mirrors the teacher's listener log levels
}

// Config is the overall decode-run configuration.
type Config struct {
	RadarSite      RadarSite          `yaml:"radar_site"`
	Corpora        []CorpusConfig     `yaml:"corpora"`
	MaxMessages    int                `yaml:"max_messages,omitempty"`
	Diagnostics    DiagnosticsConfig  `yaml:"diagnostics"`
}

// LoadConfig reads and parses the configuration file at filename.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for the conditions the decoder
// depends on before a run starts.
func (c *Config) Validate() error {
	if len(c.Corpora) == 0 {
		return fmt.Errorf("at least one corpus must be configured")
	}

	for i, corpus := range c.Corpora {
		if corpus.Name == "" {
			return fmt.Errorf("corpus %d: name must be specified", i)
		}
		if corpus.Path == "" {
			return fmt.Errorf("corpus %d: path must be specified", i)
		}
	}

	if c.RadarSite.LatDeg < -90 || c.RadarSite.LatDeg > 90 {
		return fmt.Errorf("radar_site: invalid lat_deg %f", c.RadarSite.LatDeg)
	}
	if c.RadarSite.LonDeg < -180 || c.RadarSite.LonDeg > 180 {
		return fmt.Errorf("radar_site: invalid lon_deg %f", c.RadarSite.LonDeg)
	}

	if c.Diagnostics.LogFile != "" {
		if c.Diagnostics.LogLevel != "DATA" && c.Diagnostics.LogLevel != "DEBUG" {
			return fmt.Errorf("diagnostics: invalid log_level %s (must be DATA or DEBUG)", c.Diagnostics.LogLevel)
		}
	}

	if c.MaxMessages < 0 {
		return fmt.Errorf("max_messages must not be negative")
	}

	return nil
}
