package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
radar_site:
  lat_deg: 41.3007
  lon_deg: 2.1021
  height_m: 27.25
corpora:
  - name: radar
    path: testdata/radar.ast
  - name: adsb
    path: testdata/adsb.ast
max_messages: 1000
diagnostics:
  log_file: diagnostics.jsonl
  log_level: DEBUG
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfigValid(t *testing.T) {
	path := writeTemp(t, sampleYAML)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Corpora, 2)
	require.Equal(t, "radar", cfg.Corpora[0].Name)
	require.InDelta(t, 41.3007, cfg.RadarSite.LatDeg, 1e-9)
	require.Equal(t, 1000, cfg.MaxMessages)
	require.Equal(t, "DEBUG", cfg.Diagnostics.LogLevel)
}

func TestLoadConfigNoCorpora(t *testing.T) {
	path := writeTemp(t, "radar_site:\n  lat_deg: 0\n  lon_deg: 0\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigInvalidLatitude(t *testing.T) {
	path := writeTemp(t, `
radar_site:
  lat_deg: 200
  lon_deg: 0
corpora:
  - name: radar
    path: testdata/radar.ast
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigInvalidLogLevel(t *testing.T) {
	path := writeTemp(t, `
radar_site:
  lat_deg: 0
  lon_deg: 0
corpora:
  - name: radar
    path: testdata/radar.ast
diagnostics:
  log_file: out.jsonl
  log_level: VERBOSE
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
