package diagnostics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogWritesOneJSONLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.jsonl")
	rl, err := NewRotatingLogger(path)
	require.NoError(t, err)
	defer rl.Close()

	require.NoError(t, rl.Log(Event{
		Timestamp: "2026-07-31T00:00:00Z",
		Corpus:    "radar",
		Category:  48,
		BitOffset: 120,
		ErrorKind: "truncation",
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var ev Event
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
	require.Equal(t, "radar", ev.Corpus)
	require.Equal(t, uint8(48), ev.Category)
	require.False(t, scanner.Scan())
}

func TestNewRotatingLoggerReopensExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.jsonl")
	rl1, err := NewRotatingLogger(path)
	require.NoError(t, err)
	require.NoError(t, rl1.Log(Event{Corpus: "radar", ErrorKind: "truncation"}))
	require.NoError(t, rl1.Close())

	rl2, err := NewRotatingLogger(path)
	require.NoError(t, err)
	defer rl2.Close()
	require.NoError(t, rl2.Log(Event{Corpus: "adsb", ErrorKind: "malformed_header"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "radar")
	require.Contains(t, string(data), "adsb")
}
