// Command asterixwatch decodes an ASTERIX capture file named by the
// configured corpus and writes its decoded records as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/asterix-watch/decoder/internal/asterix"
	"github.com/asterix-watch/decoder/internal/config"
	"github.com/asterix-watch/decoder/internal/diagnostics"
	"github.com/asterix-watch/decoder/internal/geodesy"
)

const outputPath = "decoded.json"

// corpusFlag records which corpus-selecting flag was seen last, since
// spec.md's CLI contract is "a single flag may be present at a time;
// later flags override earlier ones" and pflag itself does not track
// argument order.
func corpusFlag(args []string) string {
	selected := ""
	for _, a := range args {
		switch a {
		case "--test-radar":
			selected = "radar"
		case "--test-adsb":
			selected = "adsb"
		case "--test-all":
			selected = "all"
		}
	}
	return selected
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	fs := pflag.NewFlagSet("asterixwatch", pflag.ContinueOnError)
	configFile := fs.String("config", "config.yaml", "path to configuration file")
	fs.Bool("test-radar", false, "decode the configured radar corpus")
	fs.Bool("test-adsb", false, "decode the configured ADS-B corpus")
	fs.Bool("test-all", false, "decode the configured combined corpus")
	maxMessages := fs.Int("max-messages", 0, "cap on the number of CAT-21/CAT-48 records decoded (0 = use max_messages from the configuration)")

	if err := fs.Parse(args); err != nil {
		logger.Error("failed to parse flags", "err", err)
		return 1
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		return 1
	}

	corpusName := corpusFlag(args)
	if corpusName == "" {
		logger.Error("one of --test-radar, --test-adsb, --test-all is required")
		return 1
	}

	var selected *config.CorpusConfig
	for i := range cfg.Corpora {
		if cfg.Corpora[i].Name == corpusName {
			selected = &cfg.Corpora[i]
			break
		}
	}
	if selected == nil {
		logger.Error("no corpus configured with this name", "corpus", corpusName)
		return 1
	}

	limit := cfg.MaxMessages
	if *maxMessages > 0 {
		limit = *maxMessages
	}

	data, err := os.ReadFile(selected.Path)
	if err != nil {
		logger.Error("failed to read capture file", "path", selected.Path, "err", err)
		return 1
	}

	site := &geodesy.Site{
		LatRad: cfg.RadarSite.LatDeg * math.Pi / 180.0,
		LonRad: cfg.RadarSite.LonDeg * math.Pi / 180.0,
		Height: cfg.RadarSite.Height,
	}

	var diagLogger *diagnostics.RotatingLogger
	if cfg.Diagnostics.LogFile != "" {
		diagLogger, err = diagnostics.NewRotatingLogger(cfg.Diagnostics.LogFile)
		if err != nil {
			logger.Error("failed to open diagnostics log", "err", err)
			return 1
		}
		defer diagLogger.Close()
	}

	start := time.Now()
	records := asterix.DecodeStream(data, site, limit, func(ev asterix.DiagnosticEvent) {
		if diagLogger == nil {
			return
		}
		kind := "truncation"
		if ev.Kind == asterix.ErrKindMalformedHeader {
			kind = "malformed_header"
		}
		msg := ""
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		diagLogger.Log(diagnostics.Event{
			Timestamp: time.Now().Format(time.RFC3339),
			Corpus:    corpusName,
			Category:  ev.Category,
			BitOffset: ev.BitPos,
			ErrorKind: kind,
			Message:   msg,
		})
	})
	elapsed := time.Since(start)

	decoded := 0
	for _, r := range records {
		if r.Kind != asterix.KindUnsupported {
			decoded++
		}
	}
	logger.Info("decode complete", "corpus", corpusName, "records", len(records), "decoded", decoded, "elapsed", elapsed)

	projections := make([]map[string]any, len(records))
	for i, r := range records {
		projections[i] = r.Fields()
	}

	out, err := os.Create(outputPath)
	if err != nil {
		logger.Error("failed to create output file", "path", outputPath, "err", err)
		return 1
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projections); err != nil {
		logger.Error("failed to write decoded records", "err", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "wrote %d records to %s\n", len(projections), outputPath)
	return 0
}
