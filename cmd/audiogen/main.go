// ABOUTME: Entry point for the audiogen test-asset generator
// ABOUTME: Parses CLI flags, probes the codec and runs the generation matrix
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/harperreed/audiogen-go/internal/codec"
	"github.com/harperreed/audiogen-go/internal/generate"
	"github.com/harperreed/audiogen-go/pkg/audio/signal"
)

var (
	outDir      = flag.String("out-dir", "test-audio", "Output directory for generated assets")
	formats     = flag.String("formats", "wav,flac", "Container formats to generate (comma-separated: wav, flac)")
	channels    = flag.String("channels", "2,6,16", "Channel counts (comma-separated, each 1-16)")
	sampleRates = flag.String("sample-rates", "44100,48000,96000", "Sample rates in Hz (comma-separated)")
	bits        = flag.String("bits", "16,24", "Bit depths (comma-separated: 16, 24)")
	signals     = flag.String("signals", "", "Signal kinds to generate (comma-separated; default: all)")
	duration    = flag.Float64("duration", 3.0, "Duration of each asset in seconds")
	workers     = flag.Int("workers", 1, "Number of cells to generate concurrently")
	flacMode    = flag.String("flac-encoder", "native", "FLAC encoder to probe (native, cli, off)")
	logFile     = flag.String("log-file", "", "Optional log file path (logs go to stderr as well)")
)

func main() {
	// os.Exit skips deferred closes, so the log file is closed inside run.
	os.Exit(run())
}

func run() int {
	flag.Parse()

	log.SetFlags(0)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			log.Printf("error opening log file: %v", err)
			return 1
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		return 1
	}

	report, err := generate.Run(*cfg)
	if err != nil {
		log.Printf("generation run failed: %v", err)
		return 1
	}

	fmt.Printf("Generated %d files. Manifest: %s\n", report.Generated, report.ManifestPath)
	fmt.Printf("Summary: generated %d, skipped %d, failed %d\n", report.Generated, report.Skipped, report.Failed)

	if report.Generated == 0 {
		return 1
	}
	return 0
}

func buildConfig() (*generate.Config, error) {
	chans, err := parseIntList(*channels)
	if err != nil {
		return nil, fmt.Errorf("channels: %w", err)
	}
	rates, err := parseIntList(*sampleRates)
	if err != nil {
		return nil, fmt.Errorf("sample-rates: %w", err)
	}
	depths, err := parseIntList(*bits)
	if err != nil {
		return nil, fmt.Errorf("bits: %w", err)
	}

	kinds := signal.AllKinds()
	if *signals != "" {
		kinds = nil
		for _, s := range splitList(*signals) {
			k, err := signal.ParseKind(s)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, k)
		}
	}

	// One probe per run; the result is shared by every compressed cell.
	flacEnc, err := codec.Probe(*flacMode)
	if err != nil {
		if !errors.Is(err, codec.ErrUnavailable) {
			return nil, err
		}
		log.Printf("Warning: %v; compressed cells will be reported as failed", err)
		flacEnc = nil
	}

	return &generate.Config{
		OutDir:      *outDir,
		Formats:     splitList(*formats),
		Channels:    chans,
		SampleRates: rates,
		BitDepths:   depths,
		Signals:     kinds,
		Duration:    *duration,
		Workers:     *workers,
		FLAC:        flacEnc,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}
