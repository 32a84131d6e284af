// ABOUTME: Generation orchestrator for the parameter matrix
// ABOUTME: Drives synth, quantize, container and sidecar per cell with isolation
package generate

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/harperreed/audiogen-go/internal/codec"
	"github.com/harperreed/audiogen-go/pkg/audio"
	"github.com/harperreed/audiogen-go/pkg/audio/signal"
	"github.com/harperreed/audiogen-go/pkg/audio/wav"
)

// Cell is one point of the generation matrix.
type Cell struct {
	Format     string
	Signal     signal.Kind
	Channels   int
	SampleRate int
	BitDepth   int
	Duration   float64
}

// String renders the parameter tuple for warnings and logs.
func (c Cell) String() string {
	return fmt.Sprintf("%s %s ch%d sr%d b%d", c.Format, c.Signal, c.Channels, c.SampleRate, c.BitDepth)
}

// Filename returns the stable asset file name for the cell.
func (c Cell) Filename() string {
	return fmt.Sprintf("%s_ch%d_sr%d_b%d.%s", c.Signal, c.Channels, c.SampleRate, c.BitDepth, c.Format)
}

// Result is the outcome of one cell. Failures are values, not panics, so the
// run loop can aggregate them without any cross-cell control flow.
type Result struct {
	Cell    Cell
	Path    string
	Err     error
	Skipped bool
}

// Report summarizes a completed run.
type Report struct {
	RunID        string
	Generated    int
	Skipped      int
	Failed       int
	Files        []string
	ManifestPath string
}

// Run enumerates the configured matrix and generates every cell. Individual
// cell failures are logged and counted but never abort the run; only
// output-directory setup and the manifest write are fatal.
func Run(cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	cells := enumerate(cfg)
	results := make([]Result, len(cells))

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		for i, cell := range cells {
			results[i] = generateCell(&cfg, cell)
		}
	} else {
		// Cells are pure functions of their parameters, so they can run
		// concurrently. Results land in enumeration order, which keeps the
		// manifest identical to a serial run.
		var wg sync.WaitGroup
		indices := make(chan int)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indices {
					results[i] = generateCell(&cfg, cells[i])
				}
			}()
		}
		for i := range cells {
			indices <- i
		}
		close(indices)
		wg.Wait()
	}

	report := &Report{RunID: uuid.NewString()}
	for _, res := range results {
		switch {
		case res.Err == nil:
			report.Generated++
			report.Files = append(report.Files, res.Path)
		case res.Skipped:
			report.Skipped++
			log.Printf("Skipping %s: %v", res.Cell, res.Err)
		default:
			report.Failed++
			log.Printf("Warning: failed to generate %s: %v", res.Cell, res.Err)
		}
	}

	manifestPath, err := writeManifest(cfg.OutDir, Manifest{RunID: report.RunID, Files: report.Files})
	if err != nil {
		return nil, err
	}
	report.ManifestPath = manifestPath
	return report, nil
}

// enumerate walks the matrix in a fixed nested order: format, channel count,
// sample rate, bit depth, signal. The order only determines file naming and
// manifest ordering, not correctness.
func enumerate(cfg Config) []Cell {
	var cells []Cell
	for _, format := range cfg.Formats {
		for _, channels := range cfg.Channels {
			for _, sampleRate := range cfg.SampleRates {
				for _, bits := range cfg.BitDepths {
					for _, sig := range cfg.Signals {
						cells = append(cells, Cell{
							Format:     format,
							Signal:     sig,
							Channels:   channels,
							SampleRate: sampleRate,
							BitDepth:   bits,
							Duration:   cfg.Duration,
						})
					}
				}
			}
		}
	}
	return cells
}

func generateCell(cfg *Config, cell Cell) Result {
	res := Result{Cell: cell}

	if err := audio.ValidateChannels(cell.Channels); err != nil {
		res.Err = err
		return res
	}
	if err := audio.ValidateBitDepth(cell.BitDepth); err != nil {
		res.Err = err
		return res
	}

	buf, spec, err := signal.Synthesize(cell.Signal, cell.Channels, cell.SampleRate, cell.Duration)
	if err != nil {
		res.Err = err
		res.Skipped = errors.Is(err, signal.ErrNyquistViolation)
		return res
	}

	dir := filepath.Join(cfg.OutDir, cell.Format, string(cell.Signal))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		res.Err = fmt.Errorf("failed to create %s: %w", dir, err)
		return res
	}
	path := filepath.Join(dir, cell.Filename())

	switch cell.Format {
	case FormatWAV:
		err = wav.Write(path, buf, cell.BitDepth)
	case FormatFLAC:
		if cfg.FLAC == nil {
			res.Err = fmt.Errorf("%w: compressed format requested", codec.ErrUnavailable)
			return res
		}
		err = cfg.FLAC.Encode(buf, cell.BitDepth, path)
	default:
		res.Err = fmt.Errorf("unknown format %q", cell.Format)
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}

	sidecar := Sidecar{
		Format:     cell.Format,
		Channels:   cell.Channels,
		SampleRate: cell.SampleRate,
		Bits:       cell.BitDepth,
		Duration:   cell.Duration,
		Signal:     spec,
	}
	if err := writeSidecar(path, sidecar); err != nil {
		// An asset without its ground truth is useless to consumers;
		// remove it so sidecar and audio stay consistent.
		os.Remove(path)
		res.Err = err
		return res
	}

	res.Path = path
	return res
}
