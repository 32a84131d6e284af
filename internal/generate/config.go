// ABOUTME: Generation run configuration
// ABOUTME: Defines the parameter matrix and validates run-level settings
package generate

import (
	"fmt"

	"github.com/harperreed/audiogen-go/internal/codec"
	"github.com/harperreed/audiogen-go/pkg/audio/signal"
)

// Container formats
const (
	FormatWAV  = "wav"
	FormatFLAC = "flac"
)

// Config describes one generation run: the output location, the parameter
// matrix to enumerate, and the codec adapter selected by the startup probe.
type Config struct {
	OutDir      string
	Formats     []string
	Channels    []int
	SampleRates []int
	BitDepths   []int
	Signals     []signal.Kind
	Duration    float64

	// Workers bounds the number of cells generated concurrently.
	// 0 or 1 means serial generation.
	Workers int

	// FLAC is the probed codec adapter; nil means no codec is available
	// and every compressed cell fails with codec.ErrUnavailable.
	FLAC codec.Encoder
}

// Validate checks run-level settings. Per-cell parameters (channel count,
// bit depth, Nyquist headroom) are validated inside the generation loop so
// a bad value fails its own cell instead of the whole run.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if len(c.Formats) == 0 {
		return fmt.Errorf("at least one container format is required")
	}
	for _, f := range c.Formats {
		if f != FormatWAV && f != FormatFLAC {
			return fmt.Errorf("unknown format %q (supported: %s, %s)", f, FormatWAV, FormatFLAC)
		}
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("at least one channel count is required")
	}
	if len(c.SampleRates) == 0 {
		return fmt.Errorf("at least one sample rate is required")
	}
	for _, sr := range c.SampleRates {
		if sr <= 0 {
			return fmt.Errorf("invalid sample rate: %d", sr)
		}
	}
	if len(c.BitDepths) == 0 {
		return fmt.Errorf("at least one bit depth is required")
	}
	if len(c.Signals) == 0 {
		return fmt.Errorf("at least one signal kind is required")
	}
	for _, s := range c.Signals {
		if _, err := signal.ParseKind(string(s)); err != nil {
			return err
		}
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
