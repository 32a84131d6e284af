// ABOUTME: Capability-probed FLAC codec adapters
// ABOUTME: Selects a native or external encoder once per run
package codec

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/harperreed/audiogen-go/pkg/audio"
)

// FLAC caps the channel count at 8 regardless of what PCM supports.
const maxFLACChannels = 8

var ErrUnavailable = errors.New("flac codec unavailable")

// Encoder re-encodes a float buffer into a FLAC container at path.
// Implementations fail without leaving a partial file at path.
type Encoder interface {
	Encode(buf *audio.Buffer, bitDepth int, path string) error
	Name() string
}

// Probe selects an encoder for the requested mode. It runs once per
// invocation; the result is threaded into the generation loop rather than
// re-probed per asset.
//
//	native — pure-Go encoder (mewkiz/flac), always available
//	cli    — external `flac` executable located on PATH
//	off    — no encoder; compressed cells fail with ErrUnavailable
func Probe(mode string) (Encoder, error) {
	switch mode {
	case "", "native":
		return nativeEncoder{}, nil
	case "cli":
		path, err := exec.LookPath("flac")
		if err != nil {
			return nil, fmt.Errorf("%w: flac executable not found in PATH", ErrUnavailable)
		}
		return &cliEncoder{binPath: path}, nil
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown flac encoder mode %q (supported: native, cli, off)", mode)
	}
}

func validate(buf *audio.Buffer, bitDepth int) error {
	format := audio.Format{
		Channels:   buf.NumChannels(),
		SampleRate: buf.SampleRate,
		BitDepth:   bitDepth,
	}
	if err := format.Validate(); err != nil {
		return err
	}
	if format.Channels > maxFLACChannels {
		return fmt.Errorf("flac supports at most %d channels, got %d", maxFLACChannels, format.Channels)
	}
	return nil
}
