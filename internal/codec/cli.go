// ABOUTME: External-process FLAC encoder adapter
// ABOUTME: Shells out to the probed flac executable via a temporary WAV
package codec

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/harperreed/audiogen-go/pkg/audio"
	"github.com/harperreed/audiogen-go/pkg/audio/wav"
)

// cliEncoder drives the flac command-line tool. The uncompressed payload is
// staged as a temporary WAV, then `flac -f -s` re-encodes it to path.
type cliEncoder struct {
	binPath string
}

func (e *cliEncoder) Name() string { return "cli" }

func (e *cliEncoder) Encode(buf *audio.Buffer, bitDepth int, path string) error {
	if err := validate(buf, bitDepth); err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "audiogen-flac-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpWAV := filepath.Join(tmpDir, "staging.wav")
	if err := wav.Write(tmpWAV, buf, bitDepth); err != nil {
		return fmt.Errorf("failed to stage WAV for flac: %w", err)
	}

	// -f overwrite, -s silent
	cmd := exec.Command(e.binPath, "-f", "-s", tmpWAV, "-o", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return fmt.Errorf("flac encoding failed: %w: %s", err, out)
	}
	return nil
}
