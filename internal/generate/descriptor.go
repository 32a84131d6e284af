// ABOUTME: Asset descriptor and manifest emission
// ABOUTME: Writes per-asset sidecar JSON and the per-run manifest
package generate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/audiogen-go/pkg/audio/signal"
)

// Sidecar is the ground-truth record written next to each generated asset
// at <assetPath>.json. Downstream tests decode the asset and verify what
// they measure against this record.
type Sidecar struct {
	Format     string      `json:"format"`
	Channels   int         `json:"channels"`
	SampleRate int         `json:"sample_rate"`
	Bits       int         `json:"bits"`
	Duration   float64     `json:"duration"`
	Signal     signal.Spec `json:"signal"`
}

// Manifest aggregates the assets successfully produced by one run.
type Manifest struct {
	RunID string   `json:"run_id"`
	Files []string `json:"files"`
}

// SidecarPath returns the sidecar location for an asset path.
func SidecarPath(assetPath string) string {
	return assetPath + ".json"
}

func writeSidecar(assetPath string, sc Sidecar) error {
	return writeJSON(SidecarPath(assetPath), sc)
}

func writeManifest(outDir string, m Manifest) (string, error) {
	path := filepath.Join(outDir, "manifest.json")
	if m.Files == nil {
		m.Files = []string{}
	}
	if err := writeJSON(path, m); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
