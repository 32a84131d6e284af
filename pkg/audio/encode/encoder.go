// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for PCM payload encoders
package encode

import "github.com/harperreed/audiogen-go/pkg/audio"

// Encoder converts a float buffer to a wire-format byte payload.
type Encoder interface {
	// Encode quantizes and serializes the buffer to payload bytes
	Encode(buf *audio.Buffer) ([]byte, error)

	// BitDepth returns the output bit depth
	BitDepth() int
}
