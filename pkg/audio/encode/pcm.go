// ABOUTME: PCM quantizer and payload encoder
// ABOUTME: Quantizes float samples to 16/24-bit codes and interleaves frames
package encode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/harperreed/audiogen-go/pkg/audio"
)

// PCMEncoder quantizes float samples and packs them into a frame-interleaved
// little-endian payload.
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a PCM encoder for the given bit depth.
func NewPCM(bitDepth int) (*PCMEncoder, error) {
	if err := audio.ValidateBitDepth(bitDepth); err != nil {
		return nil, err
	}
	return &PCMEncoder{bitDepth: bitDepth}, nil
}

// BitDepth returns the output bit depth.
func (e *PCMEncoder) BitDepth() int {
	return e.bitDepth
}

// BytesPerSample returns the serialized width of one sample.
func (e *PCMEncoder) BytesPerSample() int {
	return e.bitDepth / 8
}

// Quantize converts one float sample to an integer code. Samples are clipped
// to [-0.999999, 0.999999] first (the synthesizer already guarantees this for
// well-formed signals), then scaled by 32767 or 8388607 and rounded to the
// nearest integer, ties away from zero (math.Round). The scale factor is one
// below full-scale magnitude so the most negative code is never produced.
func Quantize(sample float64, bitDepth int) int32 {
	if sample > 0.999999 {
		sample = 0.999999
	} else if sample < -0.999999 {
		sample = -0.999999
	}
	switch bitDepth {
	case 16:
		return int32(math.Round(sample * audio.Max16Bit))
	default:
		return int32(math.Round(sample * audio.Max24Bit))
	}
}

// Encode quantizes the buffer and serializes it frame-interleaved: all
// channels of frame 0, then all channels of frame 1, and so on. This order
// matches the container convention; a channel-contiguous layout would be a
// different, incompatible payload.
func (e *PCMEncoder) Encode(buf *audio.Buffer) ([]byte, error) {
	channels := buf.NumChannels()
	if err := audio.ValidateChannels(channels); err != nil {
		return nil, err
	}
	frames := buf.Frames()
	for ch, data := range buf.Data {
		if len(data) != frames {
			return nil, fmt.Errorf("channel %d has %d frames, want %d", ch, len(data), frames)
		}
	}

	bps := e.BytesPerSample()
	out := make([]byte, frames*channels*bps)
	pos := 0
	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			code := Quantize(buf.Data[ch][f], e.bitDepth)
			if e.bitDepth == 24 {
				packed := audio.SampleTo24Bit(code)
				out[pos] = packed[0]
				out[pos+1] = packed[1]
				out[pos+2] = packed[2]
			} else {
				binary.LittleEndian.PutUint16(out[pos:], uint16(int16(code)))
			}
			pos += bps
		}
	}
	return out, nil
}
