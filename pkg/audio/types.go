// ABOUTME: Shared audio type definitions and PCM sample helpers
// ABOUTME: Defines planar float buffers and 16/24-bit packing primitives
package audio

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Supported channel count range for generated assets
	MinChannels = 1
	MaxChannels = 16

	// Full-scale magnitudes, one below the most-negative code.
	// The symmetric scale keeps the quantizer symmetric around zero
	// and never produces -32768 / -8388608.
	Max16Bit = 32767
	Max24Bit = 8388607
)

var (
	ErrInvalidChannelCount = errors.New("invalid channel count")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)

// Format describes the concrete shape of a PCM stream.
type Format struct {
	Channels   int
	SampleRate int
	BitDepth   int
}

// Validate checks the format against the supported parameter ranges.
func (f Format) Validate() error {
	if err := ValidateChannels(f.Channels); err != nil {
		return err
	}
	if err := ValidateBitDepth(f.BitDepth); err != nil {
		return err
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	return nil
}

// ValidateChannels checks a channel count against the supported range.
func ValidateChannels(n int) error {
	if n < MinChannels || n > MaxChannels {
		return fmt.Errorf("%w: %d (supported: %d-%d)", ErrInvalidChannelCount, n, MinChannels, MaxChannels)
	}
	return nil
}

// ValidateBitDepth checks a PCM bit depth against the supported set.
func ValidateBitDepth(bits int) error {
	if bits != 16 && bits != 24 {
		return fmt.Errorf("%w: %d (supported: 16, 24)", ErrUnsupportedBitDepth, bits)
	}
	return nil
}

// Buffer holds synthesized audio as planar float64 samples, one slice per
// channel. All channels have the same length. Samples are expected to lie
// in [-1, 1) before quantization.
type Buffer struct {
	SampleRate int
	Data       [][]float64
}

// NewBuffer allocates a buffer with the given shape.
func NewBuffer(channels, frames, sampleRate int) *Buffer {
	data := make([][]float64, channels)
	for i := range data {
		data[i] = make([]float64, frames)
	}
	return &Buffer{SampleRate: sampleRate, Data: data}
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Data)
}

// Frames returns the per-channel frame count.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Peak returns the largest absolute sample value across all channels.
func (b *Buffer) Peak() float64 {
	peak := 0.0
	for _, ch := range b.Data {
		for _, s := range ch {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// Scale multiplies every sample by factor.
func (b *Buffer) Scale(factor float64) {
	for _, ch := range b.Data {
		for i := range ch {
			ch[i] *= factor
		}
	}
}

// FramesFor returns the frame count for a duration at a sample rate.
func FramesFor(duration float64, sampleRate int) int {
	return int(math.Round(duration * float64(sampleRate)))
}

// SampleTo24Bit converts an int32 code to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
