// ABOUTME: Native FLAC encoder built on mewkiz/flac
// ABOUTME: Writes verbatim-predicted frames from quantized samples
package codec

import (
	"fmt"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/harperreed/audiogen-go/pkg/audio"
	"github.com/harperreed/audiogen-go/pkg/audio/encode"
)

const flacBlockSize = 4096

// nativeEncoder encodes FLAC in-process with mewkiz/flac. Samples are
// quantized with the same scale as the PCM path, so a decoded FLAC asset
// carries exactly the codes a WAV asset of the same cell would.
type nativeEncoder struct{}

func (nativeEncoder) Name() string { return "native" }

func (nativeEncoder) Encode(buf *audio.Buffer, bitDepth int, path string) error {
	if err := validate(buf, bitDepth); err != nil {
		return err
	}

	channels := buf.NumChannels()
	frames := buf.Frames()

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	// enc.Close inside encodeStream also closes f on success.
	if err := encodeStream(f, buf, bitDepth, channels, frames); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}

func encodeStream(f *os.File, buf *audio.Buffer, bitDepth, channels, frames int) error {
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(buf.SampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(frames),
	}

	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		return fmt.Errorf("failed to create flac encoder: %w", err)
	}

	for start := 0; start < frames; start += flacBlockSize {
		n := flacBlockSize
		if start+n > frames {
			n = frames - start
		}

		subframes := make([]*frame.Subframe, channels)
		for ch := 0; ch < channels; ch++ {
			samples := make([]int32, n)
			for i := 0; i < n; i++ {
				samples[i] = encode.Quantize(buf.Data[ch][start+i], bitDepth)
			}
			subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples,
				NSamples:  n,
			}
		}

		// Variable-blocksize numbering: Num is the first sample index.
		fr := &frame.Frame{
			Header: frame.Header{
				Num:           uint64(start),
				BlockSize:     uint16(n),
				SampleRate:    uint32(buf.SampleRate),
				Channels:      frame.Channels(channels - 1),
				BitsPerSample: uint8(bitDepth),
			},
			Subframes: subframes,
		}
		if err := enc.WriteFrame(fr); err != nil {
			enc.Close()
			return fmt.Errorf("failed to write flac frame: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize flac stream: %w", err)
	}
	return nil
}
