// ABOUTME: Canonical RIFF/WAVE container writer
// ABOUTME: Serializes quantized frame-interleaved PCM with atomic file replace
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/audiogen-go/pkg/audio"
	"github.com/harperreed/audiogen-go/pkg/audio/encode"
)

const headerSize = 44

// Write serializes buf as a PCM WAVE file at path. Validation happens before
// any bytes are written; the file is written to a temporary sibling path and
// renamed into place, so a failed write never leaves a partial file behind.
func Write(path string, buf *audio.Buffer, bitDepth int) error {
	payload, format, err := buildPayload(buf, bitDepth)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	if err := writeContainer(f, format, payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}

// WriteTo serializes buf as a PCM WAVE stream to w.
func WriteTo(w io.Writer, buf *audio.Buffer, bitDepth int) error {
	payload, format, err := buildPayload(buf, bitDepth)
	if err != nil {
		return err
	}
	return writeContainer(w, format, payload)
}

func buildPayload(buf *audio.Buffer, bitDepth int) ([]byte, audio.Format, error) {
	format := audio.Format{
		Channels:   buf.NumChannels(),
		SampleRate: buf.SampleRate,
		BitDepth:   bitDepth,
	}
	if err := format.Validate(); err != nil {
		return nil, format, err
	}

	encoder, err := encode.NewPCM(bitDepth)
	if err != nil {
		return nil, format, err
	}
	payload, err := encoder.Encode(buf)
	if err != nil {
		return nil, format, err
	}
	return payload, format, nil
}

func writeContainer(w io.Writer, format audio.Format, payload []byte) error {
	bytesPerSample := format.BitDepth / 8
	blockAlign := format.Channels * bytesPerSample
	byteRate := format.SampleRate * blockAlign

	var hdr [headerSize]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+len(payload)))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(format.Channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(format.SampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(format.BitDepth))
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(payload)))

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write WAV payload: %w", err)
	}
	return nil
}
