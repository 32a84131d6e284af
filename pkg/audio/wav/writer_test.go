// ABOUTME: Unit tests for the WAV container writer
// ABOUTME: Cross-checks written files with the go-audio/wav decoder
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/harperreed/audiogen-go/pkg/audio"
	"github.com/harperreed/audiogen-go/pkg/audio/encode"
	"github.com/harperreed/audiogen-go/pkg/audio/signal"
)

func TestWriteHeaderFields(t *testing.T) {
	buf, _, err := signal.Synthesize(signal.KindTHD1k, 2, 48000, 0.1)
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}

	var out bytes.Buffer
	if err := WriteTo(&out, buf, 16); err != nil {
		t.Fatalf("WriteTo() failed: %v", err)
	}

	raw := out.Bytes()
	if len(raw) < headerSize {
		t.Fatalf("output too short: %d bytes", len(raw))
	}
	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		t.Fatalf("bad container magic: %q %q", raw[0:4], raw[8:12])
	}
	if string(raw[12:16]) != "fmt " || string(raw[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q %q", raw[12:16], raw[36:40])
	}

	if got := binary.LittleEndian.Uint16(raw[22:24]); got != 2 {
		t.Errorf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(raw[24:28]); got != 48000 {
		t.Errorf("sample rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint16(raw[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(raw[28:32]); got != 48000*2*2 {
		t.Errorf("byte rate = %d, want %d", got, 48000*2*2)
	}
	if got := binary.LittleEndian.Uint16(raw[32:34]); got != 4 {
		t.Errorf("block align = %d, want 4", got)
	}

	wantData := uint32(4800 * 2 * 2)
	if got := binary.LittleEndian.Uint32(raw[40:44]); got != wantData {
		t.Errorf("data size = %d, want %d", got, wantData)
	}
	if got := binary.LittleEndian.Uint32(raw[4:8]); got != 36+wantData {
		t.Errorf("riff size = %d, want %d", got, 36+wantData)
	}
	if len(raw) != int(headerSize+wantData) {
		t.Errorf("total size = %d, want %d", len(raw), headerSize+wantData)
	}
}

// Decode a written file with an independent third-party decoder so the test
// does not trust the writer under test.
func TestWriteCrossCheckedByGoAudio(t *testing.T) {
	buf, _, err := signal.Synthesize(signal.KindID, 2, 44100, 0.05)
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "id_ch2_sr44100_b16.wav")
	if err := Write(path, buf, 16); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()

	decoder := gowav.NewDecoder(f)
	if !decoder.IsValidFile() {
		t.Fatal("go-audio considers the file invalid")
	}
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() failed: %v", err)
	}

	wantFormat := gaudio.Format{NumChannels: 2, SampleRate: 44100}
	if pcm.Format == nil || *pcm.Format != wantFormat {
		t.Fatalf("decoded format = %+v, want %+v", pcm.Format, wantFormat)
	}

	if decoder.NumChans != 2 {
		t.Errorf("decoded channels = %d, want 2", decoder.NumChans)
	}
	if decoder.SampleRate != 44100 {
		t.Errorf("decoded sample rate = %d, want 44100", decoder.SampleRate)
	}
	if decoder.BitDepth != 16 {
		t.Errorf("decoded bit depth = %d, want 16", decoder.BitDepth)
	}

	frames := buf.Frames()
	if len(pcm.Data) != frames*2 {
		t.Fatalf("decoded %d samples, want %d", len(pcm.Data), frames*2)
	}

	// Decoded interleaved samples must match our quantizer frame by frame.
	for fr := 0; fr < frames; fr++ {
		for ch := 0; ch < 2; ch++ {
			want := encode.Quantize(buf.Data[ch][fr], 16)
			got := int32(pcm.Data[fr*2+ch])
			if got != want {
				t.Fatalf("frame %d channel %d: decoded %d, want %d", fr, ch, got, want)
			}
		}
	}
}

func TestWrite24BitPayloadLength(t *testing.T) {
	buf, _, err := signal.Synthesize(signal.KindIMDCCIF, 1, 44100, 0.5)
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "imd_ccif_ch1_sr44100_b24.wav")
	if err := Write(path, buf, 24); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat written file: %v", err)
	}
	wantPayload := int64(22050 * 1 * 3) // round(44100*0.5) frames, 1 channel, 3 bytes
	if info.Size() != headerSize+wantPayload {
		t.Errorf("file size = %d, want %d", info.Size(), headerSize+wantPayload)
	}
}

func TestWriteValidationFailsBeforeWriting(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		channels int
		bitDepth int
		wantErr  error
	}{
		{name: "zero channels", channels: 0, bitDepth: 16, wantErr: audio.ErrInvalidChannelCount},
		{name: "17 channels", channels: 17, bitDepth: 16, wantErr: audio.ErrInvalidChannelCount},
		{name: "32-bit", channels: 2, bitDepth: 32, wantErr: audio.ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := audio.NewBuffer(tt.channels, 100, 48000)
			path := filepath.Join(dir, tt.name+".wav")
			err := Write(path, buf, tt.bitDepth)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Write() = %v, want %v", err, tt.wantErr)
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Errorf("file %s exists after failed write", path)
			}
			if _, statErr := os.Stat(path + ".tmp"); !os.IsNotExist(statErr) {
				t.Errorf("temp file left behind for %s", path)
			}
		})
	}
}

func TestWriteDeterministic(t *testing.T) {
	gen := func() []byte {
		buf, _, err := signal.Synthesize(signal.KindIMDSMPTE, 2, 48000, 0.1)
		if err != nil {
			t.Fatalf("Synthesize() failed: %v", err)
		}
		var out bytes.Buffer
		if err := WriteTo(&out, buf, 24); err != nil {
			t.Fatalf("WriteTo() failed: %v", err)
		}
		return out.Bytes()
	}

	if !bytes.Equal(gen(), gen()) {
		t.Error("two identical generations produced different container bytes")
	}
}
