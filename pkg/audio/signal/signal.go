// ABOUTME: Test signal synthesizer for audio validation assets
// ABOUTME: Generates ID tones, THD and IMD probes, sweeps and noise
package signal

import (
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/audiogen-go/pkg/audio"
)

// Kind identifies a test signal family.
type Kind string

const (
	// KindID assigns every channel a unique identification tone.
	KindID Kind = "id"
	// KindTHD1k is a single 1 kHz tone for total-harmonic-distortion probes.
	KindTHD1k Kind = "thd1k"
	// KindTHD100 is a single 100 Hz tone for low-frequency THD probes.
	KindTHD100 Kind = "thd100"
	// KindIMDSMPTE is the SMPTE two-tone IMD probe (60 Hz + 7 kHz, 4:1).
	KindIMDSMPTE Kind = "imd_smpte"
	// KindIMDCCIF is the CCIF two-tone IMD probe (19 kHz + 20 kHz, 1:1).
	KindIMDCCIF Kind = "imd_ccif"
	// KindSweep is a logarithmic frequency sweep from 20 Hz to 20 kHz.
	KindSweep Kind = "sweep"
	// KindWhiteNoise is deterministic flat-spectrum noise.
	KindWhiteNoise Kind = "white_noise"
	// KindPinkNoise is deterministic 1/f noise (-3 dB/octave).
	KindPinkNoise Kind = "pink_noise"
)

const (
	// StandardAmp is the single-tone amplitude, ~ -3 dBFS
	StandardAmp = 0.707
	// PeakLimit is the headroom bound enforced after summing tones
	PeakLimit = 0.999

	idBaseFreq = 300.0
	idStepFreq = 300.0
	idMaxFreq  = 6000.0

	smpteLowFreq  = 60.0
	smpteLowAmp   = 0.8
	smpteHighFreq = 7000.0
	smpteHighAmp  = 0.2

	ccifLowFreq  = 19000.0
	ccifHighFreq = 20000.0
	ccifAmp      = 0.5

	sweepStartFreq = 20.0
	sweepEndFreq   = 20000.0

	// Fixed LCG seeds keep noise assets byte-identical across runs
	whiteNoiseSeed = 1234567890
	pinkNoiseSeed  = 9876543210
)

var (
	ErrUnsupportedSignal = errors.New("unsupported signal")
	ErrNyquistViolation  = errors.New("signal content at or above Nyquist")
)

// Spec is the ground-truth descriptor for a synthesized signal. It records
// the exact frequencies and amplitudes used, and is serialized verbatim into
// the asset sidecar so downstream consumers can verify what they decode.
type Spec struct {
	Kind        Kind      `json:"type"`
	Freq        float64   `json:"freq,omitempty"`
	Freqs       []float64 `json:"freqs,omitempty"`
	Ratio       string    `json:"ratio,omitempty"`
	FreqStart   float64   `json:"freq_start,omitempty"`
	FreqEnd     float64   `json:"freq_end,omitempty"`
	SweepShape  string    `json:"kind,omitempty"`
	Description string    `json:"description,omitempty"`
}

// AllKinds returns every supported signal kind in canonical order.
func AllKinds() []Kind {
	return []Kind{
		KindID, KindTHD1k, KindTHD100, KindIMDSMPTE, KindIMDCCIF,
		KindSweep, KindWhiteNoise, KindPinkNoise,
	}
}

// ParseKind converts a signal tag string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSignal, s)
}

// IDFreq returns the identification-tone frequency for 0-indexed channel i:
// 300 Hz steps from 300 Hz, capped at 6 kHz. The spacing keeps channels
// apart from each other and from Nyquist at the lowest supported rates.
func IDFreq(channel int) float64 {
	return math.Min(idBaseFreq+idStepFreq*float64(channel), idMaxFreq)
}

// Synthesize builds the waveform for kind and returns it together with its
// ground-truth Spec. Inputs are assumed pre-validated by the caller except
// for the Nyquist guard: a cell whose tone content reaches sampleRate/2
// fails with ErrNyquistViolation before any samples are produced.
func Synthesize(kind Kind, channels, sampleRate int, duration float64) (*audio.Buffer, Spec, error) {
	if err := checkNyquist(kind, channels, sampleRate); err != nil {
		return nil, Spec{}, err
	}

	switch kind {
	case KindID:
		freqs := make([]float64, channels)
		buf := audio.NewBuffer(channels, audio.FramesFor(duration, sampleRate), sampleRate)
		for ch := 0; ch < channels; ch++ {
			freqs[ch] = IDFreq(ch)
			tone(buf.Data[ch], freqs[ch], StandardAmp, sampleRate)
		}
		return buf, Spec{Kind: kind, Freqs: freqs}, nil

	case KindTHD1k:
		buf := broadcastTone(1000.0, channels, sampleRate, duration)
		return buf, Spec{Kind: kind, Freq: 1000.0}, nil

	case KindTHD100:
		buf := broadcastTone(100.0, channels, sampleRate, duration)
		return buf, Spec{Kind: kind, Freq: 100.0}, nil

	case KindIMDSMPTE:
		mono := twoTone(smpteLowFreq, smpteLowAmp, smpteHighFreq, smpteHighAmp, sampleRate, duration)
		buf := broadcast(mono, channels, sampleRate)
		return buf, Spec{Kind: kind, Freqs: []float64{smpteLowFreq, smpteHighFreq}, Ratio: "~4:1"}, nil

	case KindIMDCCIF:
		mono := twoTone(ccifLowFreq, ccifAmp, ccifHighFreq, ccifAmp, sampleRate, duration)
		buf := broadcast(mono, channels, sampleRate)
		return buf, Spec{Kind: kind, Freqs: []float64{ccifLowFreq, ccifHighFreq}}, nil

	case KindSweep:
		mono := logSweep(sweepStartFreq, sweepEndFreq, StandardAmp, sampleRate, duration)
		buf := broadcast(mono, channels, sampleRate)
		return buf, Spec{Kind: kind, FreqStart: sweepStartFreq, FreqEnd: sweepEndFreq, SweepShape: "log"}, nil

	case KindWhiteNoise:
		mono := whiteNoise(StandardAmp, whiteNoiseSeed, sampleRate, duration)
		buf := broadcast(mono, channels, sampleRate)
		return buf, Spec{Kind: kind, Description: "flat spectrum (white noise)"}, nil

	case KindPinkNoise:
		mono := pinkNoise(StandardAmp, pinkNoiseSeed, sampleRate, duration)
		buf := broadcast(mono, channels, sampleRate)
		return buf, Spec{Kind: kind, Description: "1/f spectrum, -3dB/octave (pink noise)"}, nil
	}

	return nil, Spec{}, fmt.Errorf("%w: %q", ErrUnsupportedSignal, kind)
}

// maxFreq returns the highest tone frequency a kind produces, or 0 for
// broadband kinds that have no discrete tone to guard.
func maxFreq(kind Kind, channels int) float64 {
	switch kind {
	case KindID:
		return IDFreq(channels - 1)
	case KindTHD1k:
		return 1000.0
	case KindTHD100:
		return 100.0
	case KindIMDSMPTE:
		return smpteHighFreq
	case KindIMDCCIF:
		return ccifHighFreq
	case KindSweep:
		return sweepEndFreq
	}
	return 0
}

func checkNyquist(kind Kind, channels, sampleRate int) error {
	nyquist := float64(sampleRate) / 2.0
	if f := maxFreq(kind, channels); f >= nyquist {
		return fmt.Errorf("%w: %s needs %.0f Hz, Nyquist is %.0f Hz", ErrNyquistViolation, kind, f, nyquist)
	}
	return nil
}

// tone fills dst with a zero-phase sine wave.
func tone(dst []float64, freq, amp float64, sampleRate int) {
	for i := range dst {
		t := float64(i) / float64(sampleRate)
		dst[i] = amp * math.Sin(2*math.Pi*freq*t)
	}
}

// twoTone sums two sines and rescales so the peak never exceeds PeakLimit.
// Rescaling is pure linear gain, so spectral content is unchanged.
func twoTone(f1, a1, f2, a2 float64, sampleRate int, duration float64) []float64 {
	frames := audio.FramesFor(duration, sampleRate)
	out := make([]float64, frames)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = a1*math.Sin(2*math.Pi*f1*t) + a2*math.Sin(2*math.Pi*f2*t)
	}
	normalize(out)
	return out
}

func normalize(samples []float64) {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak > PeakLimit {
		gain := PeakLimit / peak
		for i := range samples {
			samples[i] *= gain
		}
	}
}

// logSweep generates a logarithmic frequency sweep from fStart to fEnd.
func logSweep(fStart, fEnd, amp float64, sampleRate int, duration float64) []float64 {
	frames := audio.FramesFor(duration, sampleRate)
	out := make([]float64, frames)
	k := math.Log(fEnd/fStart) / duration
	coeff := 2 * math.Pi * fStart / k
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = amp * math.Sin(coeff*(math.Exp(k*t)-1))
	}
	return out
}

// lcg steps a linear congruential generator (Numerical Recipes constants)
// in 64-bit state and maps the low 32 bits to [-1, 1].
func lcg(seed *uint64) float64 {
	*seed = *seed*1664525 + 1013904223
	return float64(uint32(*seed))/float64(math.MaxUint32)*2 - 1
}

func whiteNoise(amp float64, seed uint64, sampleRate int, duration float64) []float64 {
	frames := audio.FramesFor(duration, sampleRate)
	out := make([]float64, frames)
	for i := range out {
		out[i] = clip(amp * lcg(&seed))
	}
	return out
}

// pinkNoise filters white noise with Paul Kellett's approximation of the
// Voss-McCartney algorithm. The 0.11 factor compensates the filter gain.
func pinkNoise(amp float64, seed uint64, sampleRate int, duration float64) []float64 {
	frames := audio.FramesFor(duration, sampleRate)
	out := make([]float64, frames)
	var b0, b1, b2, b3, b4, b5, b6 float64
	for i := range out {
		white := lcg(&seed)
		b0 = 0.99886*b0 + white*0.0555179
		b1 = 0.99332*b1 + white*0.0750759
		b2 = 0.96900*b2 + white*0.1538520
		b3 = 0.86650*b3 + white*0.3104856
		b4 = 0.55000*b4 + white*0.5329522
		b5 = -0.7616*b5 - white*0.0168980
		pink := b0 + b1 + b2 + b3 + b4 + b5 + b6 + white*0.5362
		b6 = white * 0.115926
		out[i] = clip(amp * pink * 0.11)
	}
	return out
}

func clip(x float64) float64 {
	if x > 0.999999 {
		return 0.999999
	}
	if x < -0.999999 {
		return -0.999999
	}
	return x
}

// broadcastTone puts an identical single tone on every channel.
func broadcastTone(freq float64, channels, sampleRate int, duration float64) *audio.Buffer {
	buf := audio.NewBuffer(channels, audio.FramesFor(duration, sampleRate), sampleRate)
	tone(buf.Data[0], freq, StandardAmp, sampleRate)
	for ch := 1; ch < channels; ch++ {
		copy(buf.Data[ch], buf.Data[0])
	}
	return buf
}

// broadcast replicates a mono signal to every channel of a new buffer.
func broadcast(mono []float64, channels, sampleRate int) *audio.Buffer {
	buf := &audio.Buffer{SampleRate: sampleRate, Data: make([][]float64, channels)}
	buf.Data[0] = mono
	for ch := 1; ch < channels; ch++ {
		buf.Data[ch] = make([]float64, len(mono))
		copy(buf.Data[ch], mono)
	}
	return buf
}
