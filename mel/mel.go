package mel

import "errors"
import "fmt"
import "math"

import "github.com/mjibson/go-dsp/fft"
import "github.com/r9y9/gossp/stft"

// Mel represents the configuration for extracting mel spectrograms.
type Mel struct {
	NumMels    int
	Fmin       float64
	Fmax       float64
	SampleRate int
	Window     int // analysis frame length, samples
	Hop        int // frame shift, samples; must match the vocoder hop length
}

// NewMel creates a new Mel instance with defaults matching the 16 kHz
// vocoder configuration.
func NewMel() *Mel {
	return &Mel{
		NumMels:    80,
		Fmin:       0,
		Fmax:       8000,
		SampleRate: 16000,
		Window:     800,
		Hop:        200,
	}
}

var ErrFileNotLoaded = errors.New("audio file not loaded")

// Spectrogram computes a log-mel spectrogram from a mono waveform in
// [-1, 1], one NumMels-dimensional vector per frame. The input is padded so
// every hop-sized stretch of signal gets a frame.
func (m *Mel) Spectrogram(buf []float64) ([][]float64, error) {
	if m.NumMels <= 0 || m.Window <= 0 || m.Hop <= 0 {
		return nil, fmt.Errorf("mel: bad config: mels %d window %d hop %d", m.NumMels, m.Window, m.Hop)
	}
	if m.Hop > m.Window {
		return nil, fmt.Errorf("mel: hop %d exceeds window %d", m.Hop, m.Window)
	}
	if len(buf) == 0 {
		return nil, errors.New("mel: empty waveform")
	}

	buf = pad(buf, m.Window, m.Hop)

	s := stft.New(m.Hop, m.Window)
	frames := s.DivideFrames(buf)
	bank := m.filterbank()

	out := make([][]float64, 0, len(frames))
	windowed := make([]float64, m.Window)
	for _, frame := range frames {
		for i := range windowed {
			windowed[i] = frame[i] * s.Window[i]
		}
		spectrum := fft.FFTReal(windowed)

		mags := make([]float64, m.Window/2+1)
		for i := range mags {
			mags[i] = cmplxAbs(spectrum[i])
		}

		mel := make([]float64, m.NumMels)
		for b, filter := range bank {
			var total float64
			for _, tap := range filter {
				total += mags[tap.bin] * tap.weight
			}
			if total < 1e-5 {
				total = 1e-5
			}
			mel[b] = math.Log(total)
		}
		out = append(out, mel)
	}
	return out, nil
}

func cmplxAbs(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}
