package vocoder

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Config fixes every dimension of a Vocoder at construction. All fields are
// immutable for the lifetime of the model instance.
type Config struct {
	SampleRate      int `msgpack:"sample_rate"`
	FramesPerSample int `msgpack:"frames_per_sample"` // full conditioning window, frames
	FramesPerSlice  int `msgpack:"frames_per_slice"`  // training target window, frames
	MelDim          int `msgpack:"mel_dim"`
	MelHidden       int `msgpack:"mel_hidden"` // conditioning GRU width per direction
	EmbDim          int `msgpack:"emb_dim"`
	WavHidden       int `msgpack:"wav_hidden"` // sample GRU width
	AffineDim       int `msgpack:"affine_dim"` // projection hidden width
	Bits            int `msgpack:"bits"`
	HopLength       int `msgpack:"hop_length"` // audio samples per mel frame
}

// DefaultConfig returns dimensions for universal vocoding of 16 kHz speech
// with 9-bit mu-law quantization.
func DefaultConfig() Config {
	return Config{
		SampleRate:      16000,
		FramesPerSample: 40,
		FramesPerSlice:  8,
		MelDim:          80,
		MelHidden:       128,
		EmbDim:          256,
		WavHidden:       896,
		AffineDim:       512,
		Bits:            9,
		HopLength:       200,
	}
}

var ErrBadConfig = errors.New("vocoder: invalid config")

func (c Config) validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrBadConfig, c.SampleRate)
	case c.MelDim <= 0 || c.MelHidden <= 0 || c.EmbDim <= 0 || c.WavHidden <= 0 || c.AffineDim <= 0:
		return fmt.Errorf("%w: nonpositive width", ErrBadConfig)
	case c.Bits < 1 || c.Bits > 16:
		return fmt.Errorf("%w: bits %d outside [1, 16]", ErrBadConfig, c.Bits)
	case c.HopLength <= 0:
		return fmt.Errorf("%w: hop length %d", ErrBadConfig, c.HopLength)
	case c.FramesPerSample <= 0 || c.FramesPerSlice <= 0:
		return fmt.Errorf("%w: window %d frames, slice %d frames", ErrBadConfig, c.FramesPerSample, c.FramesPerSlice)
	case c.FramesPerSlice > c.FramesPerSample:
		return fmt.Errorf("%w: slice %d exceeds window %d", ErrBadConfig, c.FramesPerSlice, c.FramesPerSample)
	case (c.FramesPerSample-c.FramesPerSlice)%2 != 0:
		return fmt.Errorf("%w: window minus slice must be even, got %d", ErrBadConfig, c.FramesPerSample-c.FramesPerSlice)
	}
	return nil
}

// Vocoder is the autoregressive vocoder model. Parameters are fixed after
// construction (or Load) and only read during Forward and Generate, so one
// instance may serve concurrent calls.
type Vocoder struct {
	Config

	quant int // 2^Bits, size of the category alphabet
	pad   int // frames trimmed from each end of the training window

	melRNN    *biGRU
	embedding *mat.Dense // quant x EmbDim, one row per category
	wavRNN    *gruCell
	fc1W      *mat.Dense // AffineDim x WavHidden
	fc1B      *mat.VecDense
	fc2W      *mat.Dense // quant x AffineDim
	fc2B      *mat.VecDense
}

// New creates a Vocoder with randomly initialized parameters drawn from a
// PCG stream seeded by seed. Weight matrices are uniform in +-1/sqrt(hidden);
// the embedding table is standard normal.
func New(cfg Config, seed uint64) (*Vocoder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	v := &Vocoder{
		Config: cfg,
		quant:  1 << uint(cfg.Bits),
		pad:    (cfg.FramesPerSample - cfg.FramesPerSlice) / 2,
	}
	v.melRNN = newBiGRU(cfg.MelDim, cfg.MelHidden, 2, rng)
	v.embedding = mat.NewDense(v.quant, cfg.EmbDim, nil)
	emb := v.embedding.RawMatrix().Data
	for i := range emb {
		emb[i] = rng.NormFloat64()
	}
	v.wavRNN = newGRUCell(cfg.EmbDim+2*cfg.MelHidden, cfg.WavHidden, rng)
	kAff := 1 / math.Sqrt(float64(cfg.WavHidden))
	v.fc1W = uniformDense(cfg.AffineDim, cfg.WavHidden, kAff, rng)
	v.fc1B = uniformVec(cfg.AffineDim, kAff, rng)
	kOut := 1 / math.Sqrt(float64(cfg.AffineDim))
	v.fc2W = uniformDense(v.quant, cfg.AffineDim, kOut, rng)
	v.fc2B = uniformVec(v.quant, kOut, rng)
	return v, nil
}

// QuantDim reports the size of the category alphabet, 2^Bits.
func (v *Vocoder) QuantDim() int { return v.quant }

// Pad reports how many frames the training path trims from each end of the
// conditioning window.
func (v *Vocoder) Pad() int { return v.pad }

// condition runs the bidirectional encoder over mel frames. With trim set,
// the central FramesPerSlice frames are kept and pad frames are dropped from
// each end; generation keeps the full sequence.
func (v *Vocoder) condition(mel [][]float64, trim bool) ([]*mat.VecDense, error) {
	if trim && len(mel) != v.FramesPerSample {
		return nil, fmt.Errorf("vocoder: got %d mel frames, want %d", len(mel), v.FramesPerSample)
	}
	if len(mel) == 0 {
		return nil, errors.New("vocoder: empty mel spectrogram")
	}
	xs := make([]*mat.VecDense, len(mel))
	for t, frame := range mel {
		if len(frame) != v.MelDim {
			return nil, fmt.Errorf("vocoder: mel frame %d has dim %d, want %d", t, len(frame), v.MelDim)
		}
		xs[t] = mat.NewVecDense(v.MelDim, frame)
	}
	out := v.melRNN.run(xs)
	if trim {
		out = out[v.pad : v.pad+v.FramesPerSlice]
	}
	return out, nil
}

// project maps a sample-GRU hidden state to unnormalized scores over the
// category alphabet: affine, rectifier, affine.
func (v *Vocoder) project(h *mat.VecDense) []float64 {
	a := mat.NewVecDense(v.AffineDim, nil)
	a.MulVec(v.fc1W, h)
	a.AddVec(a, v.fc1B)
	as := a.RawVector().Data
	for i, x := range as {
		if x < 0 {
			as[i] = 0
		}
	}
	out := mat.NewVecDense(v.quant, nil)
	out.MulVec(v.fc2W, a)
	out.AddVec(out, v.fc2B)
	return out.RawVector().Data
}

// embed copies the embedding row of category q into dst[:EmbDim]. Callers
// guarantee q is in range; the generation loop only feeds back its own
// sampled categories.
func (v *Vocoder) embed(q int, dst []float64) {
	copy(dst[:v.EmbDim], v.embedding.RawRowView(q))
}
