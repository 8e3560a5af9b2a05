package vocoder

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/x448/float16"
)

// checkpoint is the serialized form of a model: the construction config plus
// flat weight arrays keyed by parameter name. Half-precision checkpoints
// store float16 bit patterns instead.
type checkpoint struct {
	Config      Config               `msgpack:"config"`
	Half        bool                 `msgpack:"half"`
	Weights     map[string][]float64 `msgpack:"weights,omitempty"`
	HalfWeights map[string][]uint16  `msgpack:"half_weights,omitempty"`
}

type param struct {
	name string
	data []float64
}

func cellParams(prefix string, c *gruCell) []param {
	return []param{
		{prefix + ".weight_ih", c.wi.RawMatrix().Data},
		{prefix + ".weight_hh", c.wh.RawMatrix().Data},
		{prefix + ".bias_ih", c.bi.RawVector().Data},
		{prefix + ".bias_hh", c.bh.RawVector().Data},
	}
}

// params enumerates every learned tensor. The returned slices alias model
// memory, so Load can write through them.
func (v *Vocoder) params() []param {
	var ps []param
	for l, layer := range v.melRNN.layers {
		ps = append(ps, cellParams(fmt.Sprintf("mel_rnn.l%d.fwd", l), layer.fwd)...)
		ps = append(ps, cellParams(fmt.Sprintf("mel_rnn.l%d.bwd", l), layer.bwd)...)
	}
	ps = append(ps, param{"embedding", v.embedding.RawMatrix().Data})
	ps = append(ps, cellParams("wav_rnn", v.wavRNN)...)
	ps = append(ps,
		param{"affine.0.weight", v.fc1W.RawMatrix().Data},
		param{"affine.0.bias", v.fc1B.RawVector().Data},
		param{"affine.2.weight", v.fc2W.RawMatrix().Data},
		param{"affine.2.bias", v.fc2B.RawVector().Data},
	)
	return ps
}

// Save writes the model config and full-precision weights as msgpack.
func (v *Vocoder) Save(w io.Writer) error {
	ck := checkpoint{Config: v.Config, Weights: make(map[string][]float64)}
	for _, p := range v.params() {
		ck.Weights[p.name] = p.data
	}
	return msgpack.NewEncoder(w).Encode(&ck)
}

// SaveHalf writes the model with weights packed to IEEE float16, roughly
// halving checkpoint size at the cost of ~3 decimal digits of precision.
func (v *Vocoder) SaveHalf(w io.Writer) error {
	ck := checkpoint{Config: v.Config, Half: true, HalfWeights: make(map[string][]uint16)}
	for _, p := range v.params() {
		bits := make([]uint16, len(p.data))
		for i, x := range p.data {
			bits[i] = float16.Fromfloat32(float32(x)).Bits()
		}
		ck.HalfWeights[p.name] = bits
	}
	return msgpack.NewEncoder(w).Encode(&ck)
}

// Load reads a checkpoint written by Save or SaveHalf and reconstructs the
// model it describes. Half-precision weights are widened transparently.
func Load(r io.Reader) (*Vocoder, error) {
	var ck checkpoint
	if err := msgpack.NewDecoder(r).Decode(&ck); err != nil {
		return nil, fmt.Errorf("vocoder: decode checkpoint: %w", err)
	}
	v, err := New(ck.Config, 0)
	if err != nil {
		return nil, err
	}
	for _, p := range v.params() {
		if ck.Half {
			bits, ok := ck.HalfWeights[p.name]
			if !ok {
				return nil, fmt.Errorf("vocoder: checkpoint missing %q", p.name)
			}
			if len(bits) != len(p.data) {
				return nil, fmt.Errorf("vocoder: %q has %d values, want %d", p.name, len(bits), len(p.data))
			}
			for i, b := range bits {
				p.data[i] = float64(float16.Frombits(b).Float32())
			}
			continue
		}
		data, ok := ck.Weights[p.name]
		if !ok {
			return nil, fmt.Errorf("vocoder: checkpoint missing %q", p.name)
		}
		if len(data) != len(p.data) {
			return nil, fmt.Errorf("vocoder: %q has %d values, want %d", p.name, len(data), len(p.data))
		}
		copy(p.data, data)
	}
	return v, nil
}

// SaveFile writes a checkpoint to path, in half precision when half is set.
func (v *Vocoder) SaveFile(path string, half bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if half {
		err = v.SaveHalf(f)
	} else {
		err = v.Save(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// LoadFile reads a checkpoint from path.
func LoadFile(path string) (*Vocoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
