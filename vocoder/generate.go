package vocoder

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/templeblock/universal-vocoder/mulaw"
)

// Generate synthesizes one waveform from a mel spectrogram. The full
// conditioning sequence is upsampled (no trimming) and the sample network is
// stepped strictly sequentially: at every step the previous step's sampled
// category is embedded and fed back in. The loop starts from a zero hidden
// state and the neutral category 2^Bits/2, runs for exactly
// len(mel)*HopLength steps, and the sampled categories are dequantized
// through the inverse mu-law transform into samples in [-1, 1].
//
// Sampling is stochastic; a fixed seed makes the output reproducible.
func (v *Vocoder) Generate(mel [][]float64, seed uint64) ([]float64, error) {
	return v.generate(mel, rand.New(rand.NewPCG(seed, 0)))
}

// GenerateBatch synthesizes a batch of waveforms concurrently, one goroutine
// per element. Element b samples from its own PCG stream seeded (seed, b),
// so element 0 matches Generate(mels[0], seed) and results do not depend on
// scheduling.
func (v *Vocoder) GenerateBatch(mels [][][]float64, seed uint64) ([][]float64, error) {
	for b := range mels {
		if len(mels[b]) == 0 {
			return nil, fmt.Errorf("vocoder: batch element %d has empty mel spectrogram", b)
		}
		for t, frame := range mels[b] {
			if len(frame) != v.MelDim {
				return nil, fmt.Errorf("vocoder: batch element %d mel frame %d has dim %d, want %d", b, t, len(frame), v.MelDim)
			}
		}
	}
	out := make([][]float64, len(mels))
	var wg sync.WaitGroup
	for b := range mels {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			out[b], _ = v.generate(mels[b], rand.New(rand.NewPCG(seed, uint64(b))))
		}(b)
	}
	wg.Wait()
	return out, nil
}

func (v *Vocoder) generate(mel [][]float64, rng *rand.Rand) ([]float64, error) {
	cond, err := v.condition(mel, false)
	if err != nil {
		return nil, err
	}
	cond = upsample(cond, v.HopLength)

	x := mat.NewVecDense(v.EmbDim+2*v.MelHidden, nil)
	xs := x.RawVector().Data
	h := mat.NewVecDense(v.WavHidden, nil)
	prev := v.quant / 2
	wav := make([]float64, len(cond))
	for i, c := range cond {
		v.embed(prev, xs)
		copy(xs[v.EmbDim:], c.RawVector().Data)
		h = v.wavRNN.step(x, h)
		scores := v.project(h)
		softmax(scores)
		prev = sample(scores, rng)
		wav[i] = mulaw.Dequantize(prev, v.Bits)
	}
	return wav, nil
}

// softmax normalizes scores into a probability vector in place, shifting by
// the maximum for numerical stability.
func softmax(scores []float64) {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	for i, s := range scores {
		e := math.Exp(s - max)
		scores[i] = e
		sum += e
	}
	for i := range scores {
		scores[i] /= sum
	}
}

// sample draws one category from a probability vector by cumulative
// probability. Rounding can leave the total marginally below the draw; the
// last category absorbs that mass.
func sample(probs []float64, rng *rand.Rand) int {
	r := rng.Float64()
	var cum float64
	for i, p := range probs {
		cum += p
		if r < cum {
			return i
		}
	}
	return len(probs) - 1
}
