package vocoder

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Forward runs the teacher-forced training pass for one sequence. wav holds
// the ground-truth quantized samples fed as input (already shifted by one
// step by the caller) and mel the full conditioning window of FramesPerSample
// frames. The conditioning sequence is centrally trimmed to FramesPerSlice
// frames before upsampling, so the returned unnormalized scores have exactly
// FramesPerSlice*HopLength steps of width 2^Bits.
//
// This pass never reads the model's own predictions; every input sample is
// ground truth.
func (v *Vocoder) Forward(wav []int, mel [][]float64) ([][]float64, error) {
	cond, err := v.condition(mel, true)
	if err != nil {
		return nil, err
	}
	cond = upsample(cond, v.HopLength)
	if len(wav) != len(cond) {
		return nil, fmt.Errorf("vocoder: got %d waveform samples, want %d (frames per slice %d x hop %d)",
			len(wav), len(cond), v.FramesPerSlice, v.HopLength)
	}

	x := mat.NewVecDense(v.EmbDim+2*v.MelHidden, nil)
	xs := x.RawVector().Data
	h := mat.NewVecDense(v.WavHidden, nil)
	scores := make([][]float64, len(cond))
	for t, c := range cond {
		v.embed(wav[t], xs)
		copy(xs[v.EmbDim:], c.RawVector().Data)
		h = v.wavRNN.step(x, h)
		scores[t] = v.project(h)
	}
	return scores, nil
}

// ForwardBatch runs Forward over a batch, one goroutine per element. Shapes
// are validated for the whole batch before any compute starts, so a
// malformed call fails atomically.
func (v *Vocoder) ForwardBatch(wavs [][]int, mels [][][]float64) ([][][]float64, error) {
	if len(wavs) != len(mels) {
		return nil, fmt.Errorf("vocoder: batch of %d waveforms against %d spectrograms", len(wavs), len(mels))
	}
	want := v.FramesPerSlice * v.HopLength
	for b := range mels {
		if len(mels[b]) != v.FramesPerSample {
			return nil, fmt.Errorf("vocoder: batch element %d has %d mel frames, want %d", b, len(mels[b]), v.FramesPerSample)
		}
		for t, frame := range mels[b] {
			if len(frame) != v.MelDim {
				return nil, fmt.Errorf("vocoder: batch element %d mel frame %d has dim %d, want %d", b, t, len(frame), v.MelDim)
			}
		}
		if len(wavs[b]) != want {
			return nil, fmt.Errorf("vocoder: batch element %d has %d waveform samples, want %d", b, len(wavs[b]), want)
		}
	}

	out := make([][][]float64, len(mels))
	var wg sync.WaitGroup
	for b := range mels {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			out[b], _ = v.Forward(wavs[b], mels[b])
		}(b)
	}
	wg.Wait()
	return out, nil
}
