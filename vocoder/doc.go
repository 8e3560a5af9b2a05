// Package vocoder implements an autoregressive neural vocoder that converts
// mel spectrograms into raw audio waveforms.
//
// The model couples a bidirectional conditioning GRU over mel frames with a
// unidirectional sample GRU running at audio rate. The conditioning output is
// stretched to one vector per audio sample by linear interpolation at the hop
// length, concatenated with an embedding of the previous quantized sample,
// and projected to a categorical distribution over all mu-law categories.
// It supports:
//   - Teacher-forced scoring of ground-truth waveforms for training (Forward)
//   - Sequential sample-by-sample waveform generation (Generate)
//   - Checkpoint persistence, optionally in half precision (Save/Load)
package vocoder
