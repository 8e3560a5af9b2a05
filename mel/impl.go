package mel

import "math"

func mel_to_hz(value float64) float64 {
	const _MEL_BREAK_FREQUENCY_HERTZ = 700.0
	const _MEL_HIGH_FREQUENCY_Q = 1127.0
	return _MEL_BREAK_FREQUENCY_HERTZ * (math.Exp(value/_MEL_HIGH_FREQUENCY_Q) - 1.0)
}

func hz_to_mel(value float64) float64 {
	const _MEL_BREAK_FREQUENCY_HERTZ = 700.0
	const _MEL_HIGH_FREQUENCY_Q = 1127.0
	return _MEL_HIGH_FREQUENCY_Q * math.Log(1.0+(value/_MEL_BREAK_FREQUENCY_HERTZ))
}

type tap struct {
	bin    int
	weight float64
}

// filterbank builds NumMels triangular filters over the magnitude bins
// 0..Window/2, spaced evenly on the mel scale between Fmin and Fmax.
func (m *Mel) filterbank() [][]tap {
	fmax := m.Fmax
	if nyquist := float64(m.SampleRate) / 2; fmax <= 0 || fmax > nyquist {
		fmax = nyquist
	}
	melLo := hz_to_mel(m.Fmin)
	melHi := hz_to_mel(fmax)

	// band edges in continuous bin units
	points := make([]float64, m.NumMels+2)
	binsPerHz := float64(m.Window) / float64(m.SampleRate)
	for i := range points {
		melPoint := melLo + (melHi-melLo)*float64(i)/float64(m.NumMels+1)
		points[i] = mel_to_hz(melPoint) * binsPerHz
	}

	bank := make([][]tap, m.NumMels)
	for b := 0; b < m.NumMels; b++ {
		lo, center, hi := points[b], points[b+1], points[b+2]
		var filter []tap
		for k := int(math.Ceil(lo)); k <= int(math.Floor(hi)) && k <= m.Window/2; k++ {
			var w float64
			if float64(k) <= center {
				if center > lo {
					w = (float64(k) - lo) / (center - lo)
				}
			} else if hi > center {
				w = (hi - float64(k)) / (hi - center)
			}
			if w > 0 {
				filter = append(filter, tap{bin: k, weight: w})
			}
		}
		if len(filter) == 0 {
			// narrow band between bins, take the nearest one
			k := int(math.Round(center))
			if k > m.Window/2 {
				k = m.Window / 2
			}
			filter = []tap{{bin: k, weight: 1}}
		}
		bank[b] = filter
	}
	return bank
}

// pad extends buf so the framing covers every hop of the original signal:
// half a window of leading zeros, then trailing zeros until the last frame
// fits.
func pad(buf []float64, window, hop int) []float64 {
	frames := (len(buf) + hop - 1) / hop
	out := make([]float64, 0, frames*hop+window)
	out = append(out, make([]float64, window/2)...)
	out = append(out, buf...)
	for len(out) < (frames-1)*hop+window {
		out = append(out, 0)
	}
	return out
}
