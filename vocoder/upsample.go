package vocoder

import "gonum.org/v1/gonum/mat"

// upsample stretches a per-frame conditioning sequence to one vector per
// audio sample by linear interpolation with an exact integer factor hop.
// Output sample i interpolates between frames floor(i/hop) and the next one,
// so sample k*hop reproduces frame k exactly; past the last frame the value
// clamps to it. The result always has len(seq)*hop steps and no learned
// parameters are involved.
func upsample(seq []*mat.VecDense, hop int) []*mat.VecDense {
	frames := len(seq)
	if frames == 0 {
		return nil
	}
	dim := seq[0].Len()
	out := make([]*mat.VecDense, frames*hop)
	for i := range out {
		j := i / hop
		frac := float64(i%hop) / float64(hop)
		v := mat.NewVecDense(dim, nil)
		if frac == 0 || j+1 >= frames {
			// frame boundary, or the tail past the last frame
			v.CopyVec(seq[j])
		} else {
			a := seq[j].RawVector().Data
			b := seq[j+1].RawVector().Data
			d := v.RawVector().Data
			for k := range d {
				d[k] = (1-frac)*a[k] + frac*b[k]
			}
		}
		out[i] = v
	}
	return out
}
