package vocoder

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// gruCell holds the parameters of one gated recurrent unit. Gate weights are
// stacked row-wise in reset, update, candidate order, so wi is (3*hidden) x
// input and wh is (3*hidden) x hidden.
type gruCell struct {
	input  int
	hidden int
	wi     *mat.Dense
	wh     *mat.Dense
	bi     *mat.VecDense
	bh     *mat.VecDense
}

func newGRUCell(input, hidden int, rng *rand.Rand) *gruCell {
	k := 1 / math.Sqrt(float64(hidden))
	return &gruCell{
		input:  input,
		hidden: hidden,
		wi:     uniformDense(3*hidden, input, k, rng),
		wh:     uniformDense(3*hidden, hidden, k, rng),
		bi:     uniformVec(3*hidden, k, rng),
		bh:     uniformVec(3*hidden, k, rng),
	}
}

// step advances the recurrence by one time step, returning the new hidden
// state. The previous state h is not modified.
func (c *gruCell) step(x, h *mat.VecDense) *mat.VecDense {
	gi := mat.NewVecDense(3*c.hidden, nil)
	gh := mat.NewVecDense(3*c.hidden, nil)
	gi.MulVec(c.wi, x)
	gi.AddVec(gi, c.bi)
	gh.MulVec(c.wh, h)
	gh.AddVec(gh, c.bh)

	gis := gi.RawVector().Data
	ghs := gh.RawVector().Data
	hs := h.RawVector().Data

	next := mat.NewVecDense(c.hidden, nil)
	ns := next.RawVector().Data
	n := c.hidden
	for i := 0; i < n; i++ {
		r := sigmoid(gis[i] + ghs[i])
		z := sigmoid(gis[n+i] + ghs[n+i])
		cand := math.Tanh(gis[2*n+i] + r*ghs[2*n+i])
		ns[i] = (1-z)*cand + z*hs[i]
	}
	return next
}

// run processes a whole sequence from a zero initial state, returning every
// hidden state. Used by the teacher-forced path where all inputs are known
// up front.
func (c *gruCell) run(xs []*mat.VecDense) []*mat.VecDense {
	h := mat.NewVecDense(c.hidden, nil)
	out := make([]*mat.VecDense, len(xs))
	for t, x := range xs {
		h = c.step(x, h)
		out[t] = h
	}
	return out
}

// runReverse is run with time reversed; out[t] still corresponds to input t.
func (c *gruCell) runReverse(xs []*mat.VecDense) []*mat.VecDense {
	h := mat.NewVecDense(c.hidden, nil)
	out := make([]*mat.VecDense, len(xs))
	for t := len(xs) - 1; t >= 0; t-- {
		h = c.step(xs[t], h)
		out[t] = h
	}
	return out
}

// biGRU is a stack of bidirectional GRU layers. Each layer runs one cell
// forward and one backward over the full sequence and concatenates their
// hidden states per step, so the output width is 2*hidden.
type biGRU struct {
	hidden int
	layers []struct{ fwd, bwd *gruCell }
}

func newBiGRU(input, hidden, layers int, rng *rand.Rand) *biGRU {
	g := &biGRU{hidden: hidden}
	in := input
	for l := 0; l < layers; l++ {
		g.layers = append(g.layers, struct{ fwd, bwd *gruCell }{
			fwd: newGRUCell(in, hidden, rng),
			bwd: newGRUCell(in, hidden, rng),
		})
		in = 2 * hidden
	}
	return g
}

func (g *biGRU) run(xs []*mat.VecDense) []*mat.VecDense {
	seq := xs
	for _, l := range g.layers {
		fwd := l.fwd.run(seq)
		bwd := l.bwd.runReverse(seq)
		next := make([]*mat.VecDense, len(seq))
		for t := range seq {
			v := mat.NewVecDense(2*g.hidden, nil)
			copy(v.RawVector().Data[:g.hidden], fwd[t].RawVector().Data)
			copy(v.RawVector().Data[g.hidden:], bwd[t].RawVector().Data)
			next[t] = v
		}
		seq = next
	}
	return seq
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func uniformDense(r, c int, k float64, rng *rand.Rand) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	data := m.RawMatrix().Data
	for i := range data {
		data[i] = (2*rng.Float64() - 1) * k
	}
	return m
}

func uniformVec(n int, k float64, rng *rand.Rand) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	data := v.RawVector().Data
	for i := range data {
		data[i] = (2*rng.Float64() - 1) * k
	}
	return v
}
