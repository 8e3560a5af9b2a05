package mulaw

import "math"

// Quantize compands a linear sample in [-1, 1] to a discrete category in
// [0, 2^bits). Input outside [-1, 1] is clamped. The companding law is
// sign(x) * ln(1 + mu*|x|) / ln(1 + mu) with mu = 2^bits - 1, rescaled from
// [-1, 1] onto the category alphabet.
func Quantize(x float64, bits int) int {
	quant := 1 << uint(bits)
	mu := float64(quant - 1)
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	y := sign(x) * math.Log(1+mu*math.Abs(x)) / math.Log(1+mu)
	q := int(math.Floor((y + 1) / 2 * mu + 0.5))
	if q >= quant {
		q = quant - 1
	}
	if q < 0 {
		q = 0
	}
	return q
}

// Dequantize maps a category in [0, 2^bits) back to a linear sample in
// [-1, 1]. It is the exact algebraic inverse of Quantize:
// sign(y)/mu * ((1+mu)^|y| - 1), where y is the category rescaled to [-1, 1].
func Dequantize(q int, bits int) float64 {
	mu := float64(int(1)<<uint(bits)) - 1
	y := 2*float64(q)/mu - 1
	return sign(y) / mu * (math.Pow(1+mu, math.Abs(y)) - 1)
}

// QuantizeBuf compands a whole waveform, returning one category per sample.
func QuantizeBuf(buf []float64, bits int) []int {
	out := make([]int, len(buf))
	for i, x := range buf {
		out[i] = Quantize(x, bits)
	}
	return out
}

// DequantizeBuf expands a whole category sequence back to linear samples.
func DequantizeBuf(qs []int, bits int) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = Dequantize(q, bits)
	}
	return out
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
