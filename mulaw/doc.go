// Package mulaw implements mu-law companding for waveform quantization.
//
// Mu-law is a logarithmic companding scheme that concentrates quantization
// fidelity near zero amplitude. Quantize maps a linear sample in [-1, 1] to
// one of 2^bits discrete categories; Dequantize is the exact algebraic
// inverse, recovering a linear sample from a category. The vocoder trains on
// quantized categories and emits dequantized linear audio.
package mulaw
