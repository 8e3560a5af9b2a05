// Command vocode synthesizes audio from an audio file through the neural
// vocoder: the input is reduced to a mel spectrogram, the vocoder generates
// a waveform from it sample by sample, and the result is written as WAV.
//
// Usage:
//
//	vocode <model.ckpt> <audio_file.{wav,flac}> [output.wav]
//
// The model checkpoint fixes all dimensions, including the sample rate and
// hop length used for both extraction and synthesis. The default output name
// is <audio_file>.gen.wav.
package main
