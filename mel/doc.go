// Package mel extracts mel-frequency spectrograms from audio waveforms.
//
// It frames the signal at a fixed hop, applies a Hann window and FFT, and
// collapses the magnitude spectrum through a triangular mel filterbank with
// log compression. The frame shift (Hop) is the same quantity the vocoder
// calls hop length, so a spectrogram extracted here lines up with the
// vocoder's frames-times-hop output contract. The package also loads mono
// WAV and FLAC files and saves mono WAV files.
package mel
