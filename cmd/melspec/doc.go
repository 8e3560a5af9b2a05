// Command melspec extracts a mel spectrogram from an audio file and prints
// a summary of it: frame count, band count, and per-band value range. It is
// a smoke tool for the extraction front end of the vocoder pipeline.
//
// Usage:
//
//	melspec <audio_file.{wav,flac}>
package main
