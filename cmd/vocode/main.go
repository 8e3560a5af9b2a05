package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/templeblock/universal-vocoder/mel"
	"github.com/templeblock/universal-vocoder/vocoder"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: vocode <model.ckpt> <audio_file.{wav,flac}> [output.wav]")
		os.Exit(1)
	}

	modelFile := os.Args[1]
	audioFile := os.Args[2]
	outputFile := audioFile + ".gen.wav"
	if len(os.Args) > 3 {
		outputFile = os.Args[3]
	}

	v, err := vocoder.LoadFile(modelFile)
	if err != nil {
		fmt.Printf("Error loading model: %v\n", err)
		os.Exit(1)
	}

	var buf []float64
	if strings.HasSuffix(audioFile, ".flac") {
		buf = mel.LoadFlac(audioFile)
	} else {
		buf = mel.LoadWav(audioFile)
	}
	if len(buf) == 0 {
		fmt.Printf("Error: %v: %s\n", mel.ErrFileNotLoaded, audioFile)
		os.Exit(1)
	}

	m := mel.NewMel()
	m.NumMels = v.MelDim
	m.SampleRate = v.SampleRate
	m.Hop = v.HopLength
	m.Window = 4 * v.HopLength

	frames, err := m.Spectrogram(buf)
	if err != nil {
		fmt.Printf("Error extracting mel spectrogram: %v\n", err)
		os.Exit(1)
	}

	wav, err := v.Generate(frames, uint64(time.Now().UnixNano()))
	if err != nil {
		fmt.Printf("Error generating waveform: %v\n", err)
		os.Exit(1)
	}

	if err := mel.SaveWav(outputFile, wav, v.SampleRate); err != nil {
		fmt.Printf("Error writing output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d samples (%.2f s) to %s\n",
		len(wav), float64(len(wav))/float64(v.SampleRate), outputFile)
}
