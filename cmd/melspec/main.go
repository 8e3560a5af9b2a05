package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/templeblock/universal-vocoder/mel"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: melspec <audio_file.{wav,flac}>")
		os.Exit(1)
	}

	audioFile := os.Args[1]

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
	frames, err := m.Spectrogram(buf)
	if err != nil {
		fmt.Printf("Error extracting mel spectrogram: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d samples, %d frames x %d mel bands (hop %d)\n",
		len(buf), len(frames), m.NumMels, m.Hop)
	for b := 0; b < m.NumMels; b++ {
		lo, hi := frames[0][b], frames[0][b]
		for _, frame := range frames[1:] {
			if frame[b] < lo {
				lo = frame[b]
			}
			if frame[b] > hi {
				hi = frame[b]
			}
		}
		fmt.Printf("band %3d: min %8.3f max %8.3f\n", b, lo, hi)
	}
}
