package mel

import "io"
import "os"

import "github.com/faiface/beep"
import "github.com/faiface/beep/wav"
import "github.com/mewkiz/flac"

// LoadWav loads a mono wav file to a sample vector. The left channel is
// taken from multi-channel files. Returns an empty vector when the file
// cannot be decoded.
func LoadWav(inputFile string) []float64 {
	return loadwav(inputFile)
}

// LoadFlac loads a mono flac file to a sample vector. Returns an empty
// vector when the file cannot be decoded.
func LoadFlac(inputFile string) []float64 {
	return loadflac(inputFile)
}

// SaveWav saves a mono wav file from a sample vector in [-1, 1].
func SaveWav(outputFile string, vec []float64, sr int) error {
	return dumpwav(outputFile, vec, sr)
}

func loadwav(name string) (out []float64) {
	file, err := os.Open(name)
	if err != nil {
		return nil
	}
	defer file.Close()

	stream, _, err := wav.Decode(file)
	if err != nil {
		return nil
	}
	defer stream.Close()

	var samples = make([][2]float64, 512)
	for {
		n, ok := stream.Stream(samples)
		if !ok {
			break
		}
		for i := 0; i < n; i++ {
			out = append(out, samples[i][0])
		}
	}
	return
}

func loadflac(name string) (out []float64) {
	stream, err := flac.ParseFile(name)
	if err != nil {
		return nil
	}
	defer stream.Close()

	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}
		for _, sample := range frame.Subframes[0].Samples {
			out = append(out, float64(sample)/scale)
		}
	}
	return
}

// sliceStreamer adapts a sample vector to the beep streaming interface so
// it can be fed to the wav encoder.
type sliceStreamer struct {
	data []float64
	pos  int
}

func (s *sliceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	n := 0
	for i := range samples {
		if s.pos >= len(s.data) {
			break
		}
		v := s.data[s.pos]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		samples[i][0], samples[i][1] = v, v
		s.pos++
		n++
	}
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

func dumpwav(name string, vec []float64, sr int) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sr),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(f, &sliceStreamer{data: vec}, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
