package vocoder

import (
	"math/rand/v2"
	"testing"
)

func testConfig() Config {
	return Config{
		SampleRate:      16000,
		FramesPerSample: 10,
		FramesPerSlice:  4,
		MelDim:          8,
		MelHidden:       6,
		EmbDim:          5,
		WavHidden:       7,
		AffineDim:       9,
		Bits:            4,
		HopLength:       5,
	}
}

func testMel(frames int, rng *rand.Rand) [][]float64 {
	cfg := testConfig()
	mel := make([][]float64, frames)
	for t := range mel {
		mel[t] = make([]float64, cfg.MelDim)
		for d := range mel[t] {
			mel[t][d] = rng.NormFloat64()
		}
	}
	return mel
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero mel dim", func(c *Config) { c.MelDim = 0 }},
		{"negative hidden", func(c *Config) { c.WavHidden = -1 }},
		{"zero bits", func(c *Config) { c.Bits = 0 }},
		{"too many bits", func(c *Config) { c.Bits = 17 }},
		{"zero hop", func(c *Config) { c.HopLength = 0 }},
		{"slice exceeds window", func(c *Config) { c.FramesPerSlice = 11 }},
		{"odd trim", func(c *Config) { c.FramesPerSlice = 5 }},
		{"zero slice", func(c *Config) { c.FramesPerSlice = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg, 1); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestTrimOffset(t *testing.T) {
	v, err := New(testConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	// frames_per_sample 10, frames_per_slice 4
	if v.Pad() != 3 {
		t.Fatalf("Pad() = %d, want 3", v.Pad())
	}
	if v.QuantDim() != 16 {
		t.Fatalf("QuantDim() = %d, want 16", v.QuantDim())
	}
}

func TestForwardShape(t *testing.T) {
	cfg := testConfig()
	v, err := New(cfg, 2)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(3, 0))
	mel := testMel(cfg.FramesPerSample, rng)
	wav := make([]int, cfg.FramesPerSlice*cfg.HopLength)
	for i := range wav {
		wav[i] = rng.IntN(v.QuantDim())
	}

	scores, err := v.Forward(wav, mel)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != cfg.FramesPerSlice*cfg.HopLength {
		t.Fatalf("%d score steps, want %d", len(scores), cfg.FramesPerSlice*cfg.HopLength)
	}
	for i, s := range scores {
		if len(s) != v.QuantDim() {
			t.Fatalf("step %d has %d scores, want %d", i, len(s), v.QuantDim())
		}
	}
}

func TestForwardShapeErrors(t *testing.T) {
	cfg := testConfig()
	v, err := New(cfg, 2)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(4, 0))
	goodMel := testMel(cfg.FramesPerSample, rng)
	goodWav := make([]int, cfg.FramesPerSlice*cfg.HopLength)

	if _, err := v.Forward(goodWav, testMel(cfg.FramesPerSample-1, rng)); err == nil {
		t.Error("expected error for wrong frame count")
	}
	if _, err := v.Forward(goodWav[:5], goodMel); err == nil {
		t.Error("expected error for wrong waveform length")
	}
	badMel := testMel(cfg.FramesPerSample, rng)
	badMel[3] = badMel[3][:4]
	if _, err := v.Forward(goodWav, badMel); err == nil {
		t.Error("expected error for wrong mel dim")
	}
}

func TestForwardDeterministic(t *testing.T) {
	cfg := testConfig()
	v, err := New(cfg, 5)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(6, 0))
	mel := testMel(cfg.FramesPerSample, rng)
	wav := make([]int, cfg.FramesPerSlice*cfg.HopLength)

	a, err := v.Forward(wav, mel)
	if err != nil {
		t.Fatal(err)
	}
	b, err := v.Forward(wav, mel)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		for k := range a[i] {
			if a[i][k] != b[i][k] {
				t.Fatalf("step %d score %d differs between identical calls", i, k)
			}
		}
	}
}

func TestGenerateLengthAndRange(t *testing.T) {
	cfg := testConfig()
	v, err := New(cfg, 7)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(8, 0))
	for _, frames := range []int{1, 3, 12} {
		wav, err := v.Generate(testMel(frames, rng), 99)
		if err != nil {
			t.Fatal(err)
		}
		if len(wav) != frames*cfg.HopLength {
			t.Fatalf("%d frames: %d samples, want %d", frames, len(wav), frames*cfg.HopLength)
		}
		for i, x := range wav {
			if x < -1 || x > 1 {
				t.Fatalf("%d frames: sample %d = %g outside [-1, 1]", frames, i, x)
			}
		}
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	cfg := testConfig()
	v, err := New(cfg, 7)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(9, 0))
	mel := testMel(6, rng)

	a, err := v.Generate(mel, 1234)
	if err != nil {
		t.Fatal(err)
	}
	b, err := v.Generate(mel, 1234)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs across identically seeded calls", i)
		}
	}
}

func TestGenerateEmptyMel(t *testing.T) {
	v, err := New(testConfig(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Generate(nil, 1); err == nil {
		t.Fatal("expected error for empty mel spectrogram")
	}
}

func TestGenerateBatchMatchesSingle(t *testing.T) {
	cfg := testConfig()
	v, err := New(cfg, 11)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(12, 0))
	mels := [][][]float64{testMel(2, rng), testMel(4, rng), testMel(3, rng)}

	const seed = 777
	batch, err := v.GenerateBatch(mels, seed)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != len(mels) {
		t.Fatalf("%d outputs, want %d", len(batch), len(mels))
	}
	for b := range batch {
		if len(batch[b]) != len(mels[b])*cfg.HopLength {
			t.Fatalf("element %d: %d samples, want %d", b, len(batch[b]), len(mels[b])*cfg.HopLength)
		}
	}
	// element 0 samples from the same stream Generate seeds
	single, err := v.Generate(mels[0], seed)
	if err != nil {
		t.Fatal(err)
	}
	for i := range single {
		if batch[0][i] != single[i] {
			t.Fatalf("sample %d: batch element 0 diverges from Generate", i)
		}
	}
}

func TestForwardBatch(t *testing.T) {
	cfg := testConfig()
	v, err := New(cfg, 13)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(14, 0))
	n := cfg.FramesPerSlice * cfg.HopLength
	mels := [][][]float64{testMel(cfg.FramesPerSample, rng), testMel(cfg.FramesPerSample, rng)}
	wavs := [][]int{make([]int, n), make([]int, n)}
	for b := range wavs {
		for i := range wavs[b] {
			wavs[b][i] = rng.IntN(v.QuantDim())
		}
	}

	batch, err := v.ForwardBatch(wavs, mels)
	if err != nil {
		t.Fatal(err)
	}
	for b := range batch {
		single, err := v.Forward(wavs[b], mels[b])
		if err != nil {
			t.Fatal(err)
		}
		for i := range single {
			for k := range single[i] {
				if batch[b][i][k] != single[i][k] {
					t.Fatalf("element %d step %d score %d diverges from Forward", b, i, k)
				}
			}
		}
	}

	if _, err := v.ForwardBatch(wavs[:1], mels); err == nil {
		t.Error("expected error for mismatched batch sizes")
	}
	badWavs := [][]int{make([]int, n), make([]int, n-1)}
	if _, err := v.ForwardBatch(badWavs, mels); err == nil {
		t.Error("expected error for short waveform in batch")
	}
}
