package rain

import (
	"testing"
)

type splash struct {
	i, j int
	mag  float32
}

type recorder struct {
	rows, cols int
	splashes   []splash
}

func (r *recorder) RowCount() int    { return r.rows }
func (r *recorder) ColumnCount() int { return r.cols }
func (r *recorder) Disturb(i, j int, magnitude float32) {
	r.splashes = append(r.splashes, splash{i, j, magnitude})
}

func TestRandomCadence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = 0.25
	src := NewRandom(cfg)
	rec := &recorder{rows: 40, cols: 40}

	if n := src.Emit(rec, 0.1); n != 0 {
		t.Errorf("expected no splash before interval, got %d", n)
	}
	if n := src.Emit(rec, 0.2); n != 1 {
		t.Errorf("expected one splash, got %d", n)
	}
	if n := src.Emit(rec, 0.5); n != 2 {
		t.Errorf("expected two splashes for a long frame, got %d", n)
	}
	if len(rec.splashes) != 3 {
		t.Errorf("expected 3 recorded splashes, got %d", len(rec.splashes))
	}
}

func TestRandomBounds(t *testing.T) {
	cfg := Config{Interval: 0.01, Margin: 5, MinMagnitude: 0.2, MaxMagnitude: 0.4, Seed: 3}
	src := NewRandom(cfg)
	rec := &recorder{rows: 30, cols: 20}

	for i := 0; i < 100; i++ {
		src.Emit(rec, 0.05)
	}

	if len(rec.splashes) == 0 {
		t.Fatal("expected splashes")
	}
	for _, s := range rec.splashes {
		if s.i < 5 || s.i >= 25 || s.j < 5 || s.j >= 15 {
			t.Errorf("splash (%d,%d) outside margin", s.i, s.j)
		}
		if s.mag < 0.2 || s.mag > 0.4 {
			t.Errorf("magnitude %f outside range", s.mag)
		}
	}
}

func TestRandomSmallGrid(t *testing.T) {
	src := NewRandom(Config{Interval: 0.1, Margin: 5, MaxMagnitude: 1})
	rec := &recorder{rows: 3, cols: 4}

	for i := 0; i < 20; i++ {
		src.Emit(rec, 0.1)
	}

	for _, s := range rec.splashes {
		if s.i != 1 || s.j < 1 || s.j > 2 {
			t.Errorf("splash (%d,%d) touches the outer ring", s.i, s.j)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	cfg := Config{Interval: 0.05, Margin: 2, MaxMagnitude: 1, Seed: 42}
	a, b := &recorder{rows: 50, cols: 50}, &recorder{rows: 50, cols: 50}
	srcA, srcB := NewRandom(cfg), NewRandom(cfg)

	for i := 0; i < 30; i++ {
		srcA.Emit(a, 1.0/60)
		srcB.Emit(b, 1.0/60)
	}

	if len(a.splashes) != len(b.splashes) {
		t.Fatalf("splash counts differ: %d vs %d", len(a.splashes), len(b.splashes))
	}
	for i := range a.splashes {
		if a.splashes[i] != b.splashes[i] {
			t.Errorf("splash %d differs: %v vs %v", i, a.splashes[i], b.splashes[i])
		}
	}
}

func TestNoiseMagnitudeRange(t *testing.T) {
	src := NewNoise(Config{Interval: 0.02, Margin: 3, MinMagnitude: 0.1, MaxMagnitude: 0.9, Seed: 11}, 0.05)
	rec := &recorder{rows: 64, cols: 64}

	for i := 0; i < 60; i++ {
		src.Emit(rec, 1.0/30)
	}

	if len(rec.splashes) == 0 {
		t.Fatal("expected splashes")
	}
	for _, s := range rec.splashes {
		if s.mag < 0.1-1e-6 || s.mag > 0.9+1e-6 {
			t.Errorf("magnitude %f outside range", s.mag)
		}
	}
}

func TestNone(t *testing.T) {
	rec := &recorder{rows: 10, cols: 10}
	if n := NewNone().Emit(rec, 10); n != 0 || len(rec.splashes) != 0 {
		t.Error("expected no splashes")
	}
}

func TestZeroIntervalNeverEmits(t *testing.T) {
	src := NewRandom(Config{Margin: 1, MaxMagnitude: 1})
	rec := &recorder{rows: 10, cols: 10}
	if n := src.Emit(rec, 1); n != 0 {
		t.Errorf("expected no splash with zero interval, got %d", n)
	}
}

func TestNoiseFrequencyShapesMagnitudes(t *testing.T) {
	cfg := Config{Interval: 0.05, Margin: 3, MaxMagnitude: 1, Seed: 5}
	low, high := &recorder{rows: 64, cols: 64}, &recorder{rows: 64, cols: 64}
	srcLow, srcHigh := NewNoise(cfg, 0.01), NewNoise(cfg, 0.5)

	if srcLow.noise.Frequency != 0.01 || srcHigh.noise.Frequency != 0.5 {
		t.Fatalf("frequency not applied: %f, %f", srcLow.noise.Frequency, srcHigh.noise.Frequency)
	}

	for i := 0; i < 20; i++ {
		srcLow.Emit(low, 0.05)
		srcHigh.Emit(high, 0.05)
	}
	if len(low.splashes) != len(high.splashes) {
		t.Fatalf("splash counts differ: %d vs %d", len(low.splashes), len(high.splashes))
	}

	differ := false
	for i := range low.splashes {
		if low.splashes[i].i != high.splashes[i].i || low.splashes[i].j != high.splashes[i].j {
			t.Fatalf("splash %d position differs with the same seed", i)
		}
		if low.splashes[i].mag != high.splashes[i].mag {
			differ = true
		}
	}
	if !differ {
		t.Error("expected frequency to change magnitudes")
	}
}
