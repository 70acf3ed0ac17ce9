package rain

import (
	"math/rand"

	"github.com/furui/fastnoiselite-go"
)

// Disturber is the write side of a wave field.
type Disturber interface {
	RowCount() int
	ColumnCount() int
	Disturb(i, j int, magnitude float32)
}

// Source injects disturbances once per frame, before the field updates.
type Source interface {
	Name() string
	Emit(f Disturber, frameDt float64) int
}

type Config struct {
	Interval     float64
	Margin       int
	MinMagnitude float64
	MaxMagnitude float64
	Seed         int64
}

// DefaultConfig drops a splash every quarter second, five cells away from the edges.
func DefaultConfig() Config {
	return Config{Interval: 0.25, Margin: 5, MinMagnitude: 0, MaxMagnitude: 1}
}

type None struct{}

func NewNone() *None                            { return &None{} }
func (n *None) Name() string                    { return "none" }
func (n *None) Emit(_ Disturber, _ float64) int { return 0 }

// Random drops splashes at uniformly chosen points with uniform magnitude.
type Random struct {
	cfg     Config
	rng     *rand.Rand
	elapsed float64
}

func NewRandom(cfg Config) *Random {
	return &Random{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Emit(f Disturber, frameDt float64) int {
	return emit(&r.elapsed, r.cfg, f, frameDt, func() (int, int, bool) {
		return pick(r.rng, r.cfg.Margin, f)
	}, func(_, _ int) float64 {
		return r.rng.Float64()
	})
}

// Noise drops splashes like Random but scales each magnitude by fractal
// noise sampled at the splash position and time, so storms cluster.
type Noise struct {
	cfg     Config
	rng     *rand.Rand
	noise   *fastnoiselite.FastNoiseLite
	offset  float64
	clock   float64
	elapsed float64
}

func NewNoise(cfg Config, frequency float64) *Noise {
	n := fastnoiselite.NewNoise()
	n.SetNoiseType(fastnoiselite.NoiseTypeOpenSimplex2)
	n.FractalType = fastnoiselite.FractalTypeFBm
	n.Frequency = frequency
	n.SetFractalOctaves(3)

	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Noise{cfg: cfg, rng: rng, noise: n, offset: rng.Float64() * 1000}
}

func (n *Noise) Name() string { return "noise" }

func (n *Noise) Emit(f Disturber, frameDt float64) int {
	n.clock += frameDt
	return emit(&n.elapsed, n.cfg, f, frameDt, func() (int, int, bool) {
		return pick(n.rng, n.cfg.Margin, f)
	}, func(i, j int) float64 {
		v := n.noise.GetNoise2D(
			fastnoiselite.FNLfloat(float64(j)+n.offset),
			fastnoiselite.FNLfloat(float64(i)+n.clock*10),
		)
		return clamp01((float64(v) + 1) / 2)
	})
}

func emit(elapsed *float64, cfg Config, f Disturber, frameDt float64, at func() (int, int, bool), weight func(i, j int) float64) int {
	if cfg.Interval <= 0 {
		return 0
	}
	*elapsed += frameDt
	count := 0
	for *elapsed >= cfg.Interval {
		*elapsed -= cfg.Interval
		i, j, ok := at()
		if !ok {
			continue
		}
		mag := cfg.MinMagnitude + weight(i, j)*(cfg.MaxMagnitude-cfg.MinMagnitude)
		f.Disturb(i, j, float32(mag))
		count++
	}
	return count
}

// pick chooses i in [margin, rows-margin) and j likewise, shrinking the
// margin to keep splashes off the outer ring on small grids.
func pick(rng *rand.Rand, margin int, f Disturber) (int, int, bool) {
	i, okI := pickAxis(rng, margin, f.RowCount())
	j, okJ := pickAxis(rng, margin, f.ColumnCount())
	return i, j, okI && okJ
}

func pickAxis(rng *rand.Rand, margin, size int) (int, bool) {
	if margin < 1 {
		margin = 1
	}
	if size-2*margin < 1 {
		margin = 1
	}
	span := size - 2*margin
	if span < 1 {
		return 0, false
	}
	return margin + rng.Intn(span), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
