package waves_test

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/waves"
)

func demoParams(rows, cols int) waves.Params {
	return waves.Params{Rows: rows, Cols: cols, SpatialStep: 1.0, TimeStep: 0.03, Speed: 3.25, Damping: 0.4}
}

func boundaryHeights(f *waves.Field) []float32 {
	m, n := f.RowCount(), f.ColumnCount()
	var out []float32
	for j := 0; j < n; j++ {
		out = append(out, f.Height(0, j), f.Height(m-1, j))
	}
	for i := 1; i < m-1; i++ {
		out = append(out, f.Height(i, 0), f.Height(i, n-1))
	}
	return out
}

func peakEnergy(f *waves.Field, steps int) float64 {
	peak := 0.0
	for s := 0; s < steps; s++ {
		f.Step()
		peak = math.Max(peak, f.Energy())
	}
	return peak
}

var _ = Describe("Field", func() {
	Describe("Init", func() {
		DescribeTable("reports grid geometry",
			func(m, n int) {
				f, err := waves.New(demoParams(m, n))
				Expect(err).NotTo(HaveOccurred())
				Expect(f.RowCount()).To(Equal(m))
				Expect(f.ColumnCount()).To(Equal(n))
				Expect(f.VertexCount()).To(Equal(m * n))
				Expect(f.TriangleCount()).To(Equal(2 * (m - 1) * (n - 1)))
				Expect(f.Width()).To(BeNumerically("~", float64(n)*1.0, 1e-12))
				Expect(f.Depth()).To(BeNumerically("~", float64(m)*1.0, 1e-12))
			},
			Entry("minimal", 3, 3),
			Entry("wide", 3, 17),
			Entry("tall", 12, 4),
			Entry("demo", 160, 160),
		)

		DescribeTable("rejects invalid parameters",
			func(mutate func(*waves.Params)) {
				p := demoParams(10, 10)
				mutate(&p)
				_, err := waves.New(p)
				Expect(err).To(MatchError(waves.ErrInvalidParams))
			},
			Entry("too few rows", func(p *waves.Params) { p.Rows = 2 }),
			Entry("too few cols", func(p *waves.Params) { p.Cols = 1 }),
			Entry("zero spatial step", func(p *waves.Params) { p.SpatialStep = 0 }),
			Entry("negative time step", func(p *waves.Params) { p.TimeStep = -0.1 }),
			Entry("NaN time step", func(p *waves.Params) { p.TimeStep = math.NaN() }),
			Entry("negative speed", func(p *waves.Params) { p.Speed = -1 }),
			Entry("negative damping", func(p *waves.Params) { p.Damping = -0.5 }),
		)

		It("lays the lattice out centered on the origin", func() {
			f, err := waves.New(waves.Params{Rows: 4, Cols: 6, SpatialStep: 2, TimeStep: 0.03, Speed: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Position(0)).To(Equal(mgl32.Vec3{-5, 0, 3}))
			Expect(f.Position(f.Index(3, 5))).To(Equal(mgl32.Vec3{5, 0, -3}))

			var sx, sz float32
			for k := 0; k < f.VertexCount(); k++ {
				p := f.Position(k)
				sx += p.X()
				sz += p.Z()
				Expect(f.Normal(k)).To(Equal(mgl32.Vec3{0, 1, 0}))
				Expect(f.TangentX(k)).To(Equal(mgl32.Vec3{1, 0, 0}))
			}
			Expect(sx).To(BeNumerically("~", 0, 1e-5))
			Expect(sz).To(BeNumerically("~", 0, 1e-5))
		})

		It("derives the scheme coefficients from the physical parameters", func() {
			f, err := waves.New(demoParams(10, 10))
			Expect(err).NotTo(HaveOccurred())

			e := math.Pow(3.25*0.03/1.0, 2)
			d := 0.4*0.03 + 2
			k1, k2, k3 := f.Coefficients()
			Expect(float64(k1)).To(BeNumerically("~", (0.4*0.03-2)/d, 1e-6))
			Expect(float64(k2)).To(BeNumerically("~", (4-8*e)/d, 1e-6))
			Expect(float64(k3)).To(BeNumerically("~", 2*e/d, 1e-6))
		})

		It("discards previous state when called again", func() {
			f, err := waves.New(demoParams(10, 10))
			Expect(err).NotTo(HaveOccurred())
			f.Disturb(5, 5, 1)
			f.Step()

			Expect(f.Init(demoParams(6, 8))).To(Succeed())
			Expect(f.VertexCount()).To(Equal(48))
			Expect(f.Energy()).To(BeZero())
			Expect(f.Steps()).To(BeZero())
		})
	})

	Describe("Step", func() {
		It("keeps a flat field flat", func() {
			f, err := waves.New(demoParams(12, 9))
			Expect(err).NotTo(HaveOccurred())
			for s := 0; s < 200; s++ {
				f.Step()
			}
			for _, h := range f.Heights() {
				Expect(h).To(BeNumerically("==", 0))
			}
			Expect(f.Normal(f.Index(5, 5))).To(Equal(mgl32.Vec3{0, 1, 0}))
		})

		It("never moves the boundary ring", func() {
			f, err := waves.New(demoParams(16, 14))
			Expect(err).NotTo(HaveOccurred())
			rng := rand.New(rand.NewSource(7))

			for s := 0; s < 300; s++ {
				if s%5 == 0 {
					i := 2 + rng.Intn(f.RowCount()-4)
					j := 2 + rng.Intn(f.ColumnCount()-4)
					f.Disturb(i, j, rng.Float32())
				}
				f.Step()
				for _, h := range boundaryHeights(f) {
					Expect(h).To(BeNumerically("==", 0))
				}
			}
		})

		It("keeps boundary values written by a second-ring disturbance", func() {
			f, err := waves.New(demoParams(8, 8))
			Expect(err).NotTo(HaveOccurred())
			f.Disturb(1, 4, 1)
			Expect(f.Height(0, 4)).To(Equal(float32(0.5)))

			for s := 0; s < 25; s++ {
				f.Step()
				Expect(f.Height(0, 4)).To(Equal(float32(0.5)))
			}
		})

		It("starts spreading a splash after one step", func() {
			f, err := waves.New(demoParams(10, 10))
			Expect(err).NotTo(HaveOccurred())
			_, _, k3 := f.Coefficients()

			f.Disturb(5, 5, 1.0)
			Expect(f.Height(5, 5)).To(Equal(float32(0.5)))
			Expect(f.Height(5, 7)).To(BeNumerically("==", 0))

			f.Step()
			Expect(f.Height(0, 0)).To(BeNumerically("==", 0))
			Expect(f.Height(5, 7)).To(BeNumerically("~", 0.5*k3, 1e-7))
			Expect(f.Height(7, 5)).To(BeNumerically("~", 0.5*k3, 1e-7))
			Expect(f.Height(5, 5)).To(BeNumerically(">", 0.5))

			peak := f.Height(5, 5)
			for s := 0; s < 200; s++ {
				f.Step()
				if h := f.Height(5, 5); h > peak {
					peak = h
				}
			}
			Expect(f.Height(5, 5)).To(BeNumerically("<", peak))
			Expect(f.Height(0, 0)).To(BeNumerically("==", 0))
		})

		It("dissipates energy when damped", func() {
			f, err := waves.New(demoParams(20, 20))
			Expect(err).NotTo(HaveOccurred())
			f.Disturb(10, 10, 1)

			early := peakEnergy(f, 100)
			for s := 0; s < 1400; s++ {
				f.Step()
			}
			late := peakEnergy(f, 100)

			Expect(early).To(BeNumerically(">", 1))
			Expect(late).To(BeNumerically("<", early*1e-3))
		})

		It("keeps energy bounded and alive without damping", func() {
			damped, err := waves.New(demoParams(20, 20))
			Expect(err).NotTo(HaveOccurred())
			p := demoParams(20, 20)
			p.Damping = 0
			undamped, err := waves.New(p)
			Expect(err).NotTo(HaveOccurred())

			damped.Disturb(10, 10, 1)
			undamped.Disturb(10, 10, 1)
			for s := 0; s < 1500; s++ {
				damped.Step()
				undamped.Step()
			}
			dLate := peakEnergy(damped, 300)
			uLate := peakEnergy(undamped, 300)

			Expect(undamped.IsValid()).To(BeTrue())
			Expect(uLate).To(BeNumerically("<", 1e6))
			Expect(uLate).To(BeNumerically(">", 100*dLate))
		})

		It("is deterministic", func() {
			a, err := waves.New(demoParams(24, 18))
			Expect(err).NotTo(HaveOccurred())
			b, err := waves.New(demoParams(24, 18))
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(99))
			for s := 0; s < 150; s++ {
				if s%3 == 0 {
					i, j, mag := 1+rng.Intn(22), 1+rng.Intn(16), rng.Float32()
					a.Disturb(i, j, mag)
					b.Disturb(i, j, mag)
				}
				a.Step()
				b.Step()
			}
			Expect(a.Heights()).To(Equal(b.Heights()))
		})

		It("recomputes unit normals and tangents on the interior only", func() {
			f, err := waves.New(demoParams(10, 10))
			Expect(err).NotTo(HaveOccurred())
			f.Disturb(4, 6, 1)
			for s := 0; s < 5; s++ {
				f.Step()
			}

			for i := 0; i < 10; i++ {
				for j := 0; j < 10; j++ {
					k := f.Index(i, j)
					if i == 0 || j == 0 || i == 9 || j == 9 {
						Expect(f.Normal(k)).To(Equal(mgl32.Vec3{0, 1, 0}))
						Expect(f.TangentX(k)).To(Equal(mgl32.Vec3{1, 0, 0}))
						continue
					}
					Expect(float64(f.Normal(k).Len())).To(BeNumerically("~", 1, 1e-5))
					Expect(float64(f.TangentX(k).Len())).To(BeNumerically("~", 1, 1e-5))
					Expect(f.Normal(k).Y()).To(BeNumerically(">", 0))
				}
			}
		})

		It("tilts the normal away from the higher neighbour", func() {
			f, err := waves.New(demoParams(10, 10))
			Expect(err).NotTo(HaveOccurred())
			f.Disturb(5, 5, 1)
			f.Step()

			Expect(f.Normal(f.Index(5, 5))).To(Equal(mgl32.Vec3{0, 1, 0}))
			// (5,6) has its higher neighbour on the left, so the normal leans +x
			Expect(f.Normal(f.Index(5, 6)).X()).To(BeNumerically(">", 0))
			Expect(f.TangentX(f.Index(5, 6)).Y()).To(BeNumerically("<", 0))
			// (4,5) has its higher neighbour below (larger row, smaller z), so it leans +z
			Expect(f.Normal(f.Index(4, 5)).Z()).To(BeNumerically(">", 0))
		})
	})

	Describe("Update", func() {
		It("steps only once a full time step has accumulated", func() {
			f, err := waves.New(demoParams(10, 10))
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Update(0.02)).To(BeFalse())
			Expect(f.Steps()).To(BeZero())
			Expect(f.Update(0.02)).To(BeTrue())
			Expect(f.Steps()).To(Equal(1))
			Expect(f.Update(0.02)).To(BeFalse())
			Expect(f.Steps()).To(Equal(1))
		})

		It("applies at most one step for a long frame", func() {
			f, err := waves.New(demoParams(10, 10))
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Update(1.0)).To(BeTrue())
			Expect(f.Steps()).To(Equal(1))
			Expect(f.Update(0.001)).To(BeFalse())
		})

		It("matches Step when driven at the internal rate", func() {
			a, err := waves.New(demoParams(12, 12))
			Expect(err).NotTo(HaveOccurred())
			b, err := waves.New(demoParams(12, 12))
			Expect(err).NotTo(HaveOccurred())

			a.Disturb(6, 6, 0.8)
			b.Disturb(6, 6, 0.8)
			for s := 0; s < 40; s++ {
				Expect(a.Update(0.05)).To(BeTrue())
				b.Step()
			}
			Expect(a.Heights()).To(Equal(b.Heights()))
		})
	})

	Describe("Disturb", func() {
		It("adds half the magnitude to a five-point cross", func() {
			f, err := waves.New(demoParams(9, 11))
			Expect(err).NotTo(HaveOccurred())
			f.Disturb(4, 3, 0.6)

			cross := map[[2]int]bool{{4, 3}: true, {3, 3}: true, {5, 3}: true, {4, 2}: true, {4, 4}: true}
			for i := 0; i < 9; i++ {
				for j := 0; j < 11; j++ {
					if cross[[2]int{i, j}] {
						Expect(f.Height(i, j)).To(Equal(float32(0.3)))
					} else {
						Expect(f.Height(i, j)).To(BeNumerically("==", 0))
					}
				}
			}
			Expect(f.Normal(f.Index(4, 3))).To(Equal(mgl32.Vec3{0, 1, 0}))
		})

		It("accumulates repeated splashes", func() {
			f, err := waves.New(demoParams(9, 9))
			Expect(err).NotTo(HaveOccurred())
			f.Disturb(4, 4, 1)
			f.Disturb(4, 5, 1)
			Expect(f.Height(4, 4)).To(Equal(float32(1)))
			Expect(f.Height(4, 5)).To(Equal(float32(1)))
			Expect(f.Height(4, 6)).To(Equal(float32(0.5)))
		})

		DescribeTable("panics on the outer ring instead of clamping",
			func(i, j int) {
				f, err := waves.New(demoParams(6, 6))
				Expect(err).NotTo(HaveOccurred())
				Expect(func() { f.Disturb(i, j, 1) }).To(Panic())
			},
			Entry("top row", 0, 3),
			Entry("bottom row", 5, 3),
			Entry("left column", 3, 0),
			Entry("right column", 3, 5),
			Entry("outside", 9, 9),
		)
	})

	Describe("Index", func() {
		It("flattens row-major", func() {
			f, err := waves.New(demoParams(5, 7))
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Index(0, 0)).To(Equal(0))
			Expect(f.Index(2, 3)).To(Equal(17))
			Expect(f.Index(4, 6)).To(Equal(34))
		})

		It("panics out of range", func() {
			f, err := waves.New(demoParams(5, 7))
			Expect(err).NotTo(HaveOccurred())
			Expect(func() { f.Index(0, 7) }).To(Panic())
			Expect(func() { f.Index(-1, 0) }).To(Panic())
		})
	})

	Describe("Params", func() {
		It("reports the stability bound", func() {
			Expect(waves.DefaultParams().Stable()).To(BeTrue())
			p := waves.DefaultParams()
			p.TimeStep = 0.3
			Expect(p.Courant()).To(BeNumerically("~", 0.975, 1e-9))
			Expect(p.Stable()).To(BeFalse())
		})
	})
})
