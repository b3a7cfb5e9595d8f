package population

import (
	"errors"
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/physics"
)

func seeded(cfg config.Params) *Population {
	p := New()
	Expect(p.Seed(cfg)).To(Succeed())
	return p
}

var _ = Describe("Lerp", func() {
	It("maps the source interval linearly", func() {
		Expect(Lerp(0, 0, 10, 0, 1)).To(Equal(0.0))
		Expect(Lerp(5, 0, 10, 0, 1)).To(Equal(0.5))
		Expect(Lerp(10, 0, 10, 2, 4)).To(Equal(4.0))
	})
})

var _ = Describe("Population", func() {
	var cfg config.Params

	BeforeEach(func() {
		cfg = config.DefaultParams()
	})

	Describe("Seed", func() {
		It("creates exactly N bodies", func() {
			for _, n := range []int{1, 2, 50, 100} {
				cfg.N = n
				Expect(seeded(cfg).Len()).To(Equal(n))
			}
		})

		It("accepts N = 0 and yields an empty population", func() {
			cfg.N = 0
			p := seeded(cfg)
			Expect(p.Len()).To(BeZero())
			Expect(p.Joints()).To(BeEmpty())
			Expect(p.StepAll(cfg.T, cfg.S)).To(BeEmpty())
		})

		It("spreads a2 linearly over [0, 0.0001)", func() {
			cfg.N = 40
			p := seeded(cfg)

			prev := math.Inf(-1)
			for i, b := range p.Bodies() {
				offset := b.A2 - cfg.A2
				Expect(offset).To(BeNumerically("~", PhaseSpread*float64(i)/float64(cfg.N), 1e-14))
				Expect(b.A2).To(BeNumerically(">", prev))
				prev = b.A2
			}
			Expect(p.Body(0).A2).To(Equal(cfg.A2))
		})

		It("shares every other field across bodies", func() {
			cfg.N = 5
			cfg.V1, cfg.V2 = 1.5, -2
			for _, b := range seeded(cfg).Bodies() {
				Expect(b.M1).To(Equal(cfg.M1))
				Expect(b.M2).To(Equal(cfg.M2))
				Expect(b.L1).To(Equal(cfg.L1))
				Expect(b.L2).To(Equal(cfg.L2))
				Expect(b.A1).To(Equal(cfg.A1))
				Expect(b.V1).To(Equal(0.015))
				Expect(b.V2).To(Equal(-0.02))
			}
		})

		It("scales gravity by 1/S²", func() {
			for s := 1; s <= 5; s++ {
				cfg.S = s
				for _, b := range seeded(cfg).Bodies() {
					Expect(b.G).To(Equal(cfg.G / float64(s*s)))
				}
			}
		})

		It("changes only gravity when only S changes", func() {
			a := seeded(cfg).Bodies()
			cfg.S = 1
			b := seeded(cfg).Bodies()

			for i := range a {
				Expect(b[i].G).To(Equal(cfg.G))
				a[i].G, b[i].G = 0, 0
			}
			Expect(cmp.Diff(a, b)).To(BeEmpty())
		})

		It("is idempotent", func() {
			p := New()
			Expect(p.Seed(cfg)).To(Succeed())
			once := p.Bodies()
			Expect(p.Seed(cfg)).To(Succeed())
			Expect(cmp.Diff(once, p.Bodies())).To(BeEmpty())
		})

		It("keeps the previous population when rejected", func() {
			p := seeded(cfg)
			p.StepAll(cfg.T, cfg.S)
			before := p.Bodies()

			bad := cfg
			bad.N = 3
			bad.L2 = 0
			err := p.Seed(bad)

			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
			var ce *dynamo.ConfigError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Field).To(Equal("l2"))
			Expect(p.Len()).To(Equal(cfg.N))
			Expect(cmp.Diff(before, p.Bodies())).To(BeEmpty())
		})

		DescribeTable("rejects invalid shared settings",
			func(edit func(*config.Params), field string) {
				edit(&cfg)
				var ce *dynamo.ConfigError
				Expect(errors.As(New().Seed(cfg), &ce)).To(BeTrue())
				Expect(ce.Field).To(Equal(field))
			},
			Entry("negative N", func(c *config.Params) { c.N = -1 }, "n"),
			Entry("zero quality", func(c *config.Params) { c.S = 0 }, "s"),
			Entry("zero mass", func(c *config.Params) { c.M1 = 0 }, "m1"),
			Entry("zero workers", func(c *config.Params) { c.Workers = 0 }, "workers"),
			Entry("unknown stepper", func(c *config.Params) { c.Stepper = "leapfrog" }, "stepper"),
		)
	})

	Describe("StepAll", func() {
		It("runs passes × substeps integrator work per body", func() {
			cfg.N = 1
			p := seeded(cfg)
			p.StepAll(5, 3)

			ref, err := physics.NewDoublePendulum(cfg.M1, cfg.M2, cfg.L1, cfg.L2,
				cfg.A1, cfg.A2, cfg.V1/100, cfg.V2/100, cfg.G/9)
			Expect(err).NotTo(HaveOccurred())
			for pass := 0; pass < 3; pass++ {
				Expect(New().stepper.Advance(ref, 5)).To(Succeed())
			}
			Expect(p.Body(0)).To(Equal(*ref))
		})

		It("keeps a resting body at rest", func() {
			cfg.N = 1
			cfg.M1, cfg.M2 = 1, 1
			cfg.L1, cfg.L2 = 100, 100
			cfg.A1, cfg.A2 = 0, 0
			cfg.V1, cfg.V2 = 0, 0
			cfg.G = 0
			p := seeded(cfg)

			for frame := 0; frame < 200; frame++ {
				Expect(p.StepAll(cfg.T, cfg.S)).To(BeEmpty())
			}
			body := p.Body(0)
			Expect(body.Dynamic()).To(Equal([4]float64{0, 0, 0, 0}))
		})

		It("is deterministic across populations", func() {
			a, b := seeded(cfg), seeded(cfg)
			schedule := [][2]int{{5, 3}, {1, 1}, {10, 5}, {3, 2}}
			for _, ts := range schedule {
				a.StepAll(ts[0], ts[1])
				b.StepAll(ts[0], ts[1])
			}
			Expect(cmp.Diff(a.Bodies(), b.Bodies())).To(BeEmpty())
		})

		It("lets nearby bodies diverge", func() {
			cfg.N = 2
			p := seeded(cfg)
			start := math.Abs(p.Body(1).A2 - p.Body(0).A2)
			for frame := 0; frame < 2000; frame++ {
				p.StepAll(cfg.T, cfg.S)
			}
			Expect(math.Abs(p.Body(1).A2 - p.Body(0).A2)).To(BeNumerically(">", start))
		})

		It("matches serial results when fanned out", func() {
			cfg.N = 100
			serial := seeded(cfg)
			cfg.Workers = 4
			parallel := seeded(cfg)

			for frame := 0; frame < 20; frame++ {
				serial.StepAll(cfg.T, cfg.S)
				parallel.StepAll(cfg.T, cfg.S)
			}
			Expect(cmp.Diff(serial.Bodies(), parallel.Bodies())).To(BeEmpty())
		})

		It("completes at both accuracy extremes for N = 100", func() {
			cfg.N = 100
			for _, t := range []int{1, 10} {
				cfg.T = t
				p := seeded(cfg)
				Expect(p.StepAll(cfg.T, cfg.S)).To(BeEmpty())
				Expect(p.Live()).To(Equal(100))
			}
		})

		It("ignores non-positive work requests", func() {
			p := seeded(cfg)
			before := p.Bodies()
			Expect(p.StepAll(0, 3)).To(BeNil())
			Expect(p.StepAll(5, 0)).To(BeNil())
			Expect(cmp.Diff(before, p.Bodies())).To(BeEmpty())
		})

		Context("when one body overflows", func() {
			var p *Population

			BeforeEach(func() {
				cfg.N = 3
				p = seeded(cfg)
				p.bodies[1].V1 = 1e200
			})

			It("reports the fault once and isolates the body", func() {
				faults := p.StepAll(cfg.T, cfg.S)
				Expect(faults).To(HaveLen(1))
				Expect(faults[0].Body).To(Equal(1))
				Expect(errors.Is(faults[0], dynamo.ErrNumericFault)).To(BeTrue())

				Expect(p.Faulted(1)).To(BeTrue())
				Expect(p.Live()).To(Equal(2))
				Expect(p.Joints()).To(HaveLen(2))

				frozen := p.Body(1)
				Expect(p.StepAll(cfg.T, cfg.S)).To(BeEmpty())
				after := p.Body(1)
				Expect(after.Dynamic()).To(Equal(frozen.Dynamic()))
			})

			It("keeps stepping the healthy bodies", func() {
				before := p.Body(0)
				p.StepAll(cfg.T, cfg.S)
				Expect(p.Body(0).A1).NotTo(Equal(before.A1))
				healthy := p.Body(2)
				Expect(healthy.Finite()).To(BeTrue())
			})

			It("clears the fault on reseed", func() {
				p.StepAll(cfg.T, cfg.S)
				Expect(p.Seed(cfg)).To(Succeed())
				Expect(p.Live()).To(Equal(3))
			})
		})
	})
})
