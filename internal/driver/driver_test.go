package driver_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/population"
)

type call struct {
	pivot  bool
	joints dynamo.Joints
	point  dynamo.Point
}

type recorder struct {
	calls []call
}

func (r *recorder) DrawBody(j dynamo.Joints) { r.calls = append(r.calls, call{joints: j}) }
func (r *recorder) DrawPivot(p dynamo.Point) { r.calls = append(r.calls, call{pivot: true, point: p}) }

func (r *recorder) bodies() int {
	n := 0
	for _, c := range r.calls {
		if !c.pivot {
			n++
		}
	}
	return n
}

type observerFunc func(driver.Frame)

func (f observerFunc) OnFrame(fr driver.Frame) { f(fr) }

type countMetric struct{ frames, resets int }

func (m *countMetric) OnFrame(driver.Frame) { m.frames++ }
func (m *countMetric) Name() string         { return "frames" }
func (m *countMetric) Value() float64       { return float64(m.frames) }
func (m *countMetric) Reset()               { m.frames = 0; m.resets++ }

var _ = Describe("Driver", func() {
	var (
		cfg config.Params
		d   *driver.Driver
	)

	BeforeEach(func() {
		cfg = config.DefaultParams()
		cfg.N = 10
		var err error
		d, err = driver.New(population.New(), cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects an invalid initial configuration", func() {
		bad := cfg
		bad.T = 0
		_, err := driver.New(population.New(), bad)
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})

	Describe("Tick", func() {
		It("draws each live body in order and then the pivot", func() {
			r := &recorder{}
			f := d.Tick(r)

			Expect(r.calls).To(HaveLen(cfg.N + 1))
			for i := 0; i < cfg.N; i++ {
				Expect(r.calls[i].pivot).To(BeFalse())
				Expect(r.calls[i].joints).To(Equal(f.Joints[i]))
			}
			last := r.calls[cfg.N]
			Expect(last.pivot).To(BeTrue())
			Expect(last.point).To(Equal(dynamo.Origin))
		})

		It("reports joint positions from the stepped state", func() {
			f := d.Tick(nil)
			Expect(f.Bodies).To(HaveLen(cfg.N))
			for i, b := range f.Bodies {
				Expect(f.Joints[i]).To(Equal(b.Joints()))
			}
		})

		It("numbers frames from one", func() {
			Expect(d.Tick(nil).Seq).To(Equal(uint64(1)))
			Expect(d.Tick(nil).Seq).To(Equal(uint64(2)))
			Expect(d.FrameCount()).To(Equal(uint64(2)))
		})

		It("is deterministic for identical configurations", func() {
			other, err := driver.New(population.New(), cfg)
			Expect(err).NotTo(HaveOccurred())
			var a, b driver.Frame
			for i := 0; i < 30; i++ {
				a, b = d.Tick(nil), other.Tick(nil)
			}
			Expect(cmp.Diff(a.Joints, b.Joints)).To(BeEmpty())
		})

		It("notifies observers and metrics", func() {
			var seen []uint64
			d.AddObserver(observerFunc(func(f driver.Frame) { seen = append(seen, f.Seq) }))
			m := &countMetric{}
			d.AddMetric(m)

			d.Tick(nil)
			d.Tick(nil)
			Expect(seen).To(Equal([]uint64{1, 2}))
			Expect(d.Metrics()).To(HaveKeyWithValue("frames", 2.0))
		})
	})

	Describe("OnParameterChanged", func() {
		It("defers the reseed to the next tick", func() {
			next := cfg
			next.N = 4
			Expect(d.OnParameterChanged(next)).To(Succeed())
			Expect(d.Pending()).To(BeTrue())
			Expect(d.Params().N).To(Equal(cfg.N))

			r := &recorder{}
			f := d.Tick(r)
			Expect(f.Reseeded).To(BeTrue())
			Expect(r.bodies()).To(Equal(4))
			Expect(d.Params().N).To(Equal(4))
			Expect(d.Pending()).To(BeFalse())
		})

		It("keeps the current population when rejected", func() {
			d.Tick(nil)
			bad := cfg
			bad.G = 3
			err := d.OnParameterChanged(bad)

			var ce *dynamo.ConfigError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Field).To(Equal("g"))
			Expect(d.Pending()).To(BeFalse())

			r := &recorder{}
			f := d.Tick(r)
			Expect(f.Reseeded).To(BeFalse())
			Expect(r.bodies()).To(Equal(cfg.N))
		})

		It("applies a change requested mid-tick only at the following tick", func() {
			next := cfg
			next.N = 3
			once := sync.Once{}
			d.AddObserver(observerFunc(func(driver.Frame) {
				once.Do(func() { Expect(d.OnParameterChanged(next)).To(Succeed()) })
			}))

			first := d.Tick(nil)
			Expect(first.Joints).To(HaveLen(cfg.N))
			Expect(first.Reseeded).To(BeFalse())

			second := d.Tick(nil)
			Expect(second.Reseeded).To(BeTrue())
			Expect(second.Joints).To(HaveLen(3))
		})

		It("keeps only the latest pending request", func() {
			a, b := cfg, cfg
			a.N, b.N = 2, 7
			Expect(d.OnParameterChanged(a)).To(Succeed())
			Expect(d.OnParameterChanged(b)).To(Succeed())
			Expect(d.Tick(nil).Joints).To(HaveLen(7))
		})

		It("restarts from the seeded state", func() {
			fresh, err := driver.New(population.New(), cfg)
			Expect(err).NotTo(HaveOccurred())
			want := fresh.Tick(nil)

			for i := 0; i < 10; i++ {
				d.Tick(nil)
			}
			Expect(d.OnParameterChanged(cfg)).To(Succeed())
			got := d.Tick(nil)
			Expect(cmp.Diff(want.Bodies, got.Bodies)).To(BeEmpty())
		})

		It("resets metrics on reseed", func() {
			m := &countMetric{}
			d.AddMetric(m)
			d.Tick(nil)
			d.Tick(nil)
			Expect(d.OnParameterChanged(cfg)).To(Succeed())
			d.Tick(nil)
			Expect(m.resets).To(Equal(1))
			Expect(m.Value()).To(Equal(1.0))
		})
	})

	Describe("Run", func() {
		It("ticks the requested number of frames", func() {
			n, err := d.Run(context.Background(), 25, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(25))
			Expect(d.FrameCount()).To(Equal(uint64(25)))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			d.AddObserver(observerFunc(func(f driver.Frame) {
				if f.Seq == 5 {
					cancel()
				}
			}))
			n, err := d.Run(ctx, 100, nil)
			Expect(err).To(MatchError(context.Canceled))
			Expect(n).To(Equal(5))
		})
	})
})
