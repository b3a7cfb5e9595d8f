package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/integrators"
	"github.com/san-kum/pendula/internal/physics"
)

// DivergenceRate estimates the largest Lyapunov exponent of body, in units
// of 1/frame, by following a copy whose a2 is offset by perturbation. Each
// frame advances both copies by passes × substeps, then the copy is pulled
// back along the separation to the initial distance.
func DivergenceRate(
	body physics.DoublePendulum,
	stepper integrators.Stepper,
	substeps, passes, frames int,
	perturbation float64,
) (float64, error) {
	if frames < 1 || perturbation <= 0 {
		return 0, fmt.Errorf("frames and perturbation must be positive")
	}

	x := body
	xp := body
	xp.A2 += perturbation
	d0 := perturbation

	sumLog := 0.0

	for f := 0; f < frames; f++ {
		for p := 0; p < passes; p++ {
			if err := stepper.Advance(&x, substeps); err != nil {
				return 0, fmt.Errorf("frame %d: %w", f, err)
			}
			if err := stepper.Advance(&xp, substeps); err != nil {
				return 0, fmt.Errorf("frame %d (perturbed): %w", f, err)
			}
		}

		sep := separation(x, xp)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		xp.A1 = x.A1 + (xp.A1-x.A1)*scale
		xp.A2 = x.A2 + (xp.A2-x.A2)*scale
		xp.V1 = x.V1 + (xp.V1-x.V1)*scale
		xp.V2 = x.V2 + (xp.V2-x.V2)*scale
	}

	return sumLog / float64(frames), nil
}

func separation(a, b physics.DoublePendulum) float64 {
	da, db := a.Dynamic(), b.Dynamic()
	sum := 0.0
	for i := range da {
		d := db[i] - da[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// SweepPoint is the divergence rate measured at one parameter value.
type SweepPoint struct {
	Param float64
	Rate  float64
	Err   error
}

// Sweep seeds body 0 of cfg for each of steps values of field spread over
// [lo, hi] and measures its divergence rate.
func Sweep(cfg config.Params, field string, lo, hi float64, steps, frames int) ([]SweepPoint, error) {
	if steps < 2 {
		steps = 2
	}
	stepper, err := integrators.Lookup(cfg.Stepper)
	if err != nil {
		return nil, err
	}

	out := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		v := lo + (hi-lo)*float64(i)/float64(steps-1)
		c, err := cfg.With(field, v)
		if err != nil {
			return nil, err
		}
		quality := float64(c.S)
		body, err := physics.NewDoublePendulum(c.M1, c.M2, c.L1, c.L2,
			c.A1, c.A2, c.V1/100, c.V2/100, c.G/(quality*quality))
		if err != nil {
			out = append(out, SweepPoint{Param: v, Err: err})
			continue
		}
		rate, err := DivergenceRate(*body, stepper, c.T, c.S, frames, 1e-8)
		out = append(out, SweepPoint{Param: v, Rate: rate, Err: err})
	}
	return out, nil
}
