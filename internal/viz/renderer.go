package viz

import (
	"math"

	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/dynamo"
)

// CanvasRenderer draws driver frames onto a Braille canvas. The pivot sits
// horizontally centred, a fifth of the way down.
type CanvasRenderer struct {
	canvas *Canvas
	scale  float64
	px, py int
}

var _ driver.Renderer = (*CanvasRenderer)(nil)

func NewCanvasRenderer(c *Canvas, reach float64) *CanvasRenderer {
	r := &CanvasRenderer{canvas: c}
	r.Fit(reach)
	return r
}

// Fit picks a scale so that a body of total arm length reach stays on the
// canvas in every orientation.
func (r *CanvasRenderer) Fit(reach float64) {
	w, h := r.canvas.Dots()
	r.px, r.py = w/2, h/5
	room := math.Min(float64(w)/2, float64(h-r.py))
	if reach <= 0 {
		reach = 1
	}
	r.scale = math.Max(room-1, 1) / reach
}

func (r *CanvasRenderer) Scale() float64 { return r.scale }

func (r *CanvasRenderer) project(p dynamo.Point) (int, int) {
	return r.px + int(math.Round(p.X*r.scale)), r.py + int(math.Round(p.Y*r.scale))
}

// marker radius in dots, never below one
func (r *CanvasRenderer) radius(screen float64) int {
	return int(math.Max(1, math.Round(screen*r.scale)))
}

func (r *CanvasRenderer) DrawBody(j dynamo.Joints) {
	x0, y0 := r.project(dynamo.Origin)
	x1, y1 := r.project(j.First())
	x2, y2 := r.project(j.Second())

	r.canvas.DrawLine(x0, y0, x1, y1, 3)
	r.canvas.DrawLine(x1, y1, x2, y2, 1)
	r.canvas.FillCircle(x1, y1, r.radius(driver.JointRadius1))
	r.canvas.FillCircle(x2, y2, r.radius(driver.JointRadius2))
}

func (r *CanvasRenderer) DrawPivot(p dynamo.Point) {
	x, y := r.project(p)
	r.canvas.FillCircle(x, y, r.radius(driver.PivotRadius))
}
