package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/dynamo"
	"github.com/san-kum/pendula/internal/export"
)

const linkThickness = 1.5

// Renderer draws bodies with raylib primitives. It must only be used
// between BeginTextureMode/EndTextureMode or BeginDrawing/EndDrawing.
type Renderer struct {
	layout export.Layout

	link1, link2 rl.Color
	joint, pivot rl.Color
}

var _ driver.Renderer = (*Renderer)(nil)

func NewRenderer(l export.Layout) *Renderer {
	return &Renderer{
		layout: l,
		link1:  toColor(export.Link1),
		link2:  toColor(export.Link2),
		joint:  toColor(export.Joint),
		pivot:  toColor(export.Pivot),
	}
}

func (r *Renderer) project(p dynamo.Point) rl.Vector2 {
	x, y := r.layout.Project(p)
	return rl.NewVector2(float32(x), float32(y))
}

func (r *Renderer) radius(px float64) float32 {
	return float32(px * r.layout.Scale)
}

func (r *Renderer) DrawBody(j dynamo.Joints) {
	origin := r.project(dynamo.Origin)
	p1 := r.project(j.First())
	p2 := r.project(j.Second())

	rl.DrawLineEx(origin, p1, linkThickness, r.link1)
	rl.DrawLineEx(p1, p2, linkThickness, r.link2)
	rl.DrawCircleV(p1, r.radius(driver.JointRadius1), r.joint)
	rl.DrawCircleV(p2, r.radius(driver.JointRadius2), r.joint)
}

func (r *Renderer) DrawPivot(p dynamo.Point) {
	rl.DrawCircleV(r.project(p), r.radius(driver.PivotRadius), r.pivot)
}

func toColor(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
