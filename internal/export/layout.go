// Package export renders captured frames and traces to files.
package export

import (
	"fmt"
	"image/color"

	"github.com/san-kum/pendula/internal/dynamo"
)

// Layout maps simulation units onto an image. The pivot sits at
// (PivotX, PivotY) and y grows downwards in both spaces.
type Layout struct {
	Width, Height  int
	PivotX, PivotY float64
	Scale          float64
}

// DefaultLayout is an 800×500 canvas with the pivot centred 100px from the top.
var DefaultLayout = Layout{Width: 800, Height: 500, PivotX: 400, PivotY: 100, Scale: 1}

// LayoutFor keeps the default pivot placement proportional for any size.
func LayoutFor(width, height int) Layout {
	return Layout{
		Width:  width,
		Height: height,
		PivotX: float64(width) / 2,
		PivotY: float64(height) / 5,
		Scale:  float64(height) / 500,
	}
}

func (l Layout) Project(p dynamo.Point) (x, y float64) {
	return l.PivotX + p.X*l.Scale, l.PivotY + p.Y*l.Scale
}

// Palette of the window and snapshot renderers.
var (
	Background = color.NRGBA{0, 0, 0, 255}
	Fade       = color.NRGBA{0, 0, 0, 102}
	Link1      = color.NRGBA{0, 0, 255, 26}
	Link2      = color.NRGBA{0, 0, 255, 128}
	Joint      = color.NRGBA{77, 255, 0, 230}
	Pivot      = color.NRGBA{0, 255, 0, 255}
)

// SnapshotName returns "frame-" plus the frame number padded to five digits.
func SnapshotName(frame uint64, ext string) string {
	return fmt.Sprintf("frame-%05d.%s", frame, ext)
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}
