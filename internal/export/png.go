package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/dynamo"
)

// one point per pixel
const pixelDPI = 72

// WriteFramePNG rasterizes f with the same styling as FrameToSVG.
func WriteFramePNG(w io.Writer, f driver.Frame, l Layout) error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", l.Width, l.Height)
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(l.Width), vg.Length(l.Height)),
		vgimg.UseDPI(pixelDPI),
		vgimg.UseBackgroundColor(Background),
	)

	// vg puts the origin bottom-left
	at := func(p dynamo.Point) vg.Point {
		x, y := l.Project(p)
		return vg.Point{X: vg.Length(x), Y: vg.Length(float64(l.Height) - y)}
	}

	pivot := at(dynamo.Origin)
	c.SetLineWidth(vg.Points(1))
	for _, j := range f.Joints {
		p1, p2 := at(j.First()), at(j.Second())
		strokeLine(c, pivot, p1, Link1)
		strokeLine(c, p1, p2, Link2)
		fillCircle(c, p1, driver.JointRadius1*l.Scale, Joint)
		fillCircle(c, p2, driver.JointRadius2*l.Scale, Joint)
	}
	fillCircle(c, pivot, driver.PivotRadius*l.Scale, Pivot)

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func strokeLine(c vg.Canvas, a, b vg.Point, col color.Color) {
	var p vg.Path
	p.Move(a)
	p.Line(b)
	c.SetColor(col)
	c.Stroke(p)
}

func fillCircle(c vg.Canvas, center vg.Point, r float64, col color.Color) {
	rad := vg.Length(r)
	var p vg.Path
	p.Move(vg.Point{X: center.X + rad, Y: center.Y})
	p.Arc(center, rad, 0, 2*math.Pi)
	p.Close()
	c.SetColor(col)
	c.Fill(p)
}

// WriteSeriesPNG plots ys against the sample index as a line chart.
func WriteSeriesPNG(w io.Writer, title, ylabel string, ys []float64, widthIn, heightIn float64) error {
	if len(ys) == 0 {
		return fmt.Errorf("plot data invalid")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "frame"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i].X = float64(i)
		pts[i].Y = y
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.NRGBA{0, 0, 255, 255}
	p.Add(line)

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
