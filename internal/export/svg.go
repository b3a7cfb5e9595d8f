package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/pendula/internal/analysis"
	"github.com/san-kum/pendula/internal/driver"
	"github.com/san-kum/pendula/internal/dynamo"
)

// FrameToSVG draws every live body of f followed by the pivot.
func FrameToSVG(f driver.Frame, l Layout) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, l.Width, l.Height, l.Width, l.Height, hex(Background)))

	px, py := l.Project(dynamo.Origin)
	r1 := driver.JointRadius1 * l.Scale
	r2 := driver.JointRadius2 * l.Scale

	for _, j := range f.Joints {
		x1, y1 := l.Project(j.First())
		x2, y2 := l.Project(j.Second())
		line(&sb, px, py, x1, y1, Link1)
		line(&sb, x1, y1, x2, y2, Link2)
		circle(&sb, x1, y1, r1, Joint)
		circle(&sb, x2, y2, r2, Joint)
	}
	circle(&sb, px, py, driver.PivotRadius*l.Scale, Pivot)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func line(sb *strings.Builder, x1, y1, x2, y2 float64, c color.NRGBA) {
	sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.2f"/>
`, x1, y1, x2, y2, hex(c), opacity(c)))
}

func circle(sb *strings.Builder, cx, cy, r float64, c color.NRGBA) {
	sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.2f"/>
`, cx, cy, r, hex(c), opacity(c)))
}

// TrajectoryToSVG creates an SVG path from phase-space points.
func TrajectoryToSVG(points []analysis.PhasePoint, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, hex(Background), strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
