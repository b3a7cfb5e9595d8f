package analysis

import "strings"

// Trace indices for portrait axes.
const (
	A1 = iota
	A2
	V1
	V2
)

var axisNames = [...]string{"a1", "a2", "v1", "v2"}

// AxisIndex maps "a1", "a2", "v1" or "v2" to its trace index.
func AxisIndex(name string) (int, bool) {
	for i, n := range axisNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

type PhasePoint struct{ X, Y float64 }

// PhasePortrait2D is a trace projected onto two of (a1, a2, v1, v2).
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []PhasePoint
}

// NewPhasePortrait projects trace onto the xIdx/yIdx axes.
func NewPhasePortrait(trace [][4]float64, xIdx, yIdx int) *PhasePortrait2D {
	if xIdx < 0 || xIdx > 3 || yIdx < 0 || yIdx > 3 {
		return nil
	}
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]PhasePoint, 0, len(trace)),
	}
	for _, x := range trace {
		portrait.Points = append(portrait.Points, PhasePoint{X: x[xIdx], Y: x[yIdx]})
	}
	return portrait
}

// ToASCII plots the portrait on a width × height grid of runes, with axes
// where zero is in view.
func (portrait *PhasePortrait2D) ToASCII(width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 1 || height < 1 {
		return ""
	}

	xs, ys := bounds(portrait.Points)
	toCol := func(x float64) int { return int((x - xs.lo) / xs.span() * float64(width-1)) }
	toRow := func(y float64) int { return height - 1 - int((y-ys.lo)/ys.span()*float64(height-1)) }

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	plot := func(r, c int, ch rune, overwrite bool) {
		if r < 0 || r >= height || c < 0 || c >= width {
			return
		}
		if overwrite || grid[r][c] == ' ' {
			grid[r][c] = ch
		}
	}

	for _, p := range portrait.Points {
		plot(toRow(p.Y), toCol(p.X), '•', true)
	}
	if xs.lo <= 0 && xs.hi >= 0 {
		c := toCol(0)
		for r := 0; r < height; r++ {
			plot(r, c, '│', false)
		}
	}
	if ys.lo <= 0 && ys.hi >= 0 {
		r := toRow(0)
		for c := 0; c < width; c++ {
			plot(r, c, '─', false)
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

type interval struct{ lo, hi float64 }

func (iv interval) span() float64 { return iv.hi - iv.lo }

// bounds returns the x and y extents of pts widened by 10% on each side.
func bounds(pts []PhasePoint) (interval, interval) {
	xs := interval{pts[0].X, pts[0].X}
	ys := interval{pts[0].Y, pts[0].Y}
	for _, p := range pts[1:] {
		xs.lo, xs.hi = min(xs.lo, p.X), max(xs.hi, p.X)
		ys.lo, ys.hi = min(ys.lo, p.Y), max(ys.hi, p.Y)
	}
	pad := func(iv interval) interval {
		w := iv.span()
		if w == 0 {
			w = 1
		}
		return interval{iv.lo - w*0.1, iv.hi + w*0.1}
	}
	return pad(xs), pad(ys)
}

// PoincareSection holds the (a2, v2) pairs recorded each time a1 crosses
// zero moving in the positive direction.
type PoincareSection struct {
	Points []PhasePoint
}

// NewPoincareSection scans trace for upward zero crossings of a1 and
// linearly interpolates a2 and v2 at the crossing.
func NewPoincareSection(trace [][4]float64) *PoincareSection {
	section := &PoincareSection{}
	for i := 1; i < len(trace); i++ {
		prev, curr := trace[i-1], trace[i]
		if !(prev[A1] < 0 && curr[A1] >= 0) {
			continue
		}
		frac := -prev[A1] / (curr[A1] - prev[A1])
		section.Points = append(section.Points, PhasePoint{
			X: prev[A2] + frac*(curr[A2]-prev[A2]),
			Y: prev[V2] + frac*(curr[V2]-prev[V2]),
		})
	}
	return section
}

func (section *PoincareSection) ToASCII(width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return (&PhasePortrait2D{Points: section.Points}).ToASCII(width, height)
}
