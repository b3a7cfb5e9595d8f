package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Braille dot grid of Width×Height cells, i.e. (Width*2)×(Height*4)
// dots. Every dot carries a lifetime so that old frames fade out instead of
// being cleared at once.
type Canvas struct {
	Width, Height int
	Persist       uint8
	life          [][]uint8 // per dot, indexed [y][x]
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Persist: 1,
		life:    make([][]uint8, h*4),
	}
	for i := range c.life {
		c.life[i] = make([]uint8, w*2)
	}
	return c
}

// Dots returns the canvas size in dot coordinates.
func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y) for Persist frames.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || y >= len(c.life) || x >= len(c.life[y]) {
		return
	}
	c.life[y][x] = c.Persist
}

func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || y >= len(c.life) || x >= len(c.life[y]) {
		return false
	}
	return c.life[y][x] > 0
}

// Fade ages every dot by one frame.
func (c *Canvas) Fade() {
	for _, row := range c.life {
		for x, l := range row {
			if l > 0 {
				row[x] = l - 1
			}
		}
	}
}

func (c *Canvas) Clear() {
	for _, row := range c.life {
		for x := range row {
			row[x] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm. When every > 1 only
// every n-th dot is set, which reads as a fainter line.
func (c *Canvas) DrawLine(x0, y0, x1, y1, every int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for i := 0; ; i++ {
		if every <= 1 || i%every == 0 {
			c.Set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle sets every dot within r of (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// Cell returns the Braille rune of one character cell.
func (c *Canvas) Cell(col, row int) rune {
	r := rune(blank)
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			if c.Lit(col*2+dx, row*4+dy) {
				r |= rune(pixelMap[dy][dx])
			}
		}
	}
	return r
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(c.Cell(col, row))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
