package gui

import (
	"fmt"

	"github.com/san-kum/pendula/internal/config"
	"github.com/san-kum/pendula/internal/driver"
)

// panelLines formats one row per editable field, marking the selected one.
func panelLines(p config.Params, selected int) []string {
	lines := make([]string, len(config.Fields))
	for i, name := range config.Fields {
		v, _ := p.Get(name)
		marker := "  "
		if i == selected {
			marker = "> "
		}
		if config.Ranges[name].Integer {
			lines[i] = fmt.Sprintf("%s%-3s %6d", marker, name, int(v))
		} else {
			lines[i] = fmt.Sprintf("%s%-3s %6.2f", marker, name, v)
		}
	}
	return lines
}

func countLive(f driver.Frame) int {
	n := 0
	for _, faulted := range f.Faulted {
		if !faulted {
			n++
		}
	}
	return n
}

// normalize maps a series onto a width×height box at (x, y), larger values
// drawn higher. A flat series sits on the bottom edge.
func normalize(vals []float64, x, y, width, height float32) [][2]float32 {
	if len(vals) < 2 {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	pts := make([][2]float32, len(vals))
	for i, v := range vals {
		px := x + float32(i)/float32(len(vals)-1)*width
		py := y + height - float32((v-lo)/span)*height
		pts[i] = [2]float32{px, py}
	}
	return pts
}
