package dynamo

import "math"

// Point is a position in simulation units, origin at the shared pivot,
// y growing downwards.
type Point struct {
	X, Y float64
}

// Joints holds both joint positions of one body.
type Joints struct {
	X1, Y1 float64
	X2, Y2 float64
}

func (j Joints) First() Point  { return Point{j.X1, j.Y1} }
func (j Joints) Second() Point { return Point{j.X2, j.Y2} }

// Origin is the pivot every body hangs from.
var Origin = Point{}

// Finite reports whether none of vs is NaN or Inf.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
