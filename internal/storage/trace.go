package storage

import "github.com/san-kum/pendula/internal/driver"

// Sample is one frame of one body.
type Sample struct {
	Frame  uint64     `json:"frame"`
	State  [4]float64 `json:"state"` // a1, a2, v1, v2
	Energy float64    `json:"energy"`
}

// Trace is the recorded history of a single body.
type Trace struct {
	Body    int
	Samples []Sample
}

// States returns the (a1, a2, v1, v2) rows of the trace.
func (t *Trace) States() [][4]float64 {
	out := make([][4]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.State
	}
	return out
}

// Column returns one of "a1", "a2", "v1", "v2" or "energy" as a series.
func (t *Trace) Column(name string) ([]float64, bool) {
	idx := -1
	switch name {
	case "a1":
		idx = 0
	case "a2":
		idx = 1
	case "v1":
		idx = 2
	case "v2":
		idx = 3
	case "energy":
	default:
		return nil, false
	}

	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		if idx < 0 {
			out[i] = s.Energy
		} else {
			out[i] = s.State[idx]
		}
	}
	return out, true
}

// Recorder is a driver.Observer that appends one body's state every frame.
// Recording stops for good once the body faults or disappears.
type Recorder struct {
	trace   Trace
	stopped bool
}

func NewRecorder(body int) *Recorder {
	return &Recorder{trace: Trace{Body: body}}
}

func (r *Recorder) OnFrame(f driver.Frame) {
	if f.Reseeded {
		r.trace.Samples = r.trace.Samples[:0]
		r.stopped = false
	}
	b := r.trace.Body
	if r.stopped || b >= len(f.Bodies) || f.Faulted[b] {
		r.stopped = true
		return
	}
	body := f.Bodies[b]
	r.trace.Samples = append(r.trace.Samples, Sample{
		Frame:  f.Seq,
		State:  body.Dynamic(),
		Energy: body.Energy(),
	})
}

func (r *Recorder) Trace() *Trace {
	t := r.trace
	t.Samples = append([]Sample(nil), r.trace.Samples...)
	return &t
}
