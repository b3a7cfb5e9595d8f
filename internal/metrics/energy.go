package metrics

import (
	"math"

	"github.com/san-kum/pendula/internal/driver"
)

// Energy reports the mean total energy of the live bodies in the latest frame.
type Energy struct {
	name  string
	value float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnFrame(f driver.Frame) {
	e.value = meanEnergy(f)
}

func (e *Energy) Value() float64 { return e.value }

func (e *Energy) Reset() { e.value = 0 }

// EnergyDrift tracks the largest relative change of the mean energy
// since the first observed frame after a reset.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnFrame(f driver.Frame) {
	energy := meanEnergy(f)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func meanEnergy(f driver.Frame) float64 {
	sum, n := 0.0, 0
	for i, b := range f.Bodies {
		if f.Faulted[i] {
			continue
		}
		sum += b.Energy()
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
