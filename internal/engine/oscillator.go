package engine

import "math"

// OscillatorID selects one of the phase accumulators in an OscillatorBank.
type OscillatorID int

const (
	// RotationOscillator drives the rotation angle.
	RotationOscillator OscillatorID = iota
	// TranslationOscillator drives the sinusoidal translation sweep.
	TranslationOscillator

	numOscillators
)

// OscillatorBank holds free-running phase accumulators in [-1, 1].
// It is owned by the render goroutine and is not safe for concurrent use.
type OscillatorBank struct {
	phases [numOscillators]float64
}

// Advance steps oscillator id by frequency/sampleRate and returns the new
// phase scaled to radians.
//
// Reaching 1 wraps to -1, not 0. A negative frequency wraps the other way,
// from below -1 to 1.
func (b *OscillatorBank) Advance(id OscillatorID, frequency, sampleRate float64) float64 {
	p := b.phases[id] + frequency/sampleRate
	if p >= 1.0 {
		p = -1.0
	} else if p < -1.0 {
		p = 1.0
	}
	b.phases[id] = p
	return p * math.Pi
}

// Phase returns the stored phase of oscillator id, in [-1, 1].
func (b *OscillatorBank) Phase(id OscillatorID) float64 {
	return b.phases[id]
}

// Reset zeroes every phase.
func (b *OscillatorBank) Reset() {
	b.phases = [numOscillators]float64{}
}
