package engine

import (
	"math"

	"github.com/pauel3312/osci-render/internal/shape"
)

// Pipeline applies scale, rotation and translation, in that order, to the
// canonical shape of the current sample. It owns the oscillators that
// modulate rotation and translation.
type Pipeline struct {
	osc OscillatorBank
}

// Apply returns s transformed by p. Each step is skipped when disabled, and
// a disabled step does not advance its oscillator. With every step disabled
// s itself is returned.
func (pl *Pipeline) Apply(s shape.Shape, p *Params, sampleRate float64) shape.Shape {
	if p.Scale != 1 {
		s = s.Scale(p.Scale)
	}
	if p.rotationEnabled() {
		s = s.Rotate(pl.osc.Advance(RotationOscillator, p.RotateSpeed, sampleRate))
	}
	if p.translationEnabled() {
		theta := pl.osc.Advance(TranslationOscillator, p.TranslateSpeed, sampleRate)
		s = s.Translate(p.TranslateVector.Scale(math.Sin(theta)))
	}
	return s
}

// Oscillators exposes the bank for inspection.
func (pl *Pipeline) Oscillators() *OscillatorBank {
	return &pl.osc
}
