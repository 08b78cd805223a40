package engine

import (
	"math"

	"github.com/pauel3312/osci-render/internal/shape"
)

// Params are the live transform and output settings read by the render
// callback on every sample. A Params value is immutable once published;
// setters publish a modified copy.
type Params struct {
	// Scale multiplies every coordinate. 1 is the identity.
	Scale float64 `json:"scale"`
	// RotateSpeed is the rotation oscillator frequency. 0 disables rotation.
	RotateSpeed float64 `json:"rotate_speed"`
	// TranslateSpeed is the translation oscillator frequency. Translation is
	// disabled when it is 0 or TranslateVector is the zero vector.
	TranslateSpeed  float64       `json:"translate_speed"`
	TranslateVector shape.Vector2 `json:"translate_vector"`
	// Volume multiplies the output after the pipeline.
	Volume float64 `json:"volume"`
	// Threshold clips the output symmetrically to [-Threshold, Threshold].
	// SetOutput rejects negative values; WithParams ones clip at the magnitude.
	Threshold float64 `json:"threshold"`
}

// DefaultParams returns the identity transform with unity output.
func DefaultParams() Params {
	return Params{
		Scale:     1,
		Volume:    1,
		Threshold: 1,
	}
}

func (p *Params) rotationEnabled() bool {
	return p.RotateSpeed != 0
}

func (p *Params) translationEnabled() bool {
	return p.TranslateSpeed != 0 && !p.TranslateVector.IsZero()
}

// output applies volume then the clip threshold.
func (p *Params) output(v float32) float32 {
	x := float64(v) * p.Volume
	t := math.Abs(p.Threshold)
	return float32(math.Max(-t, math.Min(t, x)))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
