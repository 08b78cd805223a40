package engine

import (
	"math"

	"github.com/pauel3312/osci-render/internal/shape"
)

// Effect transforms the output point of one sample. index counts samples
// since the engine was created. amount is the effect's live setting in
// [0, 1]; effects set to 0 are not called at all.
//
// Effects run on the render goroutine only, so they may keep state.
type Effect interface {
	Apply(index int, v shape.Vector2, amount, sampleRate float64) shape.Vector2
}

// EffectFunc adapts a stateless function to Effect.
type EffectFunc func(index int, v shape.Vector2, amount, sampleRate float64) shape.Vector2

func (f EffectFunc) Apply(index int, v shape.Vector2, amount, sampleRate float64) shape.Vector2 {
	return f(index, v, amount, sampleRate)
}

// NamedEffect is one slot of the effect chain.
type NamedEffect struct {
	Name   string
	Effect Effect
}

// EffectSetting is the live amount of one chain slot.
type EffectSetting struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// DefaultEffects returns a fresh chain of the built-in effects, in the order
// they are applied. Every call returns new effect state.
func DefaultEffects() []NamedEffect {
	return []NamedEffect{
		{Name: "bit_crush", Effect: EffectFunc(bitCrush)},
		{Name: "vector_cancelling", Effect: &VectorCancelling{}},
		{Name: "distort_x", Effect: Distort{}},
		{Name: "distort_y", Effect: Distort{Vertical: true}},
		{Name: "smoothing", Effect: &Smoothing{}},
	}
}

// bitCrush quantizes both coordinates. Higher amounts give coarser steps.
func bitCrush(_ int, v shape.Vector2, amount, _ float64) shape.Vector2 {
	levels := (math.Pow(2, 1-0.78*amount) - 1) * 12
	crush := func(c float64) float64 { return math.Round(c*levels) / levels }
	return shape.Vec(crush(v.X), crush(v.Y))
}

// VectorCancelling inverts the point every 1+9*amount samples, which
// cancels part of the image when viewed on a scope.
type VectorCancelling struct {
	next float64
}

func (c *VectorCancelling) Apply(index int, v shape.Vector2, amount, _ float64) shape.Vector2 {
	if amount < 0.001 {
		return v
	}
	period := 1 + 9*amount
	i := float64(index)
	if i < c.next-period {
		// period shrank while idle; resynchronise
		c.next = i
	}
	if i >= c.next {
		c.next = max(c.next+period, i+1)
		return v.Scale(-1)
	}
	return v
}

// Distort jitters the point along one axis by ±amount on alternate samples.
type Distort struct {
	Vertical bool
}

func (d Distort) Apply(index int, v shape.Vector2, amount, _ float64) shape.Vector2 {
	if index%2 != 0 {
		amount = -amount
	}
	if d.Vertical {
		return v.Add(shape.Vec(0, amount))
	}
	return v.Add(shape.Vec(amount, 0))
}

// Smoothing is a one-pole low-pass on both coordinates.
type Smoothing struct {
	avg shape.Vector2
}

func (s *Smoothing) Apply(_ int, v shape.Vector2, amount, _ float64) shape.Vector2 {
	const strength = 10
	w := max(amount-0.00001, 0.00001) * 0.95
	w = math.Log(strength*w+1) / math.Log(strength+1)
	w = math.Pow(w, 0.2)
	s.avg = s.avg.Scale(w).Add(v.Scale(1 - w))
	return s.avg
}

// effectChain applies the enabled effects in order and counts samples.
type effectChain struct {
	effects []NamedEffect
	index   int
}

func (c *effectChain) apply(v shape.Vector2, amounts []float64, sampleRate float64) shape.Vector2 {
	for i, fx := range c.effects {
		if a := amounts[i]; a != 0 {
			v = fx.Effect.Apply(c.index, v, a, sampleRate)
		}
	}
	c.index++
	return v
}

func (c *effectChain) lookup(name string) int {
	for i, fx := range c.effects {
		if fx.Name == name {
			return i
		}
	}
	return -1
}
