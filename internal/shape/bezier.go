package shape

import "math"

// bezierLengthSteps is the number of chords used to approximate arc length.
const bezierLengthSteps = 32

// CubicBezier is a cubic Bézier curve with control points P0..P3.
// Its length is approximated once at construction and carried through
// transforms, so build it with NewCubicBezier.
type CubicBezier struct {
	P0, P1, P2, P3 Vector2
	W              float64

	length float64
}

// NewCubicBezier returns a curve with DefaultWeight and a precomputed length.
func NewCubicBezier(p0, p1, p2, p3 Vector2) CubicBezier {
	c := CubicBezier{P0: p0, P1: p1, P2: p2, P3: p3, W: DefaultWeight}
	c.length = c.chordLength()
	return c
}

// WithWeight returns a copy of c with weight w.
func (c CubicBezier) WithWeight(w float64) CubicBezier {
	c.W = w
	return c
}

// Eval returns the point at parameter t.
func (c CubicBezier) Eval(t float64) Vector2 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Vector2{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

func (c CubicBezier) chordLength() float64 {
	var total float64
	prev := c.P0
	for i := 1; i <= bezierLengthSteps; i++ {
		p := c.Eval(float64(i) / bezierLengthSteps)
		total += prev.Distance(p)
		prev = p
	}
	return total
}

func (c CubicBezier) Length() float64 {
	if c.length == 0 {
		return c.chordLength()
	}
	return c.length
}

func (c CubicBezier) Weight() float64 { return weightOrDefault(c.W) }

func (c CubicBezier) NextX(progress float64) float32 { return float32(c.Eval(progress).X) }

func (c CubicBezier) NextY(progress float64) float32 { return float32(c.Eval(progress).Y) }

func (c CubicBezier) Scale(factor float64) Shape {
	return CubicBezier{
		P0: c.P0.Scale(factor), P1: c.P1.Scale(factor),
		P2: c.P2.Scale(factor), P3: c.P3.Scale(factor),
		W:      c.W,
		length: c.Length() * math.Abs(factor),
	}
}

func (c CubicBezier) Rotate(theta float64) Shape {
	return CubicBezier{
		P0: c.P0.Rotate(theta), P1: c.P1.Rotate(theta),
		P2: c.P2.Rotate(theta), P3: c.P3.Rotate(theta),
		W:      c.W,
		length: c.Length(),
	}
}

func (c CubicBezier) Translate(v Vector2) Shape {
	return CubicBezier{
		P0: c.P0.Add(v), P1: c.P1.Add(v),
		P2: c.P2.Add(v), P3: c.P3.Add(v),
		W:      c.W,
		length: c.Length(),
	}
}
