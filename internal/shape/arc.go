package shape

import "math"

// Arc is a circular arc around Center swept from angle Start to End (radians).
// A full circle is Start=0, End=2π. Sweeping backwards (End < Start) is allowed.
type Arc struct {
	Center     Vector2
	Radius     float64
	Start, End float64
	W          float64
}

// NewCircle returns a full circle with DefaultWeight.
func NewCircle(center Vector2, radius float64) Arc {
	return Arc{Center: center, Radius: radius, Start: 0, End: 2 * math.Pi, W: DefaultWeight}
}

// WithWeight returns a copy of a with weight w.
func (a Arc) WithWeight(w float64) Arc {
	a.W = w
	return a
}

func (a Arc) Length() float64 {
	return math.Abs(a.Radius) * math.Abs(a.End-a.Start)
}

func (a Arc) Weight() float64 { return weightOrDefault(a.W) }

func (a Arc) angle(progress float64) float64 {
	return a.Start + (a.End-a.Start)*progress
}

func (a Arc) NextX(progress float64) float32 {
	return float32(a.Center.X + a.Radius*math.Cos(a.angle(progress)))
}

func (a Arc) NextY(progress float64) float32 {
	return float32(a.Center.Y + a.Radius*math.Sin(a.angle(progress)))
}

// Scale multiplies center and radius. A negative factor yields a negative
// radius, which traces the point reflection through the origin as expected.
func (a Arc) Scale(factor float64) Shape {
	a.Center = a.Center.Scale(factor)
	a.Radius *= factor
	return a
}

func (a Arc) Rotate(theta float64) Shape {
	a.Center = a.Center.Rotate(theta)
	a.Start += theta
	a.End += theta
	return a
}

func (a Arc) Translate(v Vector2) Shape {
	a.Center = a.Center.Add(v)
	return a
}
