package shape

// Line is a straight segment from A to B.
type Line struct {
	A, B Vector2
	W    float64
}

// NewLine returns a segment from a to b with DefaultWeight.
func NewLine(a, b Vector2) Line {
	return Line{A: a, B: b, W: DefaultWeight}
}

// WithWeight returns a copy of l with weight w.
func (l Line) WithWeight(w float64) Line {
	l.W = w
	return l
}

func (l Line) Length() float64 { return l.A.Distance(l.B) }

func (l Line) Weight() float64 { return weightOrDefault(l.W) }

func (l Line) NextX(progress float64) float32 {
	return float32(l.A.X + (l.B.X-l.A.X)*progress)
}

func (l Line) NextY(progress float64) float32 {
	return float32(l.A.Y + (l.B.Y-l.A.Y)*progress)
}

func (l Line) Scale(factor float64) Shape {
	return Line{A: l.A.Scale(factor), B: l.B.Scale(factor), W: l.W}
}

func (l Line) Rotate(theta float64) Shape {
	return Line{A: l.A.Rotate(theta), B: l.B.Rotate(theta), W: l.W}
}

func (l Line) Translate(v Vector2) Shape {
	return Line{A: l.A.Add(v), B: l.B.Add(v), W: l.W}
}
