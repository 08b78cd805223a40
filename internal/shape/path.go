package shape

import (
	"math"
	"sort"
)

// Path traces several shapes back to back as a single shape. Drawing
// progress is split across the parts in proportion to their lengths; the
// parts' own weights are ignored, only the Path weight counts.
type Path struct {
	parts []Shape
	// ends[i] is the cumulative length up to and including parts[i].
	ends []float64
	W    float64
}

// NewPath returns a composite of parts with DefaultWeight.
func NewPath(parts ...Shape) Path {
	p := Path{parts: append([]Shape(nil), parts...), W: DefaultWeight}
	p.ends = make([]float64, len(p.parts))
	var total float64
	for i, s := range p.parts {
		total += s.Length()
		p.ends[i] = total
	}
	return p
}

// WithWeight returns a copy of p with weight w.
func (p Path) WithWeight(w float64) Path {
	p.W = w
	return p
}

// Parts returns a copy of the component shapes.
func (p Path) Parts() []Shape {
	return append([]Shape(nil), p.parts...)
}

func (p Path) Length() float64 {
	if len(p.ends) == 0 {
		return 0
	}
	return p.ends[len(p.ends)-1]
}

func (p Path) Weight() float64 { return weightOrDefault(p.W) }

// locate maps whole-path progress to a part and that part's local progress.
func (p Path) locate(progress float64) (Shape, float64) {
	total := p.Length()
	if total == 0 {
		return nil, 0
	}
	at := progress * total
	i := sort.SearchFloat64s(p.ends, at)
	if i >= len(p.parts) {
		i = len(p.parts) - 1
	}
	// skip zero-length parts that share an end with their predecessor
	for i < len(p.parts)-1 && p.parts[i].Length() == 0 {
		i++
	}
	start := 0.0
	if i > 0 {
		start = p.ends[i-1]
	}
	l := p.parts[i].Length()
	if l == 0 {
		return p.parts[i], 0
	}
	return p.parts[i], math.Max(0, (at-start)/l)
}

func (p Path) NextX(progress float64) float32 {
	s, local := p.locate(progress)
	if s == nil {
		return 0
	}
	return s.NextX(local)
}

func (p Path) NextY(progress float64) float32 {
	s, local := p.locate(progress)
	if s == nil {
		return 0
	}
	return s.NextY(local)
}

func (p Path) mapParts(fn func(Shape) Shape, lengthFactor float64) Path {
	out := Path{parts: make([]Shape, len(p.parts)), ends: p.ends, W: p.W}
	for i, s := range p.parts {
		out.parts[i] = fn(s)
	}
	if lengthFactor != 1 {
		out.ends = make([]float64, len(p.ends))
		for i, e := range p.ends {
			out.ends[i] = e * lengthFactor
		}
	}
	return out
}

func (p Path) Scale(factor float64) Shape {
	return p.mapParts(func(s Shape) Shape { return s.Scale(factor) }, math.Abs(factor))
}

func (p Path) Rotate(theta float64) Shape {
	return p.mapParts(func(s Shape) Shape { return s.Rotate(theta) }, 1)
}

func (p Path) Translate(v Vector2) Shape {
	return p.mapParts(func(s Shape) Shape { return s.Translate(v) }, 1)
}
