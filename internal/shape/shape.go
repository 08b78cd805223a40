// Package shape defines the parametric 2D primitives traced by the renderer.
//
// Every Shape is a value: the transform methods return a new Shape and never
// mutate the receiver, so the engine can re-derive the transformed copy from
// the canonical shape on every sample without accumulating error.
package shape

// DefaultWeight is the weight given to shapes built without an explicit one.
const DefaultWeight = 100.0

// Shape is a parametric curve traced from progress 0 to progress ~1.
type Shape interface {
	// Length is the geometric size used to proportion drawing time.
	Length() float64
	// Weight multiplies Length to give the sample budget.
	Weight() float64
	NextX(progress float64) float32
	NextY(progress float64) float32
	Scale(factor float64) Shape
	Rotate(theta float64) Shape
	Translate(v Vector2) Shape
}

// Budget returns the number of samples s is allotted per pass: length * weight.
func Budget(s Shape) float64 {
	return s.Length() * s.Weight()
}

// Valid reports whether s can be traced: its budget must be positive and finite.
func Valid(s Shape) bool {
	if s == nil {
		return false
	}
	b := Budget(s)
	return b > 0 && isFinite(b)
}

func weightOrDefault(w float64) float64 {
	if w == 0 {
		return DefaultWeight
	}
	return w
}
