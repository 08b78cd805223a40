package shape

import "math"

// Vector2 is an immutable 2D point or displacement.
type Vector2 struct {
	X, Y float64
}

// Vec is a convenience constructor for Vector2.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns the component-wise sum of v and w.
func (v Vector2) Add(w Vector2) Vector2 {
	return Vector2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v minus w.
func (v Vector2) Sub(w Vector2) Vector2 {
	return Vector2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Scale returns v multiplied by factor.
func (v Vector2) Scale(factor float64) Vector2 {
	return Vector2{X: v.X * factor, Y: v.Y * factor}
}

// Rotate returns v rotated by theta radians around the origin.
func (v Vector2) Rotate(theta float64) Vector2 {
	sin, cos := math.Sincos(theta)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Length returns the Euclidean norm of v.
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between v and w.
func (v Vector2) Distance(w Vector2) float64 {
	return v.Sub(w).Length()
}

// Lerp interpolates linearly: t=0 returns v, t=1 returns w.
func (v Vector2) Lerp(w Vector2, t float64) Vector2 {
	return Vector2{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
	}
}

// Equal reports whether v and w have identical components.
func (v Vector2) Equal(w Vector2) bool {
	return v.X == w.X && v.Y == w.Y
}

// IsZero reports whether v is the zero vector.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether both components are finite.
func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
