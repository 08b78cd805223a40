package control

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pauel3312/osci-render/internal/platform/config"
	"github.com/pauel3312/osci-render/internal/shape"
)

// ErrInvalidShape is returned for a shape description that cannot be built.
var ErrInvalidShape = errors.New("invalid shape")

// maxPathDepth bounds nesting of path shapes.
const maxPathDepth = 8

// ShapeJSON is the wire form of a shape. Type selects which fields apply:
//
//	line:   a, b
//	arc:    center, radius, start, end (radians)
//	bezier: points (exactly 4)
//	path:   shapes
//
// Weight 0 or absent means shape.DefaultWeight.
type ShapeJSON struct {
	Type   string       `json:"type"`
	A      *[2]float64  `json:"a,omitempty"`
	B      *[2]float64  `json:"b,omitempty"`
	Center *[2]float64  `json:"center,omitempty"`
	Radius float64      `json:"radius,omitempty"`
	Start  float64      `json:"start,omitempty"`
	End    float64      `json:"end,omitempty"`
	Points [][2]float64 `json:"points,omitempty"`
	Shapes []ShapeJSON  `json:"shapes,omitempty"`
	Weight float64      `json:"weight,omitempty"`
}

// DecodeShapes parses a JSON array of ShapeJSON into shapes.
func DecodeShapes(data []byte) ([]shape.Shape, error) {
	var wire []ShapeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return ToShapes(wire)
}

// ToShapes converts wire shapes, failing on the first invalid one.
func ToShapes(wire []ShapeJSON) ([]shape.Shape, error) {
	out := make([]shape.Shape, 0, len(wire))
	for i, w := range wire {
		s, err := w.toShape(0)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func vec(p [2]float64) shape.Vector2 {
	return shape.Vec(p[0], p[1])
}

func (w ShapeJSON) toShape(depth int) (shape.Shape, error) {
	switch w.Type {
	case "line":
		if w.A == nil || w.B == nil {
			return nil, fmt.Errorf("%w: line needs a and b", ErrInvalidShape)
		}
		return shape.NewLine(vec(*w.A), vec(*w.B)).WithWeight(w.Weight), nil
	case "arc":
		if w.Center == nil {
			return nil, fmt.Errorf("%w: arc needs center", ErrInvalidShape)
		}
		return shape.Arc{Center: vec(*w.Center), Radius: w.Radius, Start: w.Start, End: w.End, W: w.Weight}, nil
	case "bezier":
		if len(w.Points) != 4 {
			return nil, fmt.Errorf("%w: bezier needs 4 points, got %d", ErrInvalidShape, len(w.Points))
		}
		p := w.Points
		return shape.NewCubicBezier(vec(p[0]), vec(p[1]), vec(p[2]), vec(p[3])).WithWeight(w.Weight), nil
	case "path":
		if depth >= maxPathDepth {
			return nil, fmt.Errorf("%w: path nested deeper than %d", ErrInvalidShape, maxPathDepth)
		}
		parts := make([]shape.Shape, 0, len(w.Shapes))
		for _, c := range w.Shapes {
			s, err := c.toShape(depth + 1)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		return shape.NewPath(parts...).WithWeight(w.Weight), nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidShape, w.Type)
	}
}

// FromShape returns the wire form of s.
func FromShape(s shape.Shape) (ShapeJSON, error) {
	pt := func(v shape.Vector2) *[2]float64 { return &[2]float64{v.X, v.Y} }
	switch v := s.(type) {
	case shape.Line:
		return ShapeJSON{Type: "line", A: pt(v.A), B: pt(v.B), Weight: v.Weight()}, nil
	case shape.Arc:
		return ShapeJSON{Type: "arc", Center: pt(v.Center), Radius: v.Radius, Start: v.Start, End: v.End, Weight: v.Weight()}, nil
	case shape.CubicBezier:
		return ShapeJSON{
			Type:   "bezier",
			Points: [][2]float64{*pt(v.P0), *pt(v.P1), *pt(v.P2), *pt(v.P3)},
			Weight: v.Weight(),
		}, nil
	case shape.Path:
		out := ShapeJSON{Type: "path", Weight: v.Weight()}
		for _, c := range v.Parts() {
			cj, err := FromShape(c)
			if err != nil {
				return ShapeJSON{}, err
			}
			out.Shapes = append(out.Shapes, cj)
		}
		return out, nil
	default:
		return ShapeJSON{}, fmt.Errorf("%w: cannot encode %T", ErrInvalidShape, s)
	}
}

// lenientFloat accepts a JSON number or a numeric string. A string that
// does not parse becomes 0.
type lenientFloat float64

func (f *lenientFloat) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = lenientFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = lenientFloat(config.ParseFloatOrZero(s))
	return nil
}

func valueOr(f *lenientFloat, current float64) float64 {
	if f == nil {
		return current
	}
	return float64(*f)
}
