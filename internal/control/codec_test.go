package control

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/pauel3312/osci-render/internal/shape"
)

func TestDecodeShapes(t *testing.T) {
	data := []byte(`[
		{"type": "line", "a": [0, 0], "b": [2, 0]},
		{"type": "arc", "center": [0, 0], "radius": 0.5, "start": 0, "end": 3.141592653589793, "weight": 20},
		{"type": "bezier", "points": [[0, 0], [0, 1], [1, 1], [1, 0]]},
		{"type": "path", "shapes": [
			{"type": "line", "a": [0, 0], "b": [1, 0]},
			{"type": "line", "a": [1, 0], "b": [1, 1]}
		], "weight": 50}
	]`)

	shapes, err := DecodeShapes(data)
	if err != nil {
		t.Fatalf("DecodeShapes: %v", err)
	}
	if len(shapes) != 4 {
		t.Fatalf("got %d shapes", len(shapes))
	}

	l, ok := shapes[0].(shape.Line)
	if !ok || !l.B.Equal(shape.Vec(2, 0)) || l.Weight() != shape.DefaultWeight {
		t.Errorf("line: %#v", shapes[0])
	}
	a, ok := shapes[1].(shape.Arc)
	if !ok || a.Weight() != 20 || math.Abs(a.Length()-math.Pi/2) > 1e-9 {
		t.Errorf("arc: %#v", shapes[1])
	}
	if _, ok := shapes[2].(shape.CubicBezier); !ok {
		t.Errorf("bezier: %#v", shapes[2])
	}
	p, ok := shapes[3].(shape.Path)
	if !ok || p.Length() != 2 || p.Weight() != 50 {
		t.Errorf("path: %#v", shapes[3])
	}
}

func TestDecodeShapes_invalid(t *testing.T) {
	cases := map[string]string{
		"not_json":        `nope`,
		"unknown_type":    `[{"type": "star"}]`,
		"line_missing_b":  `[{"type": "line", "a": [0, 0]}]`,
		"arc_no_center":   `[{"type": "arc", "radius": 1}]`,
		"bezier_3_points": `[{"type": "bezier", "points": [[0,0],[1,1],[2,2]]}]`,
		"bad_path_child":  `[{"type": "path", "shapes": [{"type": "?"}]}]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeShapes([]byte(in)); !errors.Is(err, ErrInvalidShape) {
				t.Errorf("expected ErrInvalidShape, got %v", err)
			}
		})
	}
}

func TestFromShape_round_trip(t *testing.T) {
	in := []shape.Shape{
		shape.NewLine(shape.Vec(0, 1), shape.Vec(2, 3)).WithWeight(7),
		shape.NewCircle(shape.Vec(0.1, 0.2), 0.3),
		shape.NewPath(shape.NewLine(shape.Vec(0, 0), shape.Vec(1, 0))),
	}
	wire := make([]ShapeJSON, 0, len(in))
	for _, s := range in {
		sj, err := FromShape(s)
		if err != nil {
			t.Fatalf("FromShape(%T): %v", s, err)
		}
		wire = append(wire, sj)
	}
	out, err := ToShapes(wire)
	if err != nil {
		t.Fatalf("ToShapes: %v", err)
	}
	for i := range in {
		for _, prog := range []float64{0, 0.5, 1} {
			if in[i].NextX(prog) != out[i].NextX(prog) || in[i].NextY(prog) != out[i].NextY(prog) {
				t.Errorf("shape %d progress %v: samples differ", i, prog)
			}
		}
		if in[i].Weight() != out[i].Weight() {
			t.Errorf("shape %d weight: %v vs %v", i, in[i].Weight(), out[i].Weight())
		}
	}
}

func TestLenientFloat(t *testing.T) {
	var req translationRequest
	if err := json.Unmarshal([]byte(`{"speed": 2, "x": "0.25", "y": "abc"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if valueOr(req.Speed, -1) != 2 || valueOr(req.X, -1) != 0.25 || valueOr(req.Y, -1) != 0 {
		t.Errorf("got speed=%v x=%v y=%v", valueOr(req.Speed, -1), valueOr(req.X, -1), valueOr(req.Y, -1))
	}

	var empty rotationRequest
	if err := json.Unmarshal([]byte(`{}`), &empty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if valueOr(empty.Speed, 0.4) != 0.4 {
		t.Error("absent field should keep the current value")
	}
}
