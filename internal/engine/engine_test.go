package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/pauel3312/osci-render/internal/shape"
)

var stereo = Format{SampleRate: 48000, Channels: 2}

func TestFormat_Validate(t *testing.T) {
	for _, f := range []Format{{0, 2}, {-1, 2}, {math.NaN(), 2}, {48000, 0}} {
		if err := f.Validate(); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%+v: expected ErrUnsupportedFormat, got %v", f, err)
		}
	}
	if err := stereo.Validate(); err != nil {
		t.Errorf("stereo: %v", err)
	}
}

func TestEngine_UpdateFrame_round_trip(t *testing.T) {
	e := New()
	a := shape.NewLine(shape.Vec(-0.5, 0.25), shape.Vec(0.5, 0.25))
	b := shape.NewLine(shape.Vec(0, 0), shape.Vec(0, 1))

	// leave the cursor mid-shape first
	_ = e.UpdateFrame([]shape.Shape{b, a})
	e.Render(make([]float32, 2*37), stereo)

	if err := e.UpdateFrame([]shape.Shape{a, b}); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	st := e.Status()
	if st.Index != 0 || st.SamplesDrawn != 0 || st.Shapes != 2 {
		t.Fatalf("status after UpdateFrame: %+v", st)
	}

	out := make([]float32, 2)
	e.Render(out, stereo)
	if out[0] != a.NextX(0) || out[1] != a.NextY(0) {
		t.Errorf("first sample: got (%v,%v) want start of A", out[0], out[1])
	}
}

func TestEngine_UpdateFrame_rejects_empty(t *testing.T) {
	obs := &countingObserver{}
	e := New(WithObserver(obs))
	_ = e.UpdateFrame(ids(3, 5))

	if err := e.UpdateFrame(nil); !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
	if e.Status().Shapes != 3 {
		t.Error("empty frame replaced the live sequence")
	}
	if obs.rejected.Load() != 1 || obs.installed.Load() != 1 {
		t.Errorf("observer: rejected=%d installed=%d", obs.rejected.Load(), obs.installed.Load())
	}
}

func TestEngine_UpdateFrame_rejects_degenerate(t *testing.T) {
	e := New()
	bad := []shape.Shape{
		shape.NewLine(shape.Vec(0, 0), shape.Vec(1, 0)),
		shape.NewLine(shape.Vec(1, 1), shape.Vec(1, 1)),
	}
	if err := e.UpdateFrame(bad); !errors.Is(err, ErrDegenerateShape) {
		t.Errorf("expected ErrDegenerateShape, got %v", err)
	}
	if err := e.AddShape(nil); !errors.Is(err, ErrDegenerateShape) {
		t.Errorf("AddShape(nil): expected ErrDegenerateShape, got %v", err)
	}
	if e.Status().Shapes != 0 {
		t.Error("rejected shapes were installed")
	}
}

func TestEngine_AddShapes_builds_sequence(t *testing.T) {
	e := New()
	if err := e.AddShape(budgetShape{id: 0.25, budget: 2}); err != nil {
		t.Fatalf("AddShape: %v", err)
	}
	if err := e.AddShapes([]shape.Shape{budgetShape{id: 0.5, budget: 2}, budgetShape{id: 0.75, budget: 2}}); err != nil {
		t.Fatalf("AddShapes: %v", err)
	}
	if err := e.AddShapes(nil); err != nil {
		t.Errorf("AddShapes(nil): %v", err)
	}

	out := make([]float32, 2*9)
	e.Render(out, stereo)
	// budget 2 → 3 samples per shape
	want := []float32{0.25, 0.25, 0.25, 0.5, 0.5, 0.5, 0.75, 0.75, 0.75}
	for i, w := range want {
		if out[2*i] != w {
			t.Fatalf("frame %d: X=%v want %v (out=%v)", i, out[2*i], w, out)
		}
	}
}

func TestEngine_Render_empty_is_silent(t *testing.T) {
	e := New()
	out := []float32{9, 9, 9, 9}
	e.Render(out, stereo)
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d]=%v, want 0", i, v)
		}
	}
}

func TestEngine_Render_channel_layout(t *testing.T) {
	e := New()
	_ = e.UpdateFrame([]shape.Shape{budgetShape{id: 0.5, budget: 4}})

	f := Format{SampleRate: 48000, Channels: 4}
	out := make([]float32, 4*3+1) // trailing partial frame
	out[len(out)-1] = 7
	e.Render(out, f)

	for fr := 0; fr < 3; fr++ {
		base := fr * 4
		y := float32(float64(fr) / 4)
		if out[base] != 0.5 || out[base+2] != 0.5 {
			t.Errorf("frame %d: even channels %v,%v want X", fr, out[base], out[base+2])
		}
		if out[base+1] != y || out[base+3] != y {
			t.Errorf("frame %d: odd channels %v,%v want %v", fr, out[base+1], out[base+3], y)
		}
	}
	if out[len(out)-1] != 0 {
		t.Error("partial trailing frame not cleared")
	}
}

func TestEngine_Render_invalid_format(t *testing.T) {
	e := New()
	_ = e.UpdateFrame(ids(1, 3))
	out := []float32{1, 1}
	e.Render(out, Format{SampleRate: 0, Channels: 2})
	if out[0] != 0 || out[1] != 0 {
		t.Error("invalid format should render silence")
	}
	if e.Status().SamplesDrawn != 0 {
		t.Error("invalid format advanced the cursor")
	}
}

func TestEngine_Render_holds_last_output_on_fault(t *testing.T) {
	obs := &countingObserver{}
	e := New(WithObserver(obs))
	_ = e.UpdateFrame([]shape.Shape{
		budgetShape{id: 0.25, budget: 1},
		faultyShape{budgetShape{budget: 1}},
		budgetShape{id: 0.75, budget: 1},
	})

	out := make([]float32, 2*5)
	e.Render(out, stereo)

	// two good frames of shape 0, then the fault: hold (0.25, 1)
	for fr := 2; fr < 5; fr++ {
		if out[2*fr] != 0.25 || out[2*fr+1] != 1 {
			t.Errorf("frame %d: got (%v,%v), want held (0.25,1)", fr, out[2*fr], out[2*fr+1])
		}
	}
	if c := e.Status().Cursor; c.Index != 2 || c.SamplesDrawn != 0 {
		t.Errorf("cursor after fault: %+v, want past the faulty shape", c)
	}

	// the next block resumes after the faulty shape and wraps round to it
	e.Render(out, stereo)
	want := [][2]float32{{0.75, 0}, {0.75, 1}, {0.25, 0}, {0.25, 1}, {0.25, 1}}
	for fr, w := range want {
		if out[2*fr] != w[0] || out[2*fr+1] != w[1] {
			t.Errorf("second block frame %d: got (%v,%v) want %v", fr, out[2*fr], out[2*fr+1], w)
		}
	}

	if obs.recovered.Load() != 2 {
		t.Errorf("recovered: got %d want 2", obs.recovered.Load())
	}
	if obs.blocks.Load() != 2 {
		t.Errorf("blocks: got %d want 2", obs.blocks.Load())
	}
}

func TestEngine_Render_fault_does_not_stall_playback(t *testing.T) {
	e := New()
	_ = e.UpdateFrame([]shape.Shape{
		budgetShape{id: 0.25, budget: 1},
		faultyShape{budgetShape{budget: 1}},
		budgetShape{id: 0.75, budget: 1},
	})

	seen := map[float32]int{}
	out := make([]float32, 2*16)
	for i := 0; i < 10; i++ {
		e.Render(out, stereo)
		for fr := 0; fr < 16; fr++ {
			seen[out[2*fr]]++
		}
	}
	if seen[0.75] == 0 || seen[0.25] == 0 {
		t.Errorf("x values seen: %v, want both good shapes drawn", seen)
	}
}

func TestEngine_output_stage(t *testing.T) {
	e := New()
	_ = e.UpdateFrame([]shape.Shape{shape.NewLine(shape.Vec(0.8, -0.8), shape.Vec(0.8, 0.8))})
	if err := e.SetOutput(2, 1); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}
	out := make([]float32, 2)
	e.Render(out, stereo)
	if out[0] != 1 || out[1] != -1 {
		t.Errorf("clipped output: got (%v,%v) want (1,-1)", out[0], out[1])
	}
}

func TestEngine_SetOutput_rejects_negative_threshold(t *testing.T) {
	e := New()
	if err := e.SetOutput(1, -0.5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if e.Params().Threshold != 1 {
		t.Errorf("threshold changed: %v", e.Params().Threshold)
	}

	// a negative threshold given at construction clips at its magnitude
	p := DefaultParams()
	p.Threshold = -0.5
	e = New(WithParams(p))
	_ = e.UpdateFrame([]shape.Shape{shape.NewLine(shape.Vec(-0.2, 0.8), shape.Vec(-0.2, 0.9))})
	out := make([]float32, 2)
	e.Render(out, stereo)
	if out[0] != -0.2 || out[1] != 0.5 {
		t.Errorf("got (%v,%v) want (-0.2,0.5)", out[0], out[1])
	}
}

func TestNew_discards_logs_by_default(t *testing.T) {
	if New().log.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestEngine_setters(t *testing.T) {
	e := New()
	if err := e.SetRotateSpeed(math.NaN()); !errors.Is(err, ErrNonFinite) {
		t.Errorf("NaN rotate speed: got %v", err)
	}
	if err := e.SetTranslation(1, shape.Vec(math.Inf(1), 0)); !errors.Is(err, ErrNonFinite) {
		t.Errorf("Inf vector: got %v", err)
	}
	if e.Params() != DefaultParams() {
		t.Errorf("rejected setters changed params: %+v", e.Params())
	}

	_ = e.SetRotateSpeed(0.4)
	_ = e.SetTranslation(2, shape.Vec(0.1, 0.2))
	_ = e.SetScale(0.5)
	p := e.Params()
	if p.RotateSpeed != 0.4 || p.TranslateSpeed != 2 || !p.TranslateVector.Equal(shape.Vec(0.1, 0.2)) || p.Scale != 0.5 {
		t.Errorf("params: %+v", p)
	}
}

func TestEngine_WithParams(t *testing.T) {
	p := DefaultParams()
	p.RotateSpeed = 0.4
	e := New(WithParams(p))
	if e.Params().RotateSpeed != 0.4 {
		t.Errorf("RotateSpeed: got %v", e.Params().RotateSpeed)
	}
}

func TestEngine_concurrent_update_and_render(t *testing.T) {
	obs := &countingObserver{}
	e := New(WithObserver(obs))
	_ = e.UpdateFrame(ids(5, 3))

	const iterations = 2000
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = e.UpdateFrame(ids(1+i%7, float64(1+i%4)))
			if i%10 == 0 {
				_ = e.UpdateFrame(nil)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = e.SetRotateSpeed(float64(i % 3))
			_ = e.SetTranslation(float64(i%2), shape.Vec(0.1, 0))
			_ = e.AddShape(budgetShape{id: 9, budget: 2})
		}
	}()
	go func() {
		defer wg.Done()
		out := make([]float32, 2*64)
		for i := 0; i < iterations; i++ {
			e.Render(out, stereo)
			if st := e.Status(); st.Shapes == 0 {
				t.Error("render observed an empty sequence")
				return
			}
		}
	}()
	wg.Wait()

	if n := obs.recovered.Load(); n != 0 {
		t.Errorf("render recovered from %d faults", n)
	}
}
