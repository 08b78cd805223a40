package record

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/pauel3312/osci-render/internal/engine"
	"github.com/pauel3312/osci-render/internal/shape"
)

// constRenderer writes x to even channels and y to odd ones.
type constRenderer struct{ x, y float32 }

func (c constRenderer) Render(out []float32, f engine.Format) {
	for i := range out {
		if i%f.Channels%2 == 0 {
			out[i] = c.x
		} else {
			out[i] = c.y
		}
	}
}

func decodeFile(t *testing.T, path string) (*wav.Decoder, []int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	return dec, buf.Data
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := engine.Format{SampleRate: 48000, Channels: 2}
	w, err := NewWriter(f, format, 16)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	frames := 2*blockFrames + 7
	if err := Render(context.Background(), constRenderer{x: 0.5, y: -2}, w, frames); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Frames() != frames {
		t.Errorf("Frames: got %d want %d", w.Frames(), frames)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	f.Close()

	dec, data := decodeFile(t, path)
	if dec.SampleRate != 48000 || dec.NumChans != 2 || dec.BitDepth != 16 {
		t.Errorf("header: rate=%d chans=%d depth=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if len(data) != 2*frames {
		t.Fatalf("samples: got %d want %d", len(data), 2*frames)
	}
	wantX := int(math.Round(0.5 * 32767))
	if data[0] != wantX || data[1] != -32767 {
		t.Errorf("first frame: got (%d, %d) want (%d, -32767)", data[0], data[1], wantX)
	}
}

func TestRender_engine(t *testing.T) {
	eng := engine.New()
	if err := eng.UpdateFrame([]shape.Shape{shape.NewLine(shape.Vec(-0.5, 0), shape.Vec(0.5, 0))}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "line.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWriter(f, engine.Format{SampleRate: 44100, Channels: 1}, 24)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := Render(context.Background(), eng, w, 100); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dec, data := decodeFile(t, path)
	if dec.NumChans != 1 || dec.BitDepth != 24 || len(data) != 100 {
		t.Fatalf("chans=%d depth=%d samples=%d", dec.NumChans, dec.BitDepth, len(data))
	}
	if data[0] >= 0 || data[99] <= data[0] {
		t.Errorf("line should sweep upward from the left: first=%d last=%d", data[0], data[99])
	}
}

func TestRender_cancelled(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w, _ := NewWriter(f, engine.Format{SampleRate: 8000, Channels: 1}, 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Render(ctx, constRenderer{}, w, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewWriter_invalid(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := NewWriter(f, engine.Format{SampleRate: 8000, Channels: 1}, 12); !errors.Is(err, engine.ErrUnsupportedFormat) {
		t.Errorf("bit depth 12: got %v", err)
	}
	if _, err := NewWriter(f, engine.Format{SampleRate: 0, Channels: 1}, 16); !errors.Is(err, engine.ErrUnsupportedFormat) {
		t.Errorf("zero rate: got %v", err)
	}
}

func TestWriter_WriteSamples_partial_frame(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w, _ := NewWriter(f, engine.Format{SampleRate: 8000, Channels: 2}, 16)
	if err := w.WriteSamples([]float32{0, 0, 0}); err == nil {
		t.Error("expected error for 3 samples on 2 channels")
	}
}
