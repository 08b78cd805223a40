// Package record renders the engine offline into WAV files.
package record

import (
	"context"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/pauel3312/osci-render/internal/audio"
	"github.com/pauel3312/osci-render/internal/engine"
)

// blockFrames is the render block size used by Render.
const blockFrames = 1024

// wavPCM is the WAV format tag for integer PCM.
const wavPCM = 1

// Writer encodes float32 frames as integer PCM WAV.
type Writer struct {
	enc    *wav.Encoder
	format engine.Format
	peak   float64
	buf    *goaudio.IntBuffer
	frames int
}

// NewWriter starts a WAV stream on w. bitDepth is 16, 24 or 32. The
// header is finalised by Close, which is why w must be seekable.
func NewWriter(w io.WriteSeeker, f engine.Format, bitDepth int) (*Writer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: bit depth %d", engine.ErrUnsupportedFormat, bitDepth)
	}
	sr := int(f.SampleRate)
	return &Writer{
		enc:    wav.NewEncoder(w, sr, bitDepth, f.Channels, wavPCM),
		format: f,
		peak:   math.Pow(2, float64(bitDepth-1)) - 1,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: sr},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples appends interleaved samples. Values are clamped to [-1, 1].
// len(samples) must be a whole number of frames.
func (w *Writer) WriteSamples(samples []float32) error {
	if len(samples)%w.format.Channels != 0 {
		return fmt.Errorf("%d samples is not a whole number of %d-channel frames", len(samples), w.format.Channels)
	}
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = quantize(float64(s), w.peak)
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	w.frames += len(samples) / w.format.Channels
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Close finalises the WAV header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}

func quantize(s, peak float64) int {
	if math.IsNaN(s) {
		return 0
	}
	s = max(-1, min(1, s))
	return int(math.Round(s * peak))
}

// Render pulls frames from r in blocks and writes them to w. It stops early
// with ctx's error if ctx is cancelled.
func Render(ctx context.Context, r audio.Renderer, w *Writer, frames int) error {
	block := make([]float32, blockFrames*w.format.Channels)
	for done := 0; done < frames; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(blockFrames, frames-done)
		out := block[:n*w.format.Channels]
		r.Render(out, w.format)
		if err := w.WriteSamples(out); err != nil {
			return err
		}
		done += n
	}
	return nil
}
