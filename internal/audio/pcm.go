// Package audio adapts the engine's render callback to byte-oriented
// sinks such as a sound card or a file.
package audio

import (
	"encoding/binary"
	"math"

	"github.com/pauel3312/osci-render/internal/engine"
)

// Renderer fills interleaved float32 frames. *engine.Engine satisfies it.
type Renderer interface {
	Render(out []float32, f engine.Format)
}

// maxBlockFrames caps how many frames one Read renders.
const maxBlockFrames = 4096

// PCMReader is an io.Reader producing float32 little-endian PCM by pulling
// blocks from a Renderer. It never returns io.EOF.
type PCMReader struct {
	r       Renderer
	format  engine.Format
	block   []float32
	buf     []byte
	pending []byte
}

// NewPCMReader returns a reader rendering in format f.
func NewPCMReader(r Renderer, f engine.Format) *PCMReader {
	return &PCMReader{r: r, format: f}
}

// FrameBytes is the size of one interleaved frame.
func (p *PCMReader) FrameBytes() int {
	return 4 * p.format.Channels
}

func (p *PCMReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(p.pending) == 0 {
		frames := len(b) / p.FrameBytes()
		frames = max(1, min(frames, maxBlockFrames))
		p.fill(frames)
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

// fill renders frames into pending. Leftover bytes from a short read are
// served before the next block so channels stay aligned.
func (p *PCMReader) fill(frames int) {
	samples := frames * p.format.Channels
	if cap(p.block) < samples {
		p.block = make([]float32, samples)
		p.buf = make([]byte, 4*samples)
	}
	block := p.block[:samples]
	p.r.Render(block, p.format)

	out := p.buf[:4*samples]
	for i, s := range block {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
	}
	p.pending = out
}
