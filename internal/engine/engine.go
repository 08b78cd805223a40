// Package engine turns a sequence of parametric shapes into an interleaved
// X/Y sample stream for an oscilloscope.
//
// One Engine is shared by two sides. The audio backend calls Render from its
// real-time goroutine; control goroutines install frames with UpdateFrame,
// AddShape and AddShapes and tune the transform with the Set* methods.
//
// The shape sequence and cursor sit behind a single mutex that Render holds
// for a whole block, so a frame swap never lands mid-block. Parameters are
// published as immutable snapshots through an atomic pointer and are read
// once per sample, so a change takes effect on the next sample and a
// translation speed is never paired with a half-written vector.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pauel3312/osci-render/internal/shape"
)

// Format describes the output stream the backend pulls from Render.
type Format struct {
	SampleRate float64
	Channels   int
}

// Validate reports whether the engine can render f.
func (f Format) Validate() error {
	if !(f.SampleRate > 0) || !finite(f.SampleRate) {
		return fmt.Errorf("%w: sample rate %v", ErrUnsupportedFormat, f.SampleRate)
	}
	if f.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.Channels)
	}
	return nil
}

// Observer receives engine events. Implementations must be cheap and
// non-blocking: ObserveBlock runs on the audio goroutine.
type Observer interface {
	ObserveBlock(frames int, elapsed time.Duration)
	FrameInstalled(shapes int)
	FrameRejected()
	RenderRecovered()
}

type nopObserver struct{}

func (nopObserver) ObserveBlock(int, time.Duration) {}
func (nopObserver) FrameInstalled(int)              {}
func (nopObserver) FrameRejected()                  {}
func (nopObserver) RenderRecovered()                {}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. By default the engine logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver sets the event observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.obs = o
		}
	}
}

// WithParams sets the initial parameters instead of DefaultParams.
func WithParams(p Params) Option {
	return func(e *Engine) {
		e.params.Store(&p)
	}
}

// WithEffects replaces the effect chain. Effects run in the given order and
// start disabled.
func WithEffects(effects ...NamedEffect) Option {
	return func(e *Engine) {
		e.effects.effects = append([]NamedEffect(nil), effects...)
	}
}

// Engine is the synthesis core. The zero value is not usable; call New.
type Engine struct {
	mu       sync.Mutex
	seq      Sequencer
	pipeline Pipeline
	effects  effectChain
	// last valid output, held when a sample cannot be produced
	lastX, lastY float32

	params atomic.Pointer[Params]
	// amounts of the effect chain, indexed like effects.effects
	amounts atomic.Pointer[[]float64]

	log *slog.Logger
	obs Observer
}

// New returns an Engine with an empty sequence. Render emits silence until
// a frame is installed.
func New(opts ...Option) *Engine {
	e := &Engine{
		effects: effectChain{effects: DefaultEffects()},
		log:     slog.New(slog.DiscardHandler),
		obs:     nopObserver{},
	}
	p := DefaultParams()
	e.params.Store(&p)
	for _, opt := range opts {
		opt(e)
	}
	amounts := make([]float64, len(e.effects.effects))
	e.amounts.Store(&amounts)
	return e
}

// Render fills out with len(out)/f.Channels interleaved frames. For every
// frame the X sample goes to each even channel and the Y sample to each odd
// channel. Render never fails: an empty sequence or an internal fault holds
// the last valid X/Y pair for the rest of the block.
func (e *Engine) Render(out []float32, f Format) {
	if f.Validate() != nil {
		clear(out)
		return
	}
	frames := len(out) / f.Channels
	start := time.Now()

	e.mu.Lock()
	written, err := e.renderLocked(out, frames, f)
	if err != nil {
		for i := written; i < frames; i++ {
			writeFrame(out[i*f.Channels:(i+1)*f.Channels], e.lastX, e.lastY)
		}
	}
	e.mu.Unlock()

	// a trailing partial frame is left silent
	clear(out[frames*f.Channels:])

	if err != nil {
		e.obs.RenderRecovered()
		e.log.Debug("render fault, holding last output",
			slog.Int("frame", written),
			slog.String("error", err.Error()))
	}
	e.obs.ObserveBlock(frames, time.Since(start))
}

// renderLocked produces frames until done or a panic interrupts it, in which
// case written is the index of the frame that failed. The failing shape is
// skipped so the next block carries on with the rest of the sequence.
func (e *Engine) renderLocked(out []float32, frames int, f Format) (written int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
			e.seq.next()
		}
	}()
	for written = 0; written < frames; written++ {
		x, y := e.nextSample(f.SampleRate)
		writeFrame(out[written*f.Channels:(written+1)*f.Channels], x, y)
		e.lastX, e.lastY = x, y
	}
	return written, nil
}

// nextSample emits one X/Y pair and advances the cursor. Caller holds e.mu.
func (e *Engine) nextSample(sampleRate float64) (float32, float32) {
	s := e.seq.Current()
	if s == nil {
		return e.lastX, e.lastY
	}
	p := e.params.Load()
	amounts := *e.amounts.Load()

	budget := shape.Budget(s)
	if !(budget > 0) {
		e.seq.next()
		return e.lastX, e.lastY
	}
	t := e.pipeline.Apply(s, p, sampleRate)
	progress := e.seq.Progress(budget)
	x, y := t.NextX(progress), t.NextY(progress)
	if len(amounts) > 0 {
		v := e.effects.apply(shape.Vec(float64(x), float64(y)), amounts, sampleRate)
		x, y = float32(v.X), float32(v.Y)
	}
	e.seq.Advance(budget)
	return p.output(x), p.output(y)
}

func writeFrame(frame []float32, x, y float32) {
	for c := range frame {
		if c%2 == 0 {
			frame[c] = x
		} else {
			frame[c] = y
		}
	}
}

// UpdateFrame replaces the live sequence with shapes and rewinds the cursor
// to the first shape with no samples drawn. An empty or invalid frame is
// rejected and the previous sequence keeps playing.
func (e *Engine) UpdateFrame(shapes []shape.Shape) error {
	if err := e.validate(shapes, true); err != nil {
		return err
	}
	frame := append([]shape.Shape(nil), shapes...)

	e.mu.Lock()
	e.seq.Replace(frame)
	e.mu.Unlock()

	e.obs.FrameInstalled(len(frame))
	e.log.Debug("frame installed", slog.Int("shapes", len(frame)))
	return nil
}

// AddShape appends s to the live sequence without moving the cursor.
func (e *Engine) AddShape(s shape.Shape) error {
	return e.AddShapes([]shape.Shape{s})
}

// AddShapes appends shapes to the live sequence without moving the cursor.
// Adding nothing is a no-op.
func (e *Engine) AddShapes(shapes []shape.Shape) error {
	if len(shapes) == 0 {
		return nil
	}
	if err := e.validate(shapes, false); err != nil {
		return err
	}
	e.mu.Lock()
	e.seq.Append(shapes...)
	n := e.seq.Len()
	e.mu.Unlock()

	e.log.Debug("shapes appended", slog.Int("added", len(shapes)), slog.Int("shapes", n))
	return nil
}

func (e *Engine) validate(shapes []shape.Shape, whole bool) error {
	var err error
	if whole && len(shapes) == 0 {
		err = ErrEmptyFrame
	}
	for i, s := range shapes {
		if err != nil {
			break
		}
		if !shape.Valid(s) {
			err = fmt.Errorf("shape %d: %w", i, ErrDegenerateShape)
		}
	}
	if err == nil {
		return nil
	}
	if strictPreconditions {
		panic(err)
	}
	e.obs.FrameRejected()
	e.log.Warn("frame rejected", slog.String("error", err.Error()))
	return err
}

// Status is a point-in-time view of playback.
type Status struct {
	Cursor
	Shapes int `json:"shapes"`
}

// Status returns the cursor and sequence length.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{Cursor: e.seq.Cursor(), Shapes: e.seq.Len()}
}

// Params returns the current parameter snapshot.
func (e *Engine) Params() Params {
	return *e.params.Load()
}

func (e *Engine) updateParams(fn func(*Params)) {
	for {
		old := e.params.Load()
		next := *old
		fn(&next)
		if e.params.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetRotateSpeed sets the rotation oscillator frequency; 0 freezes rotation.
func (e *Engine) SetRotateSpeed(speed float64) error {
	if !finite(speed) {
		return ErrNonFinite
	}
	e.updateParams(func(p *Params) { p.RotateSpeed = speed })
	return nil
}

// SetTranslation sets the sweep frequency and the vector swept along.
// Both are published together.
func (e *Engine) SetTranslation(speed float64, v shape.Vector2) error {
	if !finite(speed) || !v.IsFinite() {
		return ErrNonFinite
	}
	e.updateParams(func(p *Params) {
		p.TranslateSpeed = speed
		p.TranslateVector = v
	})
	return nil
}

// SetScale sets the uniform scale factor; 1 is the identity.
func (e *Engine) SetScale(factor float64) error {
	if !finite(factor) {
		return ErrNonFinite
	}
	e.updateParams(func(p *Params) { p.Scale = factor })
	return nil
}

// SetOutput sets the output volume and clip threshold.
func (e *Engine) SetOutput(volume, threshold float64) error {
	if !finite(volume, threshold) {
		return ErrNonFinite
	}
	if threshold < 0 {
		return fmt.Errorf("%w: threshold %v", ErrOutOfRange, threshold)
	}
	e.updateParams(func(p *Params) {
		p.Volume = volume
		p.Threshold = threshold
	})
	return nil
}

// SetEffect sets the amount of the named effect. 0 disables it.
func (e *Engine) SetEffect(name string, amount float64) error {
	i := e.effects.lookup(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	if !finite(amount) {
		return ErrNonFinite
	}
	if amount < 0 || amount > 1 {
		return fmt.Errorf("%w: %s amount %v", ErrOutOfRange, name, amount)
	}
	for {
		old := e.amounts.Load()
		next := append([]float64(nil), *old...)
		next[i] = amount
		if e.amounts.CompareAndSwap(old, &next) {
			return nil
		}
	}
}

// Effects returns the effect chain in application order with live amounts.
func (e *Engine) Effects() []EffectSetting {
	amounts := *e.amounts.Load()
	out := make([]EffectSetting, len(e.effects.effects))
	for i, fx := range e.effects.effects {
		out[i] = EffectSetting{Name: fx.Name, Amount: amounts[i]}
	}
	return out
}
