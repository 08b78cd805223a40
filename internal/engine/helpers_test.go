package engine

import (
	"sync/atomic"
	"time"

	"github.com/pauel3312/osci-render/internal/shape"
)

// budgetShape has a fixed budget and emits (id, progress).
type budgetShape struct {
	id     float32
	budget float64
}

func (s budgetShape) Length() float64                     { return s.budget }
func (s budgetShape) Weight() float64                     { return 1 }
func (s budgetShape) NextX(float64) float32               { return s.id }
func (s budgetShape) NextY(p float64) float32             { return float32(p) }
func (s budgetShape) Scale(float64) shape.Shape           { return s }
func (s budgetShape) Rotate(float64) shape.Shape          { return s }
func (s budgetShape) Translate(shape.Vector2) shape.Shape { return s }

// faultyShape panics when sampled.
type faultyShape struct{ budgetShape }

func (faultyShape) NextX(float64) float32 { panic("boom") }

type countingObserver struct {
	blocks, installed, rejected, recovered atomic.Int64
}

func (o *countingObserver) ObserveBlock(int, time.Duration) { o.blocks.Add(1) }
func (o *countingObserver) FrameInstalled(int)              { o.installed.Add(1) }
func (o *countingObserver) FrameRejected()                  { o.rejected.Add(1) }
func (o *countingObserver) RenderRecovered()                { o.recovered.Add(1) }

func ids(n int, budget float64) []shape.Shape {
	out := make([]shape.Shape, n)
	for i := range out {
		out[i] = budgetShape{id: float32(i), budget: budget}
	}
	return out
}
