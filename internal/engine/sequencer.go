package engine

import "github.com/pauel3312/osci-render/internal/shape"

// Cursor is the playback position within the live shape sequence.
type Cursor struct {
	Index        int `json:"index"`
	SamplesDrawn int `json:"samples_drawn"`
}

// Sequencer owns the live shape sequence and the cursor walking it.
// Callers serialize access; the Engine does so with its mutex.
type Sequencer struct {
	shapes []shape.Shape
	cursor Cursor
}

// Len returns the number of shapes in the sequence.
func (s *Sequencer) Len() int {
	return len(s.shapes)
}

// Cursor returns the current playback position.
func (s *Sequencer) Cursor() Cursor {
	return s.cursor
}

// Current returns the shape under the cursor, or nil for an empty sequence.
// The index is reduced modulo the length, so a sequence that shrank by any
// amount since the last access still resolves to a valid shape.
func (s *Sequencer) Current() shape.Shape {
	n := len(s.shapes)
	if n == 0 {
		return nil
	}
	if s.cursor.Index >= n || s.cursor.Index < 0 {
		s.cursor.Index = ((s.cursor.Index % n) + n) % n
	}
	return s.shapes[s.cursor.Index]
}

// Progress returns the drawing progress for a shape with the given budget.
func (s *Sequencer) Progress(budget float64) float64 {
	return float64(s.cursor.SamplesDrawn) / budget
}

// Advance counts one emitted sample. Once SamplesDrawn exceeds budget it
// resets to 0 and the cursor moves to the next shape, so a shape with
// budget B is drawn for floor(B)+1 samples.
func (s *Sequencer) Advance(budget float64) {
	s.cursor.SamplesDrawn++
	if float64(s.cursor.SamplesDrawn) > budget {
		s.next()
	}
}

func (s *Sequencer) next() {
	s.cursor.SamplesDrawn = 0
	s.cursor.Index++
	if n := len(s.shapes); n > 0 {
		s.cursor.Index %= n
	}
}

// Replace installs shapes as the whole sequence and rewinds the cursor,
// including SamplesDrawn, so no stale progress carries into the new frame.
func (s *Sequencer) Replace(shapes []shape.Shape) {
	s.shapes = shapes
	s.cursor = Cursor{}
}

// Append adds shapes at the end without moving the cursor.
func (s *Sequencer) Append(shapes ...shape.Shape) {
	// copy so a slice handed out earlier is never written through
	next := make([]shape.Shape, 0, len(s.shapes)+len(shapes))
	next = append(next, s.shapes...)
	s.shapes = append(next, shapes...)
}
