package control

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pauel3312/osci-render/internal/engine"
	"github.com/pauel3312/osci-render/internal/shape"
)

// Repository defines the concurrency-safe contract for the frame library.
type Repository interface {
	// AddFrame validates and stores shapes under a new ID. Empty frames and
	// frames with degenerate shapes are rejected so that anything stored
	// can later be made live.
	AddFrame(name string, shapes []shape.Shape) (FrameID, error)

	// GetFrame returns a copy of the frame. ok is false if it does not exist.
	GetFrame(id FrameID) (f Frame, ok bool)

	// RemoveFrame deletes a frame, returning ErrFrameNotFound if absent.
	RemoveFrame(id FrameID) error

	// ListFrames returns all frames ordered by creation time.
	ListFrames() []Frame

	// FrameCount returns the number of stored frames. Used for metrics.
	FrameCount() int
}

// ErrFrameNotFound is returned when a frame ID is not in the library.
var ErrFrameNotFound = errors.New("frame not found")

// InMemoryRepository is a concurrency-safe in-memory implementation of Repository.
// It uses a Store for persistence; by default that is an InMemoryStore.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store Store
}

// NewInMemoryRepository constructs a new repository with a default in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return NewInMemoryRepositoryWithStore(NewInMemoryStore())
}

// NewInMemoryRepositoryWithStore constructs a repository that uses the given Store.
func NewInMemoryRepositoryWithStore(store Store) *InMemoryRepository {
	return &InMemoryRepository{store: store}
}

// AddFrame implements Repository.AddFrame.
func (r *InMemoryRepository) AddFrame(name string, shapes []shape.Shape) (FrameID, error) {
	if len(shapes) == 0 {
		return "", engine.ErrEmptyFrame
	}
	for i, s := range shapes {
		if !shape.Valid(s) {
			return "", fmt.Errorf("shape %d: %w", i, engine.ErrDegenerateShape)
		}
	}

	f := &Frame{
		ID:        FrameID(uuid.NewString()),
		Name:      name,
		Shapes:    append([]shape.Shape(nil), shapes...),
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.SetFrame(f)
	return f.ID, nil
}

// GetFrame implements Repository.GetFrame.
func (r *InMemoryRepository) GetFrame(id FrameID) (Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.store.GetFrame(id)
	if !ok {
		return Frame{}, false
	}
	return copyFrame(f), true
}

// RemoveFrame implements Repository.RemoveFrame.
func (r *InMemoryRepository) RemoveFrame(id FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.store.DeleteFrame(id) {
		return ErrFrameNotFound
	}
	return nil
}

// ListFrames implements Repository.ListFrames.
func (r *InMemoryRepository) ListFrames() []Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.store.ListFrameIDs()
	frames := make([]Frame, 0, len(ids))
	for _, id := range ids {
		if f, ok := r.store.GetFrame(id); ok {
			frames = append(frames, copyFrame(f))
		}
	}
	sort.Slice(frames, func(i, j int) bool {
		if frames[i].CreatedAt.Equal(frames[j].CreatedAt) {
			return frames[i].ID < frames[j].ID
		}
		return frames[i].CreatedAt.Before(frames[j].CreatedAt)
	})
	return frames
}

// FrameCount implements Repository.FrameCount.
func (r *InMemoryRepository) FrameCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store.ListFrameIDs())
}

// copyFrame detaches the shape slice from the stored frame. Shapes are
// values, so copying the slice header's backing array is enough.
func copyFrame(f *Frame) Frame {
	out := *f
	out.Shapes = append([]shape.Shape(nil), f.Shapes...)
	return out
}
