package control

import (
	"sync"

	"github.com/pauel3312/osci-render/internal/shape"
)

// FrameSink is the ingestion side of the engine.
type FrameSink interface {
	UpdateFrame(shapes []shape.Shape) error
	AddShapes(shapes []shape.Shape) error
}

// Service manages the frame library and decides which frame is live.
type Service struct {
	repo Repository
	sink FrameSink

	mu     sync.Mutex
	active FrameID
}

// NewService returns a Service that stores frames in repo and installs them in sink.
func NewService(repo Repository, sink FrameSink) *Service {
	return &Service{repo: repo, sink: sink}
}

// AddFrame stores a frame and, if activate is set, makes it live.
func (s *Service) AddFrame(name string, shapes []shape.Shape, activate bool) (FrameID, error) {
	id, err := s.repo.AddFrame(name, shapes)
	if err != nil {
		return "", err
	}
	if activate {
		if err := s.Activate(id); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Activate installs a stored frame as the live sequence.
// The lookup happens under the same lock as RemoveFrame, so a frame removed
// concurrently is never left marked active.
func (s *Service) Activate(id FrameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.repo.GetFrame(id)
	if !ok {
		return ErrFrameNotFound
	}
	if err := s.sink.UpdateFrame(f.Shapes); err != nil {
		return err
	}
	s.active = id
	return nil
}

// RemoveFrame deletes a stored frame. Removing the live frame leaves the
// engine tracing it; only the library entry goes away.
func (s *Service) RemoveFrame(id FrameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.RemoveFrame(id); err != nil {
		return err
	}
	if s.active == id {
		s.active = ""
	}
	return nil
}

// PushFrame installs shapes directly without storing them, as procedural
// producers do for every generated frame.
func (s *Service) PushFrame(shapes []shape.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sink.UpdateFrame(shapes); err != nil {
		return err
	}
	s.active = ""
	return nil
}

// AppendLive appends shapes to whatever is live.
func (s *Service) AppendLive(shapes []shape.Shape) error {
	return s.sink.AddShapes(shapes)
}

// Active returns the ID of the live library frame, or "" if the live
// sequence did not come from the library.
func (s *Service) Active() FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Frame returns a stored frame.
func (s *Service) Frame(id FrameID) (Frame, bool) {
	return s.repo.GetFrame(id)
}

// Frames lists the library.
func (s *Service) Frames() []FrameSummary {
	active := s.Active()
	frames := s.repo.ListFrames()
	out := make([]FrameSummary, 0, len(frames))
	for _, f := range frames {
		out = append(out, summarize(f, active))
	}
	return out
}

// FrameCount returns the library size.
func (s *Service) FrameCount() int {
	return s.repo.FrameCount()
}

func summarize(f Frame, active FrameID) FrameSummary {
	return FrameSummary{
		ID:        f.ID,
		Name:      f.Name,
		Shapes:    len(f.Shapes),
		Active:    f.ID == active,
		CreatedAt: f.CreatedAt,
	}
}
