package control

// Store is the persistence abstraction for library frames.
// Implementations can be in-memory, file-based, or remote.
// The Repository uses Store for all reads and writes and serializes access
// to it; Store implementations need not be safe for concurrent use.
type Store interface {
	GetFrame(id FrameID) (*Frame, bool)
	SetFrame(f *Frame)
	DeleteFrame(id FrameID) bool
	ListFrameIDs() []FrameID
}

// InMemoryStore is an in-memory implementation of Store.
type InMemoryStore struct {
	frames map[FrameID]*Frame
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		frames: make(map[FrameID]*Frame),
	}
}

// GetFrame implements Store.GetFrame.
func (s *InMemoryStore) GetFrame(id FrameID) (*Frame, bool) {
	f, ok := s.frames[id]
	return f, ok
}

// SetFrame implements Store.SetFrame.
func (s *InMemoryStore) SetFrame(f *Frame) {
	s.frames[f.ID] = f
}

// DeleteFrame implements Store.DeleteFrame. It reports whether id existed.
func (s *InMemoryStore) DeleteFrame(id FrameID) bool {
	if _, ok := s.frames[id]; !ok {
		return false
	}
	delete(s.frames, id)
	return true
}

// ListFrameIDs implements Store.ListFrameIDs.
func (s *InMemoryStore) ListFrameIDs() []FrameID {
	ids := make([]FrameID, 0, len(s.frames))
	for id := range s.frames {
		ids = append(ids, id)
	}
	return ids
}
