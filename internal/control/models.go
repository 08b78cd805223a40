package control

import (
	"time"

	"github.com/pauel3312/osci-render/internal/shape"
)

// FrameID uniquely identifies a frame in the library.
type FrameID string

// Frame is a named shape sequence kept in the library until removed.
type Frame struct {
	ID        FrameID
	Name      string
	Shapes    []shape.Shape
	CreatedAt time.Time
}

// FrameSummary is the listing form of a Frame.
type FrameSummary struct {
	ID        FrameID   `json:"id"`
	Name      string    `json:"name"`
	Shapes    int       `json:"shapes"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// frameRequest is the body of POST /frames.
type frameRequest struct {
	Name     string      `json:"name"`
	Shapes   []ShapeJSON `json:"shapes"`
	Activate bool        `json:"activate"`
}

type frameCreated struct {
	ID FrameID `json:"id"`
}

type frameDetail struct {
	FrameSummary
	Data []ShapeJSON `json:"data"`
}

// Parameter bodies. Absent fields keep their current value; text values
// that do not parse become 0.
type rotationRequest struct {
	Speed *lenientFloat `json:"speed"`
}

type translationRequest struct {
	Speed *lenientFloat `json:"speed"`
	X     *lenientFloat `json:"x"`
	Y     *lenientFloat `json:"y"`
}

type scaleRequest struct {
	Factor *lenientFloat `json:"factor"`
}

type outputRequest struct {
	Volume    *lenientFloat `json:"volume"`
	Threshold *lenientFloat `json:"threshold"`
}

type effectRequest struct {
	Amount *lenientFloat `json:"amount"`
}

// streamAck answers every message received on the frame stream.
type streamAck struct {
	Seq   int    `json:"seq"`
	Error string `json:"error,omitempty"`
}
