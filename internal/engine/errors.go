package engine

import "errors"

var (
	// ErrEmptyFrame is returned when a frame with no shapes would be made live.
	// The previous sequence keeps playing.
	ErrEmptyFrame = errors.New("frame has no shapes")

	// ErrDegenerateShape is returned for a shape whose sample budget
	// (length * weight) is not a positive finite number.
	ErrDegenerateShape = errors.New("shape has no drawable length")

	// ErrNonFinite is returned by parameter setters given NaN or ±Inf.
	// The previous value is retained.
	ErrNonFinite = errors.New("parameter is not finite")

	// ErrUnsupportedFormat is returned for a sample rate or channel count
	// the engine cannot render.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrOutOfRange is returned for a finite setting outside its valid range,
	// such as a negative clip threshold or an effect amount above 1.
	ErrOutOfRange = errors.New("parameter out of range")

	// ErrUnknownEffect is returned when no effect in the chain has the name.
	ErrUnknownEffect = errors.New("unknown effect")
)
