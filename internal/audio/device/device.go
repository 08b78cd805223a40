// Package device plays the engine on the default sound card through oto.
package device

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/oto/v2"

	"github.com/pauel3312/osci-render/internal/audio"
	"github.com/pauel3312/osci-render/internal/engine"
)

// Stream is an open output device pulling samples from a Renderer.
type Stream struct {
	ctx    *oto.Context
	player oto.Player
	log    *slog.Logger
}

// Open starts playback of r in format f. The sound card is driven from
// oto's own goroutine, so r must be safe for concurrent use. Open blocks
// until the device is ready or ctx is done.
func Open(ctx context.Context, r audio.Renderer, f engine.Format, log *slog.Logger) (*Stream, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Channels > 2 {
		return nil, fmt.Errorf("%w: device supports 1 or 2 channels, got %d", engine.ErrUnsupportedFormat, f.Channels)
	}

	otoCtx, ready, err := oto.NewContext(int(f.SampleRate), f.Channels, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	player := otoCtx.NewPlayer(audio.NewPCMReader(r, f))
	player.Play()

	log.Info("audio device opened",
		slog.Float64("sample_rate", f.SampleRate),
		slog.Int("channels", f.Channels))
	return &Stream{ctx: otoCtx, player: player, log: log}, nil
}

// Err returns the error that stopped playback, if any.
func (s *Stream) Err() error {
	return s.player.Err()
}

// Close stops playback.
func (s *Stream) Close() error {
	s.player.Pause()
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("close audio player: %w", err)
	}
	s.log.Info("audio device closed")
	return nil
}
