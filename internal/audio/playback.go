package audio

import (
	"context"
	"log/slog"
	"time"
)

// Player is an open output stream.
type Player interface {
	Err() error
	Close() error
}

// StartPlayback opens a player with open, giving it timeout to become ready.
// A failure, such as an unsupported format or a missing device, is logged
// and StartPlayback returns nil: playback stays off and the caller keeps
// running.
func StartPlayback(log *slog.Logger, timeout time.Duration, open func(ctx context.Context) (Player, error)) Player {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	p, err := open(ctx)
	if err != nil {
		log.Error("audio device unavailable, continuing without playback", slog.String("error", err.Error()))
		return nil
	}
	return p
}

// StopPlayback reports any playback error and closes p. A nil p is a no-op.
func StopPlayback(log *slog.Logger, p Player) {
	if p == nil {
		return
	}
	if err := p.Err(); err != nil {
		log.Error("audio playback error", slog.String("error", err.Error()))
	}
	if err := p.Close(); err != nil {
		log.Error("audio device close error", slog.String("error", err.Error()))
	}
}
