package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pauel3312/osci-render/internal/audio"
	"github.com/pauel3312/osci-render/internal/audio/device"
	"github.com/pauel3312/osci-render/internal/control"
	"github.com/pauel3312/osci-render/internal/engine"
	"github.com/pauel3312/osci-render/internal/platform/config"
	"github.com/pauel3312/osci-render/internal/platform/logger"
	"github.com/pauel3312/osci-render/internal/platform/metrics"
	"github.com/pauel3312/osci-render/internal/shape"
)

const (
	shutdownTimeout = 10 * time.Second
	deviceTimeout   = 5 * time.Second
)

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	format := engine.Format{
		SampleRate: config.GetEnvFloat("SAMPLE_RATE", 48000),
		Channels:   config.GetEnvInt("CHANNELS", 2),
	}
	audioDisabled := config.GetEnvBool("AUDIO_DISABLED", false)

	params := engine.DefaultParams()
	params.RotateSpeed = config.GetEnvFloat("ROTATE_SPEED", 0.4)
	params.TranslateSpeed = config.GetEnvFloat("TRANSLATE_SPEED", 0)
	params.TranslateVector = shape.Vec(config.GetEnvFloat("TRANSLATE_X", 0), config.GetEnvFloat("TRANSLATE_Y", 0))
	params.Scale = config.GetEnvFloat("SCALE", 1)

	log := logger.New(logLevel, logFormat)
	met := metrics.New()

	eng := engine.New(
		engine.WithLogger(log.With("component", "engine")),
		engine.WithObserver(met),
		engine.WithParams(params),
	)

	var player audio.Player
	if !audioDisabled {
		player = audio.StartPlayback(log, deviceTimeout, func(ctx context.Context) (audio.Player, error) {
			s, err := device.Open(ctx, eng, format, log)
			if err != nil {
				return nil, err
			}
			return s, nil
		})
	}

	repo := control.NewInMemoryRepository()
	svc := control.NewService(repo, eng)
	h := control.NewHandler(svc, eng, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() {
			met.SetLiveShapes(eng.Status().Shapes)
			met.SetStoredFrames(svc.FrameCount())
		}).ServeHTTP(w, r)
	})
	h.Routes(r)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"sample_rate", format.SampleRate,
		"channels", format.Channels,
		"audio", player != nil,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	// Leave the beam at rest before the device stops pulling samples.
	_ = eng.SetOutput(0, params.Threshold)
	audio.StopPlayback(log, player)

	log.Info("server stopped", "shapes", eng.Status().Shapes)
}
