package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pauel3312/osci-render/internal/audio/record"
	"github.com/pauel3312/osci-render/internal/control"
	"github.com/pauel3312/osci-render/internal/engine"
	"github.com/pauel3312/osci-render/internal/platform/logger"
)

func main() {
	in := flag.String("in", "", "JSON file holding an array of shapes (required)")
	out := flag.String("out", "out.wav", "WAV file to write")
	seconds := flag.Float64("seconds", 5, "Length of the recording")
	sampleRate := flag.Int("rate", 48000, "Sample rate in Hz")
	channels := flag.Int("channels", 2, "Output channels (X on even, Y on odd)")
	bitDepth := flag.Int("bits", 16, "Bit depth: 16, 24, 32")
	rotate := flag.Float64("rotate", 0, "Rotation speed in Hz")
	translate := flag.Float64("translate", 0, "Translation sweep speed in Hz")
	tx := flag.Float64("tx", 0, "Translation vector X")
	ty := flag.Float64("ty", 0, "Translation vector Y")
	scale := flag.Float64("scale", 1, "Scale factor")
	effects := flag.String("effects", "", "Comma-separated name=amount pairs, e.g. bit_crush=0.5,distort_x=0.1")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if *in == "" {
		fmt.Fprintf(os.Stderr, "Error: -in flag is required\n\n")
		fmt.Fprintf(os.Stderr, "Usage example:\n")
		fmt.Fprintf(os.Stderr, "  oscirender-wav -in square.json -out square.wav -seconds 10 -rotate 0.4\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logger.New(*logLevel, "text")

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Error("read shapes", "error", err)
		os.Exit(1)
	}
	shapes, err := control.DecodeShapes(data)
	if err != nil {
		log.Error("decode shapes", "path", *in, "error", err)
		os.Exit(1)
	}

	params := engine.DefaultParams()
	params.RotateSpeed = *rotate
	params.TranslateSpeed = *translate
	params.TranslateVector.X = *tx
	params.TranslateVector.Y = *ty
	params.Scale = *scale

	eng := engine.New(engine.WithLogger(log), engine.WithParams(params))
	if err := applyEffects(eng, *effects); err != nil {
		log.Error("effects", "error", err)
		os.Exit(1)
	}
	if err := eng.UpdateFrame(shapes); err != nil {
		log.Error("install frame", "error", err)
		os.Exit(1)
	}

	format := engine.Format{SampleRate: float64(*sampleRate), Channels: *channels}
	if err := run(eng, *out, format, *bitDepth, int(*seconds*float64(*sampleRate))); err != nil {
		log.Error("render failed", "error", err)
		os.Exit(1)
	}
	log.Info("wrote recording", "path", *out, "shapes", len(shapes), "seconds", *seconds)
}

func run(eng *engine.Engine, path string, format engine.Format, bitDepth, frames int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := record.NewWriter(f, format, bitDepth)
	if err != nil {
		return err
	}
	renderErr := record.Render(ctx, eng, w, frames)
	// finalise the header even when interrupted so the partial file plays
	if err := w.Close(); err != nil {
		return err
	}
	return renderErr
}

func applyEffects(eng *engine.Engine, spec string) error {
	if spec == "" {
		return nil
	}
	for _, pair := range strings.Split(spec, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return fmt.Errorf("effect %q: want name=amount", pair)
		}
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("effect %s: %w", name, err)
		}
		if err := eng.SetEffect(name, amount); err != nil {
			return err
		}
	}
	return nil
}
