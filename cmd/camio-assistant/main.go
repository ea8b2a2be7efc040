// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

// Camio-assistant runs one realtime tactile-drawing exploration
// session: it loads a drawing's assets, connects to the remote
// multimodal model over WebRTC, and relays audio and pointed-position
// context until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/camio-project/camio/asset"
	"github.com/camio-project/camio/lib/config"
	"github.com/camio-project/camio/lib/credential"
	"github.com/camio-project/camio/lib/version"
	"github.com/camio-project/camio/realtime"
	"github.com/camio-project/camio/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var drawing string
	var strategy string
	var benchmark bool
	var audioIn string
	var audioOut string
	var showVersion bool

	pflag.StringVar(&configPath, "config", "", "path to config file (default: $CAMIO_CONFIG)")
	pflag.StringVar(&drawing, "drawing", "", "drawing name, overrides assets.drawing")
	pflag.StringVar(&strategy, "strategy", "", "position strategy, overrides position.strategy")
	pflag.BoolVar(&benchmark, "benchmark", false, "run the benchmark question list (test mode)")
	pflag.StringVar(&audioIn, "audio-in", "", "ogg file replayed as microphone input")
	pflag.StringVar(&audioOut, "audio-out", "", "ogg file recording the model's audio")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("camio-assistant %s\n", version.Info())
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if drawing != "" {
		cfg.Assets.Drawing = drawing
	}
	if strategy != "" {
		cfg.Position.Strategy = strategy
	}
	if benchmark {
		cfg.Benchmark.Enabled = true
	}

	positionStrategy, err := realtime.ParseStrategy(cfg.Position.Strategy)
	if err != nil {
		return err
	}

	logger.Info("starting camio-assistant",
		"version", version.Info(),
		"drawing", cfg.Assets.Drawing,
		"strategy", cfg.Position.Strategy,
		"test_mode", cfg.Benchmark.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drawingAssets, err := asset.Load(ctx, cfg.Assets.Base, cfg.Assets.Drawing)
	if err != nil {
		return fmt.Errorf("loading drawing assets: %w", err)
	}
	prepared, err := asset.Prepare(drawingAssets, cfg.Assets.MaxImageBytes)
	if err != nil {
		return fmt.Errorf("preparing drawing assets: %w", err)
	}
	logger.Info("drawing assets prepared",
		"drawing", prepared.Drawing.Name,
		"language", prepared.Drawing.Language,
		"template_bytes", len(prepared.Template.Data),
		"color_map_bytes", len(prepared.ColorMap.Data),
	)

	var questions []realtime.BenchmarkQuestion
	if cfg.Benchmark.Enabled && cfg.Benchmark.FixtureFile != "" {
		questions, err = realtime.LoadBenchmarkQuestions(cfg.Benchmark.FixtureFile)
		if err != nil {
			return err
		}
		logger.Info("benchmark fixtures loaded", "questions", len(questions))
	}

	var microphone transport.AudioSource
	if audioIn != "" {
		microphone = &transport.OggFileSource{Path: audioIn}
	}
	var speaker transport.AudioSink
	if audioOut != "" {
		sink, err := transport.NewOggFileSink(audioOut)
		if err != nil {
			return err
		}
		defer sink.Close()
		speaker = sink
	}

	session, err := realtime.NewSession(realtime.SessionOptions{
		Logger:    logger,
		Transport: realtime.WrapTransport(transport.New(logger)),
		Credentials: &credential.HTTPProvider{
			Endpoint: cfg.Realtime.CredentialEndpoint,
		},
		Assets:             prepared,
		Microphone:         microphone,
		Speaker:            speaker,
		Transcript:         &consoleTranscript{},
		Strategy:           positionStrategy,
		CallEndpoint:       cfg.Realtime.CallEndpoint,
		Model:              cfg.Realtime.Model,
		Voice:              cfg.Realtime.Voice,
		InputTokenLimit:    cfg.Realtime.InputTokenLimit,
		PruneLimitRate:     cfg.Pruning.LimitRate,
		PruneRemovalRate:   cfg.Pruning.RemovalRate,
		MaxImageBytes:      cfg.Assets.MaxImageBytes,
		TestMode:           cfg.Benchmark.Enabled,
		BenchmarkQuestions: questions,
	})
	if err != nil {
		return err
	}

	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Stop()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case <-session.Done():
	}
	return nil
}

// consoleTranscript streams response text to stdout, one response per
// line.
type consoleTranscript struct {
	open bool
}

func (t *consoleTranscript) Reset() {
	if t.open {
		fmt.Println()
	}
	t.open = false
}

func (t *consoleTranscript) Append(text string) {
	fmt.Print(text)
	t.open = true
}
