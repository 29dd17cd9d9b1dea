// Package app provides application-level orchestration and dependency
// injection. This package wires together all components and manages the
// application lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/Ajinqya/sketchloop/internal/adapter/eventbus"
	"github.com/Ajinqya/sketchloop/internal/adapter/frameclock"
	fyneui "github.com/Ajinqya/sketchloop/internal/adapter/ui/fyne"
	"github.com/Ajinqya/sketchloop/internal/audio"
	audiomock "github.com/Ajinqya/sketchloop/internal/audio/mock"
	"github.com/Ajinqya/sketchloop/internal/logger"
	"github.com/Ajinqya/sketchloop/internal/player"
	"github.com/Ajinqya/sketchloop/internal/ports"
	"github.com/Ajinqya/sketchloop/internal/sketch"
	"github.com/Ajinqya/sketchloop/internal/sketch/sketches"
)

// Application is the root application structure that holds all
// dependencies, created and wired by NewApplication.
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus ports.EventBus
	clock    ports.FrameClock
	manual   *frameclock.Manual
	pipeline ports.AudioPipeline

	// Engine
	registry *sketch.Registry
	player   *player.Player

	// UI (absent in headless mode)
	hostWindow *fyneui.HostWindow

	config Config
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// Sketch is the ID of the sketch to run
	Sketch string

	// AudioPath is an optional media file attached at startup
	AudioPath string

	// Headless runs the manual clock for Frames frames and exits instead
	// of opening a window
	Headless bool

	// Frames is the frame count rendered in headless mode
	Frames int

	// RefreshRate is the host clock rate in frames per second
	RefreshRate int

	// PixelScale is the device pixel scale factor
	PixelScale float64

	// UseMockAudio determines whether to use a mock audio pipeline (for
	// testing)
	UseMockAudio bool

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// TestFyneApp allows injecting a test Fyne app for testing (nil for
	// production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:       "com.sketchloop.app",
		Sketch:      "spectrum",
		Frames:      300,
		RefreshRate: frameclock.DefaultRefreshRate,
		PixelScale:  1.0,
		LogLevel:    loggerCfg.Level,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{config: config}

	loggerCfg := logger.Config{
		Level:  config.LogLevel,
		Format: "text",
	}
	app.logger = logger.NewLogger(loggerCfg)
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("sketch", config.Sketch))

	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	if config.Headless {
		app.manual = frameclock.NewManual()
		app.clock = app.manual
	} else {
		ticker := frameclock.NewTicker(config.RefreshRate)
		ticker.SetLogger(app.logger.With(slog.String("component", "frameclock")))
		app.clock = ticker
	}

	if config.UseMockAudio {
		app.pipeline = audiomock.NewPipeline()
	} else {
		app.pipeline = audio.NewPipeline(
			app.logger.With(slog.String("component", "audio")),
			app.eventBus,
		)
	}

	app.registry = sketch.NewRegistry(app.logger.With(slog.String("component", "registry")))
	if err := sketches.RegisterAll(app.registry); err != nil {
		return nil, fmt.Errorf("failed to register built-in sketches: %w", err)
	}

	desc, err := app.registry.Get(config.Sketch)
	if err != nil {
		return nil, fmt.Errorf("unknown sketch %q: %w", config.Sketch, err)
	}

	app.player, err = player.New(
		app.logger.With(slog.String("component", "player")),
		app.eventBus,
		app.clock,
		app.pipeline,
		desc,
		player.WithPixelScale(config.PixelScale),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if config.AudioPath != "" {
		if err := app.player.LoadAudio(context.Background(), config.AudioPath); err != nil {
			// Non-fatal - the player falls back to synthetic audio data
			app.logger.Warn("failed to load audio", slog.Any("error", err))
		}
	}

	if !config.Headless {
		if config.TestFyneApp != nil {
			app.fyneApp = config.TestFyneApp
		} else {
			app.fyneApp = fyneapp.NewWithID(config.AppID)
		}
		app.hostWindow = fyneui.NewHostWindow(
			app.fyneApp,
			app.logger.With(slog.String("component", "window")),
			app.eventBus,
			app.player,
		)
	}

	return app, nil
}

// Registry exposes the sketch registry, used by the CLI for listing.
func (a *Application) Registry() *sketch.Registry {
	return a.registry
}

// Player exposes the wired player.
func (a *Application) Player() *player.Player {
	return a.player
}

// Run starts the application and blocks until it finishes: window close in
// windowed mode, the configured frame count in headless mode.
func (a *Application) Run() error {
	if err := a.player.Play(); err != nil {
		return err
	}

	if a.config.Headless {
		return a.runHeadless()
	}

	a.logger.Info("sketchloop started")
	a.hostWindow.ShowAndRun()
	return nil
}

// runHeadless drives the manual clock for the configured frame count.
func (a *Application) runHeadless() error {
	step := time.Second / time.Duration(a.config.RefreshRate)

	a.logger.Info("running headless",
		slog.Int("frames", a.config.Frames),
		slog.Int("refresh_rate", a.config.RefreshRate))

	for i := 0; i < a.config.Frames; i++ {
		a.manual.Advance(step)
	}

	state := a.player.State()
	a.logger.Info("headless run complete",
		slog.Int("frame", state.Frame),
		slog.Float64("time", state.Time))

	return a.player.Pause()
}

// Shutdown gracefully shuts down the application. This should be called
// via deferring in main.go.
func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	if a.hostWindow != nil {
		a.hostWindow.Close()
	}

	if a.player != nil {
		a.player.Destroy()
	}

	if a.pipeline != nil {
		if err := a.pipeline.Close(); err != nil {
			a.logger.Warn("failed to close audio pipeline", slog.Any("error", err))
		}
	}

	if a.clock != nil {
		a.clock.Stop()
	}

	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}
	}

	a.logger.Info("application shutdown complete")
}
