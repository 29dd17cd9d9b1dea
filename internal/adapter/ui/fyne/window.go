// Package fyne hosts the player surface in a desktop window: it displays
// the drawing surface through a raster widget, exposes transport controls
// and mirrors playback events onto the UI. Everything else stays in the
// engine; this adapter is deliberately a thin shell.
package fyne

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Ajinqya/sketchloop/internal/domain"
	"github.com/Ajinqya/sketchloop/internal/player"
	"github.com/Ajinqya/sketchloop/internal/ports"
)

// HostWindow displays a single player and forwards transport input to it.
//
// UI updates driven by engine events arrive on the frame clock goroutine
// and are marshaled onto the UI thread with fyne.Do; handlers never call
// back into the player synchronously.
type HostWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	logger *slog.Logger
	bus    ports.EventBus
	player *player.Player

	surface    *canvas.Raster
	playButton *widget.Button
	timeLabel  *widget.Label
	seekSlider *widget.Slider

	// seeking suppresses slider feedback loops while the user drags.
	seeking bool

	subscriptions []domain.SubscriptionID
	closeOnce     sync.Once
}

// NewHostWindow creates the window for a player. Show and run it with
// ShowAndRun from the main goroutine.
func NewHostWindow(
	app fyneapp.App,
	logger *slog.Logger,
	bus ports.EventBus,
	pl *player.Player,
) *HostWindow {
	w := &HostWindow{
		app:    app,
		logger: logger,
		bus:    bus,
		player: pl,
	}

	desc := pl.Descriptor()
	w.window = app.NewWindow(fmt.Sprintf("sketchloop - %s", desc.Name))

	w.buildUI()
	w.subscribeToEvents()
	w.addShortcuts()

	w.window.Resize(fyneapp.Size{
		Width:  float32(desc.Width),
		Height: float32(desc.Height) + 60,
	})
	w.window.SetFixedSize(true)

	return w
}

// buildUI constructs the surface and the transport strip.
func (w *HostWindow) buildUI() {
	desc := w.player.Descriptor()

	w.surface = canvas.NewRaster(func(_, _ int) image.Image {
		return w.player.Image()
	})

	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		if err := w.player.Toggle(); err != nil {
			w.logger.Warn("toggle failed", slog.Any("error", err))
		}
	})
	restartButton := widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), func() {
		if err := w.player.Restart(); err != nil {
			w.logger.Warn("restart failed", slog.Any("error", err))
		}
	})

	w.timeLabel = widget.NewLabel("0.00s")

	maxSeek := desc.Duration.Seconds()
	if desc.Infinite() {
		maxSeek = 60
	}
	w.seekSlider = widget.NewSlider(0, maxSeek)
	w.seekSlider.Step = 0.01
	w.seekSlider.OnChangeEnded = func(v float64) {
		w.seeking = false
		if err := w.player.Seek(v); err != nil {
			w.logger.Warn("seek failed", slog.Any("error", err))
		}
	}
	w.seekSlider.OnChanged = func(float64) {
		w.seeking = true
	}

	transport := container.NewBorder(nil, nil,
		container.NewHBox(restartButton, w.playButton),
		w.timeLabel,
		w.seekSlider)

	w.window.SetContent(container.NewBorder(nil, transport, nil, nil, w.surface))
}

// subscribeToEvents mirrors engine events onto the UI.
func (w *HostWindow) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		domain.EventFrameRendered:   w.onFrameRendered,
		domain.EventPlaybackStarted: w.onPlaybackStarted,
		domain.EventPlaybackPaused:  w.onPlaybackPaused,
		domain.EventSeeked:          w.onFrameRendered,
	}

	for eventType, handler := range subscriptions {
		w.subscriptions = append(w.subscriptions, w.bus.Subscribe(eventType, handler))
	}
}

func (w *HostWindow) onFrameRendered(domain.Event) {
	fyneapp.Do(func() {
		w.surface.Refresh()

		state := w.player.State()
		w.timeLabel.SetText(fmt.Sprintf("%.2fs", state.Time))
		if !w.seeking {
			w.seekSlider.Value = state.Time
			w.seekSlider.Refresh()
		}
	})
}

func (w *HostWindow) onPlaybackStarted(domain.Event) {
	fyneapp.Do(func() {
		w.playButton.SetIcon(theme.MediaPauseIcon())
	})
}

func (w *HostWindow) onPlaybackPaused(domain.Event) {
	fyneapp.Do(func() {
		w.playButton.SetIcon(theme.MediaPlayIcon())
	})
}

// addShortcuts wires keyboard transport: space toggles, R restarts, the
// arrow keys nudge the playhead by a second.
func (w *HostWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(func(ev *fyneapp.KeyEvent) {
		var err error
		switch ev.Name {
		case fyneapp.KeySpace:
			err = w.player.Toggle()
		case fyneapp.KeyR:
			err = w.player.Restart()
		case fyneapp.KeyLeft:
			err = w.player.Seek(w.player.State().Time - 1)
		case fyneapp.KeyRight:
			err = w.player.Seek(w.player.State().Time + 1)
		}
		if err != nil {
			w.logger.Warn("transport shortcut failed", slog.Any("error", err))
		}
	})
}

// ShowAndRun shows the window and blocks until it closes. Must run on the
// main goroutine.
func (w *HostWindow) ShowAndRun() {
	w.window.SetCloseIntercept(func() {
		w.Close()
		w.window.Close()
	})
	w.window.ShowAndRun()
}

// Close unsubscribes from the bus. Idempotent.
func (w *HostWindow) Close() {
	w.closeOnce.Do(func() {
		for _, id := range w.subscriptions {
			w.bus.Unsubscribe(id)
		}
	})
}
