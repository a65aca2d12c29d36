// Package ui contains the countdown window. It renders what the engine
// publishes and maps buttons and keys to engine commands; no timing logic
// lives here.
package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomogo/internal/core/pomodoro"
)

// Callbacks defines window action handlers.
type Callbacks struct {
	OnStart       func()
	OnTogglePause func()
	OnReset       func()
	OnFlip        func()
	OnIncrease    func()
	OnDecrease    func()
}

var (
	workColor = color.NRGBA{R: 186, G: 104, B: 200, A: 255}
	restColor = color.NRGBA{R: 102, G: 187, B: 106, A: 255}
	idleColor = color.NRGBA{R: 158, G: 158, B: 158, A: 255}
)

// Window manages the countdown UI.
type Window struct {
	window         fyne.Window
	countdown      *canvas.Text
	phaseLabel     *widget.Label
	completedLabel *widget.Label
	primaryButton  *widget.Button
	minusButton    *widget.Button
	plusButton     *widget.Button
	resetButton    *widget.Button
	callbacks      Callbacks
	phase          pomodoro.Phase
}

// New creates the countdown window with the provided callbacks.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("PomoGo")

	countdown := canvas.NewText("--:--", idleColor)
	countdown.TextSize = 72
	countdown.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	countdown.Alignment = fyne.TextAlignCenter

	phaseLabel := widget.NewLabelWithStyle("ready", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	completedLabel := widget.NewLabelWithStyle("completed today: 0", fyne.TextAlignCenter, fyne.TextStyle{})

	view := &Window{
		window:         window,
		countdown:      countdown,
		phaseLabel:     phaseLabel,
		completedLabel: completedLabel,
		callbacks:      callbacks,
		phase:          pomodoro.PhaseInactive,
	}

	view.primaryButton = widget.NewButton("Start", view.handlePrimary)
	view.minusButton = widget.NewButton("-5 min", func() {
		if callbacks.OnDecrease != nil {
			callbacks.OnDecrease()
		}
	})
	view.plusButton = widget.NewButton("+5 min", func() {
		if callbacks.OnIncrease != nil {
			callbacks.OnIncrease()
		}
	})
	view.resetButton = widget.NewButton("Reset", func() {
		if callbacks.OnReset != nil {
			callbacks.OnReset()
		}
	})

	buttons := container.NewHBox(
		layout.NewSpacer(),
		view.minusButton,
		view.primaryButton,
		view.plusButton,
		layout.NewSpacer(),
	)

	content := container.NewVBox(
		layout.NewSpacer(),
		countdown,
		phaseLabel,
		buttons,
		container.NewHBox(layout.NewSpacer(), view.resetButton, layout.NewSpacer()),
		completedLabel,
		layout.NewSpacer(),
	)

	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 360))
	window.Canvas().SetOnTypedRune(view.handleTypedRune)

	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Window exposes the underlying fyne window, e.g. to host it in the tray.
func (view *Window) Window() fyne.Window {
	return view.window
}

// SetDisplay updates the countdown text. Must run on the fyne thread.
func (view *Window) SetDisplay(display string) {
	view.countdown.Text = display
	view.countdown.Refresh()
}

// SetPhase updates the phase-dependent parts: countdown color, phase
// caption, and the primary button label. Must run on the fyne thread.
func (view *Window) SetPhase(phase pomodoro.Phase) {
	view.phase = phase
	switch phase {
	case pomodoro.PhaseWorking:
		view.countdown.Color = workColor
		view.phaseLabel.SetText("working")
		view.primaryButton.SetText("Pause")
	case pomodoro.PhaseResting:
		view.countdown.Color = restColor
		view.phaseLabel.SetText("resting")
		view.primaryButton.SetText("Pause")
	case pomodoro.PhasePaused:
		view.countdown.Color = idleColor
		view.phaseLabel.SetText("paused")
		view.primaryButton.SetText("Resume")
	default:
		view.countdown.Color = idleColor
		view.phaseLabel.SetText("ready")
		view.primaryButton.SetText("Start")
	}
	view.countdown.Refresh()
}

// SetCompleted updates the finished-sessions counter. Must run on the
// fyne thread.
func (view *Window) SetCompleted(count int) {
	view.completedLabel.SetText(fmt.Sprintf("completed today: %d", count))
}

func (view *Window) handlePrimary() {
	if view.phase.Active() {
		if view.callbacks.OnTogglePause != nil {
			view.callbacks.OnTogglePause()
		}
		return
	}
	if view.callbacks.OnStart != nil {
		view.callbacks.OnStart()
	}
}

// handleTypedRune maps the keyboard commands: f flips, i and d adjust the
// duration, n resets, p or space toggles pause.
func (view *Window) handleTypedRune(r rune) {
	switch r {
	case 'f':
		if view.callbacks.OnFlip != nil {
			view.callbacks.OnFlip()
		}
	case 'i':
		if view.callbacks.OnIncrease != nil {
			view.callbacks.OnIncrease()
		}
	case 'd':
		if view.callbacks.OnDecrease != nil {
			view.callbacks.OnDecrease()
		}
	case 'n':
		if view.callbacks.OnReset != nil {
			view.callbacks.OnReset()
		}
	case 'p', ' ':
		if view.callbacks.OnTogglePause != nil {
			view.callbacks.OnTogglePause()
		}
	}
}
