package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"CurveBoard/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar mirrors the keyboard commands and adds the curve style controls.
func NewToolbar(board *BoardWidget, editor *state.Editor) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaSkipPreviousIcon(), editor.RemoveFirst), // f
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), editor.RemoveLast),      // l
		widget.NewToolbarAction(theme.DocumentSaveIcon(), editor.Export),           // p
	)

	swatches := make([]fyne.CanvasObject, 0, len(Palette))
	for _, c := range Palette {
		swatches = append(swatches, newColorSwatch(c.Color, board.SetCurveColor))
	}

	widthSlider := widget.NewSlider(1.0, 5.0)
	widthSlider.Step = 0.5
	widthSlider.SetValue(float64(board.style.LineWidth))
	widthSlider.OnChanged = func(val float64) {
		board.SetLineWidth(float32(val))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), widthSlider)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Curve:"),
		container.NewHBox(swatches...),
		widget.NewSeparator(),
		widget.NewLabel("Width:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}
