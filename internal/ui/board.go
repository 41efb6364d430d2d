package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"CurveBoard/internal/config"
	"CurveBoard/internal/curve"
	"CurveBoard/internal/state"
)

var (
	polylineColor = color.NRGBA{R: 255, G: 0, B: 204, A: 255}
	pointColor    = color.Black
)

// Palette holds the curve colours offered in the toolbar and accepted in the
// config file.
var Palette = []struct {
	Name  string
	Color color.Color
}{
	{"black", color.Black},
	{"red", color.NRGBA{R: 255, A: 255}},
	{"green", color.NRGBA{G: 160, A: 255}},
	{"blue", color.NRGBA{B: 255, A: 255}},
}

// ParseColor returns the palette colour with the given name.
func ParseColor(name string) (color.Color, error) {
	for _, c := range Palette {
		if c.Name == name {
			return c.Color, nil
		}
	}
	return nil, fmt.Errorf("unknown colour %q", name)
}

// Style controls how a board draws its scene.
type Style struct {
	PointSize  float32
	LineWidth  float32
	CurveColor color.Color
}

func DefaultStyle() Style {
	return Style{PointSize: 8, LineWidth: 1, CurveColor: color.Black}
}

// StyleFromConfig builds a Style from the render section of the config.
func StyleFromConfig(rc config.RenderConfig) (Style, error) {
	c, err := ParseColor(rc.CurveColor)
	if err != nil {
		return Style{}, err
	}
	return Style{PointSize: rc.PointSize, LineWidth: rc.LineWidth, CurveColor: c}, nil
}

// BoardWidget shows the control polygon, the control points, and the curve.
// Attached to an editor it turns mouse input into edits; without one it
// only displays scenes handed to SetScene.
type BoardWidget struct {
	widget.BaseWidget

	editor *state.Editor
	remote state.Scene
	style  Style

	pressed  bool
	lastDrag fyne.Position
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

// NewBoardWidget returns a board editing through editor.
func NewBoardWidget(editor *state.Editor, style Style) *BoardWidget {
	b := &BoardWidget{editor: editor, style: style}
	b.ExtendBaseWidget(b)
	return b
}

// NewViewerWidget returns a read-only board.
func NewViewerWidget(style Style) *BoardWidget {
	return NewBoardWidget(nil, style)
}

// SetScene replaces the scene shown by a read-only board. It must be called
// on the fyne goroutine, see fyne.Do.
func (b *BoardWidget) SetScene(s state.Scene) {
	b.remote = s
	b.Refresh()
}

// Style returns the style currently used for drawing.
func (b *BoardWidget) Style() Style { return b.style }

func (b *BoardWidget) SetCurveColor(c color.Color) {
	b.style.CurveColor = c
	b.Refresh()
}

func (b *BoardWidget) SetLineWidth(w float32) {
	b.style.LineWidth = w
	b.Refresh()
}

func (b *BoardWidget) scene() state.Scene {
	if b.editor == nil {
		return b.remote
	}
	return state.Scene{Points: b.editor.Points(), Curve: b.editor.Curve()}
}

// Resize keeps the editor's pixel mapping in step with the widget size.
func (b *BoardWidget) Resize(size fyne.Size) {
	if b.editor != nil {
		b.editor.Reshape(int(size.Width), int(size.Height))
	}
	b.BaseWidget.Resize(size)
}

func button(b desktop.MouseButton) (state.Button, bool) {
	switch b {
	case desktop.MouseButtonPrimary:
		return state.ButtonLeft, true
	case desktop.MouseButtonSecondary:
		return state.ButtonRight, true
	case desktop.MouseButtonTertiary:
		return state.ButtonMiddle, true
	}
	return 0, false
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	btn, ok := button(e.Button)
	if b.editor == nil || !ok {
		return
	}
	if btn == state.ButtonLeft {
		b.pressed = true
		b.lastDrag = e.Position
	}
	b.editor.Mouse(btn, true, float64(e.Position.X), float64(e.Position.Y))
}

// MouseUp and DragEnd both end a left-button gesture; whichever arrives
// first releases it.
func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	btn, ok := button(e.Button)
	if b.editor == nil || !ok {
		return
	}
	if btn == state.ButtonLeft {
		if !b.pressed {
			return
		}
		b.pressed = false
	}
	b.editor.Mouse(btn, false, float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.editor == nil || !b.pressed {
		return
	}
	b.lastDrag = e.Position
	b.editor.Motion(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) DragEnd() {
	if b.editor == nil || !b.pressed {
		return
	}
	b.pressed = false
	b.editor.Mouse(state.ButtonLeft, false, float64(b.lastDrag.X), float64(b.lastDrag.Y))
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.objects = []fyne.CanvasObject{r.background}
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) rebuild(size fyne.Size) {
	s := r.board.scene()
	st := r.board.style
	vp := state.Viewport{Width: max(int(size.Width), 2), Height: max(int(size.Height), 2)}
	at := func(p curve.Point3) fyne.Position {
		x, y := vp.Pixel(p.X, p.Y)
		return fyne.NewPos(float32(x), float32(y))
	}
	strip := func(objects []fyne.CanvasObject, pts []curve.Point3, c color.Color) []fyne.CanvasObject {
		for i := 1; i < len(pts); i++ {
			segment := canvas.NewLine(c)
			segment.StrokeWidth = st.LineWidth
			segment.Position1 = at(pts[i-1])
			segment.Position2 = at(pts[i])
			objects = append(objects, segment)
		}
		return objects
	}

	objects := make([]fyne.CanvasObject, 0, 1+len(s.Points)*2+len(s.Curve))
	objects = append(objects, r.background)
	if s.HasPolyline() {
		objects = strip(objects, s.Points, polylineColor)
	}
	half := st.PointSize / 2
	for _, p := range s.Points {
		dot := canvas.NewCircle(pointColor)
		dot.Resize(fyne.NewSquareSize(st.PointSize))
		dot.Move(at(p).SubtractXY(half, half))
		objects = append(objects, dot)
	}
	if s.HasCurve() {
		objects = strip(objects, s.Curve, st.CurveColor)
	}
	r.objects = objects
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardWidgetRenderer) Refresh() {
	r.rebuild(r.board.Size())
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.rebuild(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *boardWidgetRenderer) Destroy() {}
