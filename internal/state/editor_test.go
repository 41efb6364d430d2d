package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"CurveBoard/internal/curve"
)

// newTestEditor returns an editor on a 101x101 window, so that pixel 50 maps
// to 0.5 on both axes.
func newTestEditor(t *testing.T, opts Options) (*Editor, *int) {
	t.Helper()
	e := NewEditor(opts, zaptest.NewLogger(t))
	e.Reshape(101, 101)
	redraws := new(int)
	e.OnChange = func() { *redraws++ }
	return e, redraws
}

func click(e *Editor, px, py float64) {
	e.Mouse(ButtonLeft, true, px, py)
	e.Mouse(ButtonLeft, false, px, py)
}

func TestViewportNormalize(t *testing.T) {
	v := Viewport{Width: 101, Height: 201}
	x, y := v.Normalize(0, 0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 1.0, y)

	x, y = v.Normalize(100, 200)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 0.0, y)

	px, py := v.Pixel(0.5, 0.5)
	assert.Equal(t, 50.0, px)
	assert.Equal(t, 100.0, py)
}

func TestReshapeClampsSize(t *testing.T) {
	e := NewEditor(Options{}, nil)
	e.Reshape(0, 1)
	assert.Equal(t, Viewport{Width: 2, Height: 2}, e.Viewport())
}

func TestDefaults(t *testing.T) {
	e := NewEditor(Options{}, nil)
	assert.Equal(t, Options{Capacity: 64, PickRadius: 0.1, Samples: 100}, e.Options())
}

func TestClickAppendsPoint(t *testing.T) {
	e, redraws := newTestEditor(t, Options{})
	click(e, 50, 25)

	require.Equal(t, 1, e.Len())
	assert.Equal(t, curve.Point3{X: 0.5, Y: 0.75, Z: 0}, e.Points()[0])
	assert.Equal(t, 1, *redraws)
	_, dragging := e.Dragged()
	assert.False(t, dragging)
}

func TestClickNearPointDoesNotAppend(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	click(e, 50, 50)
	click(e, 52, 50)

	require.Equal(t, 1, e.Len())
	p := e.Points()[0]
	assert.InDelta(t, 0.52, p.X, 1e-12)
	assert.InDelta(t, 0.5, p.Y, 1e-12)
}

func TestPickRadiusIsConfigurable(t *testing.T) {
	e, _ := newTestEditor(t, Options{PickRadius: 0.01})
	click(e, 50, 50)
	click(e, 55, 50)
	assert.Equal(t, 2, e.Len())
}

func TestDrag(t *testing.T) {
	e, redraws := newTestEditor(t, Options{})
	click(e, 10, 10)
	click(e, 50, 50)
	*redraws = 0

	e.Mouse(ButtonLeft, true, 52, 48)
	i, ok := e.Dragged()
	require.True(t, ok)
	assert.Equal(t, 1, i)

	e.Motion(80, 20)
	p := e.Points()[1]
	assert.InDelta(t, 0.8, p.X, 1e-12)
	assert.InDelta(t, 0.8, p.Y, 1e-12)

	e.Mouse(ButtonLeft, false, 90, 10)
	p = e.Points()[1]
	assert.InDelta(t, 0.9, p.X, 1e-12)
	assert.InDelta(t, 0.9, p.Y, 1e-12)

	assert.Equal(t, 2, e.Len())
	assert.Equal(t, 2, *redraws)
	_, ok = e.Dragged()
	assert.False(t, ok)
}

func TestMotionWithoutDragIsIgnored(t *testing.T) {
	e, redraws := newTestEditor(t, Options{})
	click(e, 50, 50)
	e.Motion(10, 10)
	assert.Equal(t, curve.Pt(0.5, 0.5), e.Points()[0])
	assert.Equal(t, 1, *redraws)
}

func TestOtherButtonsAreIgnored(t *testing.T) {
	e, redraws := newTestEditor(t, Options{})
	e.Mouse(ButtonRight, true, 50, 50)
	e.Mouse(ButtonRight, false, 50, 50)
	e.Mouse(ButtonMiddle, false, 50, 50)
	assert.Zero(t, e.Len())
	assert.Zero(t, *redraws)
}

func TestReleaseWithoutPressAppends(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	click(e, 50, 50)
	e.Mouse(ButtonLeft, false, 50, 50)
	assert.Equal(t, 2, e.Len())
}

func TestKeys(t *testing.T) {
	e, redraws := newTestEditor(t, Options{})
	click(e, 0, 100)
	click(e, 50, 50)
	click(e, 100, 0)
	*redraws = 0

	e.Key('f')
	assert.Equal(t, []curve.Point3{curve.Pt(0.5, 0.5), curve.Pt(1, 1)}, e.Points())
	e.Key('l')
	assert.Equal(t, []curve.Point3{curve.Pt(0.5, 0.5)}, e.Points())
	e.Key('x')
	assert.Equal(t, 2, *redraws)

	e.Key('l')
	e.Key('l')
	e.Key('f')
	assert.Zero(t, e.Len())
	assert.Equal(t, 3, *redraws)
}

func TestEscapeQuits(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	quit := false
	e.OnQuit = func() { quit = true }
	e.Key(KeyEscape)
	assert.True(t, quit)
}

func TestExportKey(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	click(e, 0, 100)
	click(e, 100, 0)
	var got Scene
	e.OnExport = func(s Scene) { got = s }
	e.Key('p')
	assert.Len(t, got.Points, 2)
	assert.Len(t, got.Curve, 101)
}

func TestRemoveFirstShiftsDragHandle(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	click(e, 0, 100)
	click(e, 50, 50)
	e.Mouse(ButtonLeft, true, 50, 50)

	e.Key('f')
	i, ok := e.Dragged()
	require.True(t, ok)
	assert.Equal(t, 0, i)

	e.Motion(100, 0)
	assert.Equal(t, curve.Pt(1, 1), e.Points()[0])

	e.Key('f')
	_, ok = e.Dragged()
	assert.False(t, ok)

	// The release no longer refers to a point, so it adds one.
	e.Mouse(ButtonLeft, false, 50, 50)
	assert.Equal(t, 1, e.Len())
}

func TestRemoveLastEndsDragOfLastPoint(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	click(e, 0, 100)
	click(e, 50, 50)
	e.Mouse(ButtonLeft, true, 50, 50)

	e.Key('l')
	_, ok := e.Dragged()
	assert.False(t, ok)
	e.Motion(100, 0)
	assert.Equal(t, []curve.Point3{curve.Pt(0, 0)}, e.Points())
}

func TestCurve(t *testing.T) {
	e, _ := newTestEditor(t, Options{Samples: 2})
	click(e, 0, 100)
	assert.Nil(t, e.Curve())

	click(e, 100, 100)
	click(e, 100, 0)
	c := e.Curve()
	require.Len(t, c, 3)
	assert.Equal(t, curve.Pt(0, 0), c[0])
	assert.InDelta(t, 0.75, c[1].X, 1e-12)
	assert.InDelta(t, 0.25, c[1].Y, 1e-12)
	assert.Equal(t, curve.Pt(1, 1), c[2])

	e.Key('l')
	c = e.Curve()
	require.Len(t, c, 3)
	assert.Equal(t, curve.Pt(1, 0), c[2])
}

func TestSceneIsSnapshot(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	click(e, 0, 100)
	click(e, 100, 0)

	s := e.Scene()
	assert.NotEmpty(t, s.Site)
	assert.Equal(t, uint64(2), s.Revision)
	assert.True(t, s.HasPolyline())
	assert.True(t, s.HasCurve())

	s.Points[0].X = 42
	s.Curve[0].X = 42
	assert.Equal(t, 0.0, e.Points()[0].X)
	assert.Equal(t, 0.0, e.Curve()[0].X)
}
