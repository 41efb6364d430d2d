package state

import (
	"go.uber.org/zap"

	"CurveBoard/internal/curve"
)

// DefaultPickRadius is the distance, in normalized units, within which a
// mouse press grabs an existing point instead of creating a new one.
const DefaultPickRadius = 0.1

// KeyEscape is the character code that quits the editor.
const KeyEscape rune = 27

// Button identifies a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Options configure an Editor. Zero values select the defaults.
type Options struct {
	Capacity   int
	PickRadius float64
	Samples    int
}

func (o *Options) setDefaults() {
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.PickRadius <= 0 {
		o.PickRadius = DefaultPickRadius
	}
	if o.Samples <= 0 {
		o.Samples = curve.DefaultSamples
	}
}

// Viewport maps window pixels onto the unit square, with y pointing up.
type Viewport struct {
	Width  int
	Height int
}

// Normalize converts a pixel position, measured from the top-left corner,
// into normalized coordinates measured from the bottom-left corner.
func (v Viewport) Normalize(px, py float64) (x, y float64) {
	x = px / float64(v.Width-1)
	y = 1 - py/float64(v.Height-1)
	return x, y
}

// Pixel is the inverse of Normalize.
func (v Viewport) Pixel(x, y float64) (px, py float64) {
	return x * float64(v.Width-1), (1 - y) * float64(v.Height-1)
}

// Editor turns mouse and keyboard events into edits of a ControlPointList and
// keeps the sampled curve in sync with it. All methods must be called from
// the goroutine that delivers input events.
type Editor struct {
	opts     Options
	points   *ControlPointList
	eval     curve.Evaluator
	clock    *Clock
	viewport Viewport

	dragged  int
	dragging bool

	samples    []curve.Point3
	samplesRev uint64
	samplesOK  bool

	log *zap.Logger

	// OnChange is called after every edit. Redraws are idempotent, so it
	// may be called more often than strictly needed.
	OnChange func()
	// OnQuit is called when the escape key is pressed.
	OnQuit func()
	// OnExport is called with the current scene when export is requested.
	OnExport func(Scene)
}

func NewEditor(opts Options, log *zap.Logger) *Editor {
	opts.setDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{
		opts:     opts,
		points:   NewControlPointList(opts.Capacity),
		clock:    NewClock(),
		viewport: Viewport{Width: 2, Height: 2},
		log:      log,
	}
}

func (e *Editor) Options() Options { return e.opts }
func (e *Editor) Viewport() Viewport { return e.viewport }
func (e *Editor) Len() int { return e.points.Len() }
func (e *Editor) Points() []curve.Point3 { return e.points.Points() }

// Dragged returns the index of the point being dragged, if any.
func (e *Editor) Dragged() (int, bool) {
	if !e.dragging {
		return -1, false
	}
	return e.dragged, true
}

// Reshape records the new window size. Dimensions below 2 are raised to 2.
func (e *Editor) Reshape(width, height int) {
	e.viewport = Viewport{Width: max(width, 2), Height: max(height, 2)}
}

// Mouse handles a button press or release at pixel position (px, py).
//
// A left press grabs the nearest point within the pick radius. The matching
// release either drops the grabbed point at the release position or, if
// nothing was grabbed, appends a new point there.
func (e *Editor) Mouse(button Button, pressed bool, px, py float64) {
	if button != ButtonLeft {
		return
	}
	x, y := e.viewport.Normalize(px, py)
	if pressed {
		e.dragged, e.dragging = e.points.NearestWithinRadius(x, y, e.opts.PickRadius)
		e.log.Debug("press", zap.Float64("x", x), zap.Float64("y", y), zap.Int("picked", e.dragged))
		return
	}
	if e.dragging {
		e.move(x, y)
		e.dragged, e.dragging = -1, false
		return
	}
	e.points.Append(curve.Pt(x, y))
	e.log.Debug("append", zap.Float64("x", x), zap.Float64("y", y), zap.Int("count", e.points.Len()))
	e.changed()
}

// Motion handles pointer movement while a button is held.
func (e *Editor) Motion(px, py float64) {
	if !e.dragging {
		return
	}
	e.move(e.viewport.Normalize(px, py))
}

func (e *Editor) move(x, y float64) {
	if err := e.points.UpdatePoint(e.dragged, x, y); err != nil {
		e.log.Warn("dropping drag", zap.Error(err))
		e.dragged, e.dragging = -1, false
		return
	}
	e.changed()
}

// Key handles a typed character.
func (e *Editor) Key(r rune) {
	switch r {
	case 'f':
		e.RemoveFirst()
	case 'l':
		e.RemoveLast()
	case 'p':
		e.Export()
	case KeyEscape:
		e.log.Debug("quit requested")
		if e.OnQuit != nil {
			e.OnQuit()
		}
	}
}

// Export hands the current scene to OnExport.
func (e *Editor) Export() {
	if e.OnExport != nil {
		e.OnExport(e.Scene())
	}
}

// RemoveFirst removes the oldest point. A point being dragged keeps being
// dragged under its new index.
func (e *Editor) RemoveFirst() {
	if !e.points.RemoveFirst() {
		return
	}
	if e.dragging {
		e.dragged--
		e.dragging = e.dragged >= 0
	}
	e.log.Debug("remove first", zap.Int("count", e.points.Len()))
	e.changed()
}

// RemoveLast removes the newest point, ending a drag of that point.
func (e *Editor) RemoveLast() {
	if !e.points.RemoveLast() {
		return
	}
	if e.dragging && e.dragged >= e.points.Len() {
		e.dragged, e.dragging = -1, false
	}
	e.log.Debug("remove last", zap.Int("count", e.points.Len()))
	e.changed()
}

func (e *Editor) changed() {
	e.clock.Tick()
	if e.OnChange != nil {
		e.OnChange()
	}
}

// Curve returns the sampled curve for the current points, or nil when there
// are fewer than two points. The result is cached until the next edit and
// must not be modified.
func (e *Editor) Curve() []curve.Point3 {
	rev := e.clock.Now()
	if !e.samplesOK || e.samplesRev != rev {
		e.samples = e.samples[:0]
		if e.points.Len() > 1 {
			for _, p := range e.eval.Samples(e.points.view(), e.opts.Samples) {
				e.samples = append(e.samples, p)
			}
		}
		e.samplesRev, e.samplesOK = rev, true
	}
	if len(e.samples) == 0 {
		return nil
	}
	return e.samples
}

// Scene returns a snapshot of the current points and curve. The snapshot
// shares no memory with the editor.
func (e *Editor) Scene() Scene {
	c := e.Curve()
	s := Scene{
		Site:     e.clock.Site(),
		Revision: e.clock.Now(),
		Points:   e.points.Points(),
	}
	if c != nil {
		s.Curve = make([]curve.Point3, len(c))
		copy(s.Curve, c)
	}
	return s
}
