package state

import (
	"errors"
	"fmt"

	"CurveBoard/internal/curve"
)

// DefaultCapacity is the number of control points kept when no capacity is
// configured.
const DefaultCapacity = 64

// ErrIndexOutOfRange is returned when a point index does not refer to a
// stored point.
var ErrIndexOutOfRange = errors.New("control point index out of range")

// ControlPointList is an ordered, capacity-bounded list of control points.
// Insertion order defines the polyline and the curve. Once full, appending
// evicts the oldest point.
type ControlPointList struct {
	points   []curve.Point3
	capacity int
}

// NewControlPointList returns an empty list holding at most capacity points.
// A non-positive capacity means DefaultCapacity.
func NewControlPointList(capacity int) *ControlPointList {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ControlPointList{
		points:   make([]curve.Point3, 0, capacity),
		capacity: capacity,
	}
}

func (l *ControlPointList) Len() int { return len(l.points) }
func (l *ControlPointList) Cap() int { return l.capacity }

// At returns the point at index i.
func (l *ControlPointList) At(i int) (curve.Point3, bool) {
	if i < 0 || i >= len(l.points) {
		return curve.Point3{}, false
	}
	return l.points[i], true
}

// Points returns a copy of the stored points in order.
func (l *ControlPointList) Points() []curve.Point3 {
	out := make([]curve.Point3, len(l.points))
	copy(out, l.points)
	return out
}

// view returns the backing slice. Callers must not retain or modify it.
func (l *ControlPointList) view() []curve.Point3 {
	return l.points
}

// Append adds p at the end, evicting the first point if the list is full.
func (l *ControlPointList) Append(p curve.Point3) {
	if len(l.points) >= l.capacity {
		l.RemoveFirst()
	}
	l.points = append(l.points, p)
}

// RemoveFirst drops the first point and shifts the rest down by one.
// It reports whether a point was removed.
func (l *ControlPointList) RemoveFirst() bool {
	if len(l.points) == 0 {
		return false
	}
	n := copy(l.points, l.points[1:])
	l.points = l.points[:n]
	return true
}

// RemoveLast drops the last point. It reports whether a point was removed.
func (l *ControlPointList) RemoveLast() bool {
	if len(l.points) == 0 {
		return false
	}
	l.points = l.points[:len(l.points)-1]
	return true
}

// NearestWithinRadius returns the index of the point closest to (x, y) among
// those no farther than radius. Among equally close points the lowest index
// wins. It reports false if no point qualifies.
func (l *ControlPointList) NearestWithinRadius(x, y, radius float64) (int, bool) {
	best := -1
	bestDist := 0.0
	for i, p := range l.points {
		d := p.Distance2D(x, y)
		if d > radius {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// UpdatePoint moves the point at index i to (x, y). Z is left unchanged.
func (l *ControlPointList) UpdatePoint(i int, x, y float64) error {
	if i < 0 || i >= len(l.points) {
		return fmt.Errorf("update point %d of %d: %w", i, len(l.points), ErrIndexOutOfRange)
	}
	l.points[i].X = x
	l.points[i].Y = y
	return nil
}
