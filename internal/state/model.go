package state

import (
	"CurveBoard/internal/curve"
)

// Scene is a snapshot of everything a renderer needs to draw one frame.
type Scene struct {
	Site     string         `json:"site"`
	Revision uint64         `json:"revision"`
	Points   []curve.Point3 `json:"points"`
	Curve    []curve.Point3 `json:"curve,omitempty"`
}

// HasPolyline reports whether there are enough points to connect.
func (s Scene) HasPolyline() bool { return len(s.Points) > 1 }

// HasCurve reports whether the scene carries a sampled curve.
func (s Scene) HasCurve() bool { return len(s.Curve) > 1 }
