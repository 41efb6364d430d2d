package curve

import (
	"fmt"
	"math"
)

// Point3 is a point in normalized editor space. Z is carried through every
// operation but the editor only ever produces points with Z = 0.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pt returns the point (x, y, 0).
func Pt(x, y float64) Point3 {
	return Point3{X: x, Y: y}
}

func (p Point3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Lerp returns the affine combination (1-t)·p + t·o, componentwise.
func (p Point3) Lerp(o Point3, t float64) Point3 {
	u := 1 - t
	return Point3{
		X: u*p.X + t*o.X,
		Y: u*p.Y + t*o.Y,
		Z: u*p.Z + t*o.Z,
	}
}

// Distance2D returns the euclidean distance between p and (x, y) in the XY plane.
func (p Point3) Distance2D(x, y float64) float64 {
	return math.Hypot(p.X-x, p.Y-y)
}
