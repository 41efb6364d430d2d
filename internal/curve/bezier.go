// Package curve evaluates single-segment Bézier curves of arbitrary degree
// using de Casteljau's algorithm.
//
// A curve is described by its control points alone: n points define a curve
// of degree n-1. Evaluation repeatedly interpolates between neighbouring
// points until a single point remains, so no polynomial coefficients are ever
// computed.
package curve

import (
	"errors"
	"iter"
)

// DefaultSamples is the number of segments used to approximate a curve when
// the caller does not ask for a specific count.
const DefaultSamples = 100

// ErrNoControlPoints is returned when a curve is evaluated without any
// control points.
var ErrNoControlPoints = errors.New("curve: no control points")

// Evaluator evaluates Bézier curves, reusing its working buffer between
// calls. The zero value is ready to use. An Evaluator must not be used
// concurrently.
type Evaluator struct {
	work []Point3
}

// Evaluate returns the point at parameter t on the curve defined by points.
//
// t is not clamped; values outside [0, 1] extrapolate along the curve.
func (e *Evaluator) Evaluate(points []Point3, t float64) (Point3, error) {
	n := len(points)
	if n == 0 {
		return Point3{}, ErrNoControlPoints
	}
	if cap(e.work) < n {
		e.work = make([]Point3, n)
	}
	w := e.work[:n]
	copy(w, points)
	for r := 1; r < n; r++ {
		for j := 0; j < n-r; j++ {
			w[j] = w[j].Lerp(w[j+1], t)
		}
	}
	return w[0], nil
}

// Samples returns an iterator over sampleCount+1 points of the curve, at
// t = i/sampleCount for i = 0..sampleCount, in increasing t. A
// non-positive sampleCount means [DefaultSamples]. The iterator yields
// nothing when points is empty.
//
// points is read while iterating; it must not be modified until iteration
// finishes.
func (e *Evaluator) Samples(points []Point3, sampleCount int) iter.Seq2[float64, Point3] {
	if sampleCount <= 0 {
		sampleCount = DefaultSamples
	}
	return func(yield func(float64, Point3) bool) {
		if len(points) == 0 {
			return
		}
		for i := 0; i <= sampleCount; i++ {
			t := float64(i) / float64(sampleCount)
			// Cannot fail, points is non-empty.
			p, _ := e.Evaluate(points, t)
			if !yield(t, p) {
				return
			}
		}
	}
}

// SampleCurve returns sampleCount+1 points approximating the curve as a
// connected line strip. See [Evaluator.Samples].
func (e *Evaluator) SampleCurve(points []Point3, sampleCount int) ([]Point3, error) {
	if len(points) == 0 {
		return nil, ErrNoControlPoints
	}
	if sampleCount <= 0 {
		sampleCount = DefaultSamples
	}
	out := make([]Point3, 0, sampleCount+1)
	for _, p := range e.Samples(points, sampleCount) {
		out = append(out, p)
	}
	return out, nil
}

// Evaluate is like [Evaluator.Evaluate] with a fresh working buffer.
func Evaluate(points []Point3, t float64) (Point3, error) {
	var e Evaluator
	return e.Evaluate(points, t)
}

// SampleCurve is like [Evaluator.SampleCurve] with a fresh working buffer.
func SampleCurve(points []Point3, sampleCount int) ([]Point3, error) {
	var e Evaluator
	return e.SampleCurve(points, sampleCount)
}
