// Package pointcloud defines a flat, index-addressed container for one
// sensor frame of 3D points, along with file IO for common formats.
package pointcloud

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Frame is a single sweep's worth of points. Points are addressed by their
// index in the frame; consumers that need to refer back to a point hold its
// index, never a pointer into the frame.
type Frame struct {
	points []r3.Vector
}

func isFinite(p r3.Vector) bool {
	return !(math.IsNaN(p.X) || math.IsInf(p.X, 0) ||
		math.IsNaN(p.Y) || math.IsInf(p.Y, 0) ||
		math.IsNaN(p.Z) || math.IsInf(p.Z, 0))
}

// NewFrame returns a frame holding the given points. The slice is copied.
// Any non-finite coordinate is an error; use FilterFinite to salvage
// a frame from a source that may contain NaNs.
func NewFrame(points []r3.Vector) (*Frame, error) {
	for i, p := range points {
		if !isFinite(p) {
			return nil, errors.Errorf("point %d has a non-finite coordinate (%v, %v, %v)", i, p.X, p.Y, p.Z)
		}
	}
	pts := make([]r3.Vector, len(points))
	copy(pts, points)
	return &Frame{points: pts}, nil
}

// FilterFinite returns a frame holding the given points minus any with
// non-finite coordinates, logging how many were dropped.
func FilterFinite(points []r3.Vector, logger golog.Logger) *Frame {
	pts := make([]r3.Vector, 0, len(points))
	for _, p := range points {
		if isFinite(p) {
			pts = append(pts, p)
		}
	}
	if dropped := len(points) - len(pts); dropped > 0 {
		logger.Warnf("dropped %d points with non-finite coordinates", dropped)
	}
	return &Frame{points: pts}
}

// Size returns the number of points in the frame.
func (f *Frame) Size() int {
	return len(f.points)
}

// At returns the point at the given index.
func (f *Frame) At(i int) r3.Vector {
	return f.points[i]
}

// Positions returns a copy of all point positions in frame order.
func (f *Frame) Positions() []r3.Vector {
	pts := make([]r3.Vector, len(f.points))
	copy(pts, f.points)
	return pts
}

// Subset returns a new frame holding copies of the points at the given
// indices, in the given order. Indices must be valid for this frame.
func (f *Frame) Subset(indices []int) *Frame {
	pts := make([]r3.Vector, 0, len(indices))
	for _, i := range indices {
		pts = append(pts, f.points[i])
	}
	return &Frame{points: pts}
}

// Matrix returns the frame as a dense Nx3 matrix with one row per point,
// columns ordered x, y, z. An empty frame returns nil.
func (f *Frame) Matrix() *mat.Dense {
	if len(f.points) == 0 {
		return nil
	}
	m := mat.NewDense(len(f.points), 3, nil)
	for i, p := range f.points {
		m.Set(i, 0, p.X)
		m.Set(i, 1, p.Y)
		m.Set(i, 2, p.Z)
	}
	return m
}
