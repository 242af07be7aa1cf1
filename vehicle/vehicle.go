// Package vehicle describes the geometry of the vehicle carrying the sensor.
//
// The ground segmenter only needs a single measurement from it: the wheel
// base, which anchors a synthetic ground point ahead of the sensor origin.
package vehicle

import "github.com/golang/geo/r3"

// Geometry provides the physical measurements of the host vehicle.
type Geometry interface {
	// WheelBase returns the distance between the front and rear axles in meters.
	WheelBase() float64
}

// Static is a Geometry with fixed measurements, e.g. loaded from a config file.
type Static struct {
	WheelBaseM float64
}

func (g Static) WheelBase() float64 {
	return g.WheelBaseM
}

// VirtualGroundOrigin returns the synthetic ground point used to seed a
// radial sweep: on the ground plane, one wheel base ahead of the origin.
func VirtualGroundOrigin(g Geometry) r3.Vector {
	return r3.Vector{X: g.WheelBase(), Y: 0, Z: 0}
}
