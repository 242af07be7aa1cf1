// Package segmentation partitions a lidar frame into ground and non-ground
// points with a radial-sector sweep over increasing distance from the sensor.
package segmentation

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/groundseg/utils"
)

// Config holds the thresholds for ground classification. A Config is an
// immutable snapshot: it is passed by value into each frame's classification
// and changing one never affects a frame already in flight.
type Config struct {
	// GlobalSlopeMaxAngle is the hard cutoff on a point's slope measured
	// from the sensor origin, in radians. Anything steeper is non-ground no
	// matter what its neighbors look like.
	GlobalSlopeMaxAngle float64
	// LocalSlopeMaxAngle is how much steeper than the running ground slope
	// a point may sit and still continue the ground surface, in radians.
	LocalSlopeMaxAngle float64
	// AngularResolution is the azimuth width of one radial sector in radians.
	AngularResolution float64
	// DistanceTolerance is added to the expected angular spacing when
	// deciding whether a point is close to its predecessor, in meters.
	DistanceTolerance float64
	// SplitHeightDistance is the vertical jump that separates the ground
	// surface from an object sitting on it, in meters.
	SplitHeightDistance float64
	// UseVirtualGround seeds sweeps ahead of the vehicle with a synthetic
	// ground point at the front axle instead of the sensor origin.
	UseVirtualGround bool
}

// DefaultConfig returns the classification thresholds used when nothing is
// tuned: 8° global slope, 6° local slope, 1° sectors, 0.2 m tolerances.
func DefaultConfig() Config {
	return Config{
		GlobalSlopeMaxAngle: utils.DegToRad(8),
		LocalSlopeMaxAngle:  utils.DegToRad(6),
		AngularResolution:   utils.DegToRad(1),
		DistanceTolerance:   0.2,
		SplitHeightDistance: 0.2,
		UseVirtualGround:    true,
	}
}

// maxSectorCount caps how finely the azimuth circle may be divided. Checked
// in float space so a tiny resolution never reaches the int conversion in
// SectorCount.
const maxSectorCount = 1 << 20

// CheckValid rejects configurations that would make the sweep meaningless
// before any frame work happens. Thresholds are never silently clamped.
func (cfg *Config) CheckValid() error {
	if !(cfg.AngularResolution > 0) || math.IsInf(cfg.AngularResolution, 0) {
		return errors.Errorf("angular_resolution must be a positive finite angle, got %v", cfg.AngularResolution)
	}
	if 2*math.Pi/cfg.AngularResolution > maxSectorCount {
		return errors.Errorf(
			"angular_resolution %v divides the circle into more than %d sectors",
			cfg.AngularResolution, maxSectorCount)
	}
	if !(cfg.GlobalSlopeMaxAngle > 0) {
		return errors.Errorf("global_slope_max_angle must be > 0, got %v", cfg.GlobalSlopeMaxAngle)
	}
	if !(cfg.LocalSlopeMaxAngle > 0) {
		return errors.Errorf("local_slope_max_angle must be > 0, got %v", cfg.LocalSlopeMaxAngle)
	}
	if cfg.DistanceTolerance < 0 || math.IsNaN(cfg.DistanceTolerance) {
		return errors.Errorf("distance_tolerance must be >= 0, got %v", cfg.DistanceTolerance)
	}
	if cfg.SplitHeightDistance < 0 || math.IsNaN(cfg.SplitHeightDistance) {
		return errors.Errorf("split_height_distance must be >= 0, got %v", cfg.SplitHeightDistance)
	}
	return nil
}

// SectorCount returns how many radial sectors the azimuth circle divides
// into at this angular resolution.
func (cfg *Config) SectorCount() int {
	return int(math.Ceil(2 * math.Pi / cfg.AngularResolution))
}
