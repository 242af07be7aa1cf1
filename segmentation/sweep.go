package segmentation

import (
	"math"

	"github.com/golang/geo/r3"
)

// sectorSweep is the running state of one sector's ascending-radius sweep:
// the last confirmed ground reference, its running slope, the previous
// point's resolved label, and the two cluster centroids. It lives for one
// sector and is discarded; nothing carries across sectors or frames.
type sectorSweep struct {
	cfg           *Config
	virtualGround r3.Vector

	groundPoint  r3.Vector
	groundRadius float64
	groundSlope  float64
	prevLabel    Label
	ground       pointsCentroid
	object       pointsCentroid
	nonGround    []int
}

func newSectorSweep(cfg *Config, virtualGround r3.Vector) *sectorSweep {
	return &sectorSweep{cfg: cfg, virtualGround: virtualGround}
}

// step classifies the next point of the sector. prev is nil for the
// sector's first point, which measures against the initial ground
// reference instead: the virtual ground origin when enabled and the point
// lies ahead of it, otherwise the sensor origin.
func (s *sectorSweep) step(idx int, p, prev *scanPoint) {
	var dist float64
	if prev == nil {
		s.groundPoint = r3.Vector{}
		if s.cfg.UseVirtualGround && p.pos.X > s.virtualGround.X {
			s.groundPoint = s.virtualGround
		}
		s.groundRadius = math.Hypot(s.groundPoint.X, s.groundPoint.Y)
		s.groundSlope = 0
		s.prevLabel = LabelUnset
		s.ground.reset()
		s.object.reset()
		dist = p.pos.Distance(s.groundPoint)
	} else {
		dist = p.pos.Distance(prev.pos)
	}

	radiusGap := p.radius - s.groundRadius
	heightFromGround := p.pos.Z - s.groundPoint.Z
	heightFromObject := p.pos.Z - s.object.averageHeight()
	globalSlope := math.Atan2(p.pos.Z, p.radius)
	isClose := dist < p.radius*s.cfg.AngularResolution+s.cfg.DistanceTolerance

	calcSlope := false
	switch {
	case globalSlope > s.cfg.GlobalSlopeMaxAngle:
		p.label = LabelNonGround
	case s.prevLabel == LabelNonGround && math.Abs(heightFromObject) >= s.cfg.SplitHeightDistance:
		// jumped clear of the object cluster; judge on slope rather than
		// letting the point follow its predecessor
		calcSlope = true
	case isClose && math.Abs(heightFromGround) < s.cfg.SplitHeightDistance:
		p.label = LabelFollow
	default:
		calcSlope = true
	}
	if isClose {
		// a close point measures against the ground cluster's running
		// centroid instead of the single last confirmed ground point
		heightFromGround = p.pos.Z - s.ground.averageHeight()
		radiusGap = p.radius - s.ground.averageRadius()
	}
	if calcSlope {
		if math.Atan2(heightFromGround, radiusGap)-s.groundSlope > s.cfg.LocalSlopeMaxAngle {
			p.label = LabelNonGround
		} else {
			p.label = LabelGround
		}
	}

	// a directly confirmed ground point closes out both running clusters.
	// This happens before follow resolution, so a follow chain that
	// resolves to ground keeps extending the current ground cluster.
	if p.label == LabelGround {
		s.ground.reset()
		s.object.reset()
	}
	switch {
	case p.label == LabelNonGround:
		s.nonGround = append(s.nonGround, idx)
	case p.label == LabelFollow && s.prevLabel == LabelNonGround:
		p.label = LabelNonGround
		s.nonGround = append(s.nonGround, idx)
	case p.label == LabelFollow && s.prevLabel == LabelGround:
		p.label = LabelGround
	}
	// a follow point with no resolved predecessor keeps LabelFollow and
	// belongs to neither output; see Segmentation.Unlabeled

	s.prevLabel = p.label
	if p.label == LabelGround {
		s.groundRadius = p.radius
		s.groundPoint = p.pos
		s.ground.add(p.radius, p.pos.Z)
		s.groundSlope = s.ground.averageSlope()
	}
	if p.label == LabelNonGround {
		s.object.add(p.radius, p.pos.Z)
	}
}

// sweepSector classifies one sector's points in ascending-radius order and
// returns the frame indices labeled non-ground, in that order.
func sweepSector(bf *binnedFrame, sector []int, cfg *Config, virtualGround r3.Vector) []int {
	if len(sector) == 0 {
		return nil
	}
	s := newSectorSweep(cfg, virtualGround)
	var prev *scanPoint
	for _, idx := range sector {
		p := &bf.points[idx]
		s.step(idx, p, prev)
		prev = p
	}
	return s.nonGround
}
