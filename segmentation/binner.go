package segmentation

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"

	"go.viam.com/groundseg/pointcloud"
	"go.viam.com/groundseg/utils"
)

// scanPoint is one frame point with the derived fields the sweep needs. The
// position and derived fields are read-only after binning; only the label
// mutates.
type scanPoint struct {
	pos    r3.Vector
	radius float64
	theta  float64
	label  Label
}

// binnedFrame holds every point of a frame plus its radial sector
// decomposition. points is indexed by original frame index; sectors hold
// frame indices ordered by ascending radius.
type binnedFrame struct {
	points  []scanPoint
	sectors [][]int
}

// sectorIndex buckets a normalized azimuth, guarding the floating-point
// rounding that can push theta/resolution to sectorCount at the 2π wrap.
func sectorIndex(theta float64, cfg *Config, sectorCount int) int {
	return utils.ClampInt(int(math.Floor(theta/cfg.AngularResolution)), 0, sectorCount-1)
}

// binRadial partitions the frame into radial sectors and orders each sector
// by planar distance from the origin. Equal radii keep their frame order so
// classification is deterministic.
func binRadial(frame *pointcloud.Frame, cfg *Config) *binnedFrame {
	sectorCount := cfg.SectorCount()
	bf := &binnedFrame{
		points:  make([]scanPoint, frame.Size()),
		sectors: make([][]int, sectorCount),
	}
	for i := 0; i < frame.Size(); i++ {
		p := frame.At(i)
		sp := scanPoint{
			pos:    p,
			radius: math.Hypot(p.X, p.Y),
			theta:  utils.NormalizeRadian(math.Atan2(p.X, p.Y), 0),
		}
		bf.points[i] = sp
		sector := sectorIndex(sp.theta, cfg, sectorCount)
		bf.sectors[sector] = append(bf.sectors[sector], i)
	}
	for _, sector := range bf.sectors {
		sort.SliceStable(sector, func(a, b int) bool {
			return bf.points[sector[a]].radius < bf.points[sector[b]].radius
		})
	}
	return bf
}
