package segmentation

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/groundseg/pointcloud"
	"go.viam.com/groundseg/utils"
	"go.viam.com/groundseg/vehicle"
)

// Segmentation is the result of classifying one frame. It keeps the frame
// it was built from so either side of the partition can be extracted.
type Segmentation struct {
	frame     *pointcloud.Frame
	labels    []Label
	nonGround []int
}

// ScanGround classifies every point of the frame as ground or non-ground.
// Sectors are classified concurrently; each sector's result is independent
// of every other, so the output is deterministic for a given frame and
// config. geom may be nil when the config does not use virtual ground.
func ScanGround(ctx context.Context, frame *pointcloud.Frame, geom vehicle.Geometry, cfg Config) (*Segmentation, error) {
	if err := cfg.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "invalid scan ground config")
	}
	if frame == nil {
		return nil, errors.New("frame cannot be nil")
	}
	var virtualGround r3.Vector
	if cfg.UseVirtualGround {
		if geom == nil {
			return nil, errors.New("vehicle geometry is required when use_virtual_ground is set")
		}
		virtualGround = vehicle.VirtualGroundOrigin(geom)
	}

	bf := binRadial(frame, &cfg)

	// fan out over sectors; workers only touch their own sectors' points
	// and buffer slots, fan in by sector index for a deterministic order
	buffers := make([][]int, len(bf.sectors))
	err := utils.RangeParallel(ctx, len(bf.sectors), func(_, from, to int) error {
		for sec := from; sec < to; sec++ {
			buffers[sec] = sweepSector(bf, bf.sectors[sec], &cfg, virtualGround)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, buf := range buffers {
		total += len(buf)
	}
	nonGround := make([]int, 0, total)
	for _, buf := range buffers {
		nonGround = append(nonGround, buf...)
	}
	labels := make([]Label, len(bf.points))
	for i := range bf.points {
		labels[i] = bf.points[i].label
	}
	return &Segmentation{frame: frame, labels: labels, nonGround: nonGround}, nil
}

// Labels returns every point's label indexed by frame position. The caller
// must not modify the returned slice.
func (s *Segmentation) Labels() []Label {
	return s.labels
}

// Label returns the resolved label of the point at the given frame index.
func (s *Segmentation) Label(i int) Label {
	return s.labels[i]
}

// NonGroundIndices returns the frame indices of all non-ground points,
// ordered by sector and ascending radius within each sector, not by frame
// position. The caller must not modify the returned slice.
func (s *Segmentation) NonGroundIndices() []int {
	return s.nonGround
}

// NonGroundCloud extracts the non-ground points. Points appear in sector
// sweep order, not frame order.
func (s *Segmentation) NonGroundCloud() *pointcloud.Frame {
	return s.frame.Subset(s.nonGround)
}

// GroundCloud extracts the ground points in frame order. Together with
// NonGroundCloud it covers the frame except for points listed by Unlabeled.
func (s *Segmentation) GroundCloud() *pointcloud.Frame {
	indices := make([]int, 0, len(s.labels)-len(s.nonGround))
	for i, l := range s.labels {
		if l == LabelGround {
			indices = append(indices, i)
		}
	}
	return s.frame.Subset(indices)
}

// Unlabeled returns the frame indices of points excluded from both outputs.
// The only way this happens is a sector whose leading points sit close
// enough to the initial ground reference to defer to a predecessor that
// never resolved, so the chain never resolves either.
func (s *Segmentation) Unlabeled() []int {
	var indices []int
	for i, l := range s.labels {
		if l == LabelFollow || l == LabelUnset {
			indices = append(indices, i)
		}
	}
	return indices
}
