package segmentation

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/groundseg/pointcloud"
	"go.viam.com/groundseg/vehicle"
)

// Filter is a reusable ground filter whose thresholds can be swapped at
// runtime. Each call to Filter snapshots the current config, so a
// reconfigure takes effect at the next frame boundary and never mid-sweep.
type Filter struct {
	geom   vehicle.Geometry
	logger golog.Logger

	mu  sync.Mutex
	cfg Config
}

// NewFilter validates the config and returns a filter using it.
func NewFilter(cfg Config, geom vehicle.Geometry, logger golog.Logger) (*Filter, error) {
	if err := cfg.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "invalid scan ground config")
	}
	if cfg.UseVirtualGround && geom == nil {
		return nil, errors.New("vehicle geometry is required when use_virtual_ground is set")
	}
	return &Filter{geom: geom, logger: logger, cfg: cfg}, nil
}

// Config returns the config frames are currently classified with.
func (f *Filter) Config() Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

// Reconfigure validates and installs new thresholds. A frame already being
// classified keeps the config it started with; an invalid config is
// rejected whole, leaving the previous one in place.
func (f *Filter) Reconfigure(cfg Config) error {
	if err := cfg.CheckValid(); err != nil {
		return errors.Wrap(err, "invalid scan ground config")
	}
	if cfg.UseVirtualGround && f.geom == nil {
		return errors.New("vehicle geometry is required when use_virtual_ground is set")
	}
	f.mu.Lock()
	f.cfg = cfg
	f.mu.Unlock()
	f.logger.Debugf("scan ground filter reconfigured: %+v", cfg)
	return nil
}

// Filter classifies one frame with a snapshot of the current config.
func (f *Filter) Filter(ctx context.Context, frame *pointcloud.Frame) (*Segmentation, error) {
	return ScanGround(ctx, frame, f.geom, f.Config())
}
