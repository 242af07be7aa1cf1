package segmentation_test

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/groundseg/segmentation"
	"go.viam.com/groundseg/utils"
	"go.viam.com/groundseg/vehicle"
)

func TestNewFilterValidation(t *testing.T) {
	logger := golog.NewTestLogger(t)

	cfg := groundOnlyConfig()
	cfg.AngularResolution = 0
	_, err := segmentation.NewFilter(cfg, nil, logger)
	test.That(t, err, test.ShouldNotBeNil)

	// virtual ground requires a geometry
	_, err = segmentation.NewFilter(segmentation.DefaultConfig(), nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "vehicle geometry")

	filter, err := segmentation.NewFilter(segmentation.DefaultConfig(), vehicle.Static{WheelBaseM: 2.5}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, filter.Config(), test.ShouldResemble, segmentation.DefaultConfig())
}

func TestFilterReconfigure(t *testing.T) {
	logger := golog.NewTestLogger(t)
	filter, err := segmentation.NewFilter(groundOnlyConfig(), nil, logger)
	test.That(t, err, test.ShouldBeNil)

	// an invalid config is rejected whole, keeping the previous one
	bad := groundOnlyConfig()
	bad.SplitHeightDistance = -1
	test.That(t, filter.Reconfigure(bad), test.ShouldNotBeNil)
	test.That(t, filter.Config(), test.ShouldResemble, groundOnlyConfig())

	// virtual ground cannot be enabled without a geometry
	withVirtual := segmentation.DefaultConfig()
	test.That(t, filter.Reconfigure(withVirtual), test.ShouldNotBeNil)

	updated := groundOnlyConfig()
	updated.GlobalSlopeMaxAngle = utils.DegToRad(30)
	test.That(t, filter.Reconfigure(updated), test.ShouldBeNil)
	test.That(t, filter.Config(), test.ShouldResemble, updated)
}

func TestFilterAppliesConfigPerFrame(t *testing.T) {
	logger := golog.NewTestLogger(t)
	filter, err := segmentation.NewFilter(groundOnlyConfig(), nil, logger)
	test.That(t, err, test.ShouldBeNil)

	// 45° slope point: non-ground under the default 8° global cutoff
	frame := makeFrame(t, []r3.Vector{{X: 1, Y: 0, Z: 1}})
	seg, err := filter.Filter(context.Background(), frame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seg.Label(0), test.ShouldEqual, segmentation.LabelNonGround)

	// the same frame reclassifies as ground once the cutoff is raised
	relaxed := groundOnlyConfig()
	relaxed.GlobalSlopeMaxAngle = utils.DegToRad(60)
	relaxed.LocalSlopeMaxAngle = utils.DegToRad(50)
	test.That(t, filter.Reconfigure(relaxed), test.ShouldBeNil)
	seg, err = filter.Filter(context.Background(), frame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seg.Label(0), test.ShouldEqual, segmentation.LabelGround)
}
