// Package main is a command line ground filter: it reads a point cloud
// frame, splits it into ground and non-ground points, and writes either
// side back out.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/edaniels/golog"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"go.viam.com/groundseg/pointcloud"
	"go.viam.com/groundseg/segmentation"
	gsutils "go.viam.com/groundseg/utils"
	"go.viam.com/groundseg/vehicle"
)

func main() {
	app := &cli.App{
		Name:  "groundfilter",
		Usage: "split a lidar frame into ground and non-ground points",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "point cloud to classify (.pcd or .las)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "nonground",
				Aliases: []string{"o"},
				Usage:   "write non-ground points to `FILE`",
			},
			&cli.StringFlag{
				Name:  "ground",
				Usage: "write ground points to `FILE`",
			},
			&cli.BoolFlag{
				Name:  "binary",
				Usage: "write binary pcd instead of ascii",
			},
			&cli.Float64Flag{
				Name:  "global-slope-deg",
				Value: 8,
				Usage: "hard non-ground cutoff on slope from the origin, degrees",
			},
			&cli.Float64Flag{
				Name:  "local-slope-deg",
				Value: 6,
				Usage: "ground continuity tolerance, degrees",
			},
			&cli.Float64Flag{
				Name:  "angular-resolution-deg",
				Value: 1,
				Usage: "radial sector width, degrees",
			},
			&cli.Float64Flag{
				Name:  "distance-tolerance",
				Value: 0.2,
				Usage: "closeness threshold added to expected spacing, meters",
			},
			&cli.Float64Flag{
				Name:  "split-height",
				Value: 0.2,
				Usage: "vertical jump separating ground from objects, meters",
			},
			&cli.BoolFlag{
				Name:  "virtual-ground",
				Value: true,
				Usage: "seed forward sweeps from a synthetic ground point",
			},
			&cli.Float64Flag{
				Name:  "wheelbase",
				Value: 2.5,
				Usage: "vehicle wheel base for the virtual ground origin, meters",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Action: runFilter,
	}
	if err := app.Run(os.Args); err != nil {
		golog.Global().Fatal(err)
	}
}

func runFilter(c *cli.Context) error {
	logger := golog.NewDevelopmentLogger("groundfilter")
	if c.Bool("debug") {
		logger = golog.NewDebugLogger("groundfilter")
	}

	cfg := segmentation.Config{
		GlobalSlopeMaxAngle: gsutils.DegToRad(c.Float64("global-slope-deg")),
		LocalSlopeMaxAngle:  gsutils.DegToRad(c.Float64("local-slope-deg")),
		AngularResolution:   gsutils.DegToRad(c.Float64("angular-resolution-deg")),
		DistanceTolerance:   c.Float64("distance-tolerance"),
		SplitHeightDistance: c.Float64("split-height"),
		UseVirtualGround:    c.Bool("virtual-ground"),
	}
	geom := vehicle.Static{WheelBaseM: c.Float64("wheelbase")}

	frame, err := pointcloud.NewFrameFromFile(c.String("input"), logger)
	if err != nil {
		return errors.Wrap(err, "error reading input frame")
	}
	logger.Infow("frame loaded", "points", frame.Size())

	start := time.Now()
	seg, err := segmentation.ScanGround(c.Context, frame, geom, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	ground := seg.GroundCloud()
	nonGround := seg.NonGroundCloud()
	logger.Infow("frame classified",
		"elapsed", elapsed,
		"ground", ground.Size(),
		"non_ground", nonGround.Size(),
		"unlabeled", len(seg.Unlabeled()),
	)
	logHeightSummary(logger, "ground", ground)
	logHeightSummary(logger, "non_ground", nonGround)

	if out := c.String("nonground"); out != "" {
		if err := writeFrame(nonGround, out, c.Bool("binary")); err != nil {
			return errors.Wrap(err, "error writing non-ground output")
		}
	}
	if out := c.String("ground"); out != "" {
		if err := writeFrame(ground, out, c.Bool("binary")); err != nil {
			return errors.Wrap(err, "error writing ground output")
		}
	}
	return nil
}

func logHeightSummary(logger golog.Logger, name string, frame *pointcloud.Frame) {
	if frame.Size() == 0 {
		return
	}
	heights := make([]float64, frame.Size())
	for i := range heights {
		heights[i] = frame.At(i).Z
	}
	min, err := stats.Min(heights)
	if err != nil {
		return
	}
	mean, _ := stats.Mean(heights)
	max, _ := stats.Max(heights)
	logger.Infow(name+" height summary", "min", min, "mean", mean, "max", max)
}

func writeFrame(frame *pointcloud.Frame, fn string, binary bool) error {
	if filepath.Ext(fn) == ".las" {
		return pointcloud.WriteToLASFile(frame, fn)
	}
	//nolint:gosec
	out, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(out.Close)
	encoding := pointcloud.PCDAscii
	if binary {
		encoding = pointcloud.PCDBinary
	}
	return pointcloud.ToPCD(frame, out, encoding)
}
