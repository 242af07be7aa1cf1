package segmentation

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestPointsCentroid(t *testing.T) {
	var c pointsCentroid
	test.That(t, c.averageRadius(), test.ShouldEqual, 0)
	test.That(t, c.averageHeight(), test.ShouldEqual, 0)
	test.That(t, c.averageSlope(), test.ShouldEqual, 0)

	c.add(4, 1)
	c.add(6, 3)
	test.That(t, c.averageRadius(), test.ShouldEqual, 5)
	test.That(t, c.averageHeight(), test.ShouldEqual, 2)
	test.That(t, c.averageSlope(), test.ShouldAlmostEqual, math.Atan2(2, 5))

	c.reset()
	test.That(t, c.count, test.ShouldEqual, 0)
	test.That(t, c.averageRadius(), test.ShouldEqual, 0)
	test.That(t, c.averageHeight(), test.ShouldEqual, 0)

	// negative heights keep their sign through the average
	c.add(10, -2)
	test.That(t, c.averageHeight(), test.ShouldEqual, -2)
	test.That(t, c.averageSlope(), test.ShouldAlmostEqual, math.Atan2(-2, 10))
}
