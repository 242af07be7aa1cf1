package segmentation

import "math"

// pointsCentroid accumulates the running centroid of a contiguous run of
// same-label points in the radius/height plane.
type pointsCentroid struct {
	radiusSum float64
	heightSum float64
	count     int
}

func (c *pointsCentroid) reset() {
	*c = pointsCentroid{}
}

func (c *pointsCentroid) add(radius, height float64) {
	c.radiusSum += radius
	c.heightSum += height
	c.count++
}

// averageRadius is 0 for an empty centroid.
func (c *pointsCentroid) averageRadius() float64 {
	if c.count == 0 {
		return 0
	}
	return c.radiusSum / float64(c.count)
}

// averageHeight is 0 for an empty centroid.
func (c *pointsCentroid) averageHeight() float64 {
	if c.count == 0 {
		return 0
	}
	return c.heightSum / float64(c.count)
}

// averageSlope is the angle from the origin to the centroid.
func (c *pointsCentroid) averageSlope() float64 {
	return math.Atan2(c.averageHeight(), c.averageRadius())
}
