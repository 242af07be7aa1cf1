package pointcloud

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

var testFramePoints = []r3.Vector{
	{X: 0, Y: 0, Z: 0},
	{X: 1.5, Y: -2.25, Z: 0.5},
	{X: -100, Y: 42, Z: 7.125},
}

func TestPCDRoundTripAscii(t *testing.T) {
	logger := golog.NewTestLogger(t)
	frame, err := NewFrame(testFramePoints)
	test.That(t, err, test.ShouldBeNil)

	var buf bytes.Buffer
	test.That(t, ToPCD(frame, &buf, PCDAscii), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldContainSubstring, "FIELDS x y z")
	test.That(t, buf.String(), test.ShouldContainSubstring, "POINTS 3")
	test.That(t, buf.String(), test.ShouldContainSubstring, "DATA ascii")

	got, err := NewFrameFromPCD(&buf, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Size(), test.ShouldEqual, frame.Size())
	for i := 0; i < frame.Size(); i++ {
		test.That(t, got.At(i).X, test.ShouldAlmostEqual, frame.At(i).X, 1e-6)
		test.That(t, got.At(i).Y, test.ShouldAlmostEqual, frame.At(i).Y, 1e-6)
		test.That(t, got.At(i).Z, test.ShouldAlmostEqual, frame.At(i).Z, 1e-6)
	}
}

func TestPCDRoundTripBinary(t *testing.T) {
	logger := golog.NewTestLogger(t)
	frame, err := NewFrame(testFramePoints)
	test.That(t, err, test.ShouldBeNil)

	var buf bytes.Buffer
	test.That(t, ToPCD(frame, &buf, PCDBinary), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldContainSubstring, "DATA binary")

	got, err := NewFrameFromPCD(&buf, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Size(), test.ShouldEqual, frame.Size())
	for i := 0; i < frame.Size(); i++ {
		// binary pcd stores float32
		test.That(t, got.At(i).X, test.ShouldAlmostEqual, frame.At(i).X, 1e-4)
		test.That(t, got.At(i).Y, test.ShouldAlmostEqual, frame.At(i).Y, 1e-4)
		test.That(t, got.At(i).Z, test.ShouldAlmostEqual, frame.At(i).Z, 1e-4)
	}
}

func TestPCDEmptyFrame(t *testing.T) {
	logger := golog.NewTestLogger(t)
	frame, err := NewFrame(nil)
	test.That(t, err, test.ShouldBeNil)

	var buf bytes.Buffer
	test.That(t, ToPCD(frame, &buf, PCDAscii), test.ShouldBeNil)
	got, err := NewFrameFromPCD(&buf, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Size(), test.ShouldEqual, 0)
}

func TestPCDRejectsUnsupported(t *testing.T) {
	logger := golog.NewTestLogger(t)

	bad := "VERSION .7\nFIELDS x y z rgb\nSIZE 4 4 4 4\nTYPE F F F I\nCOUNT 1 1 1 1\n" +
		"WIDTH 0\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS 0\nDATA ascii\n"
	_, err := NewFrameFromPCD(bytes.NewBufferString(bad), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported pcd fields")

	outOfOrder := "FIELDS x y z\nVERSION .7\n"
	_, err = NewFrameFromPCD(bytes.NewBufferString(outOfOrder), logger)
	test.That(t, err, test.ShouldNotBeNil)

	truncated := "VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\n" +
		"WIDTH 2\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS 2\nDATA ascii\n1 2 3\n"
	_, err = NewFrameFromPCD(bytes.NewBufferString(truncated), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewFrameFromFile(t *testing.T) {
	logger := golog.NewTestLogger(t)
	frame, err := NewFrame(testFramePoints)
	test.That(t, err, test.ShouldBeNil)

	dir := t.TempDir()
	fn := filepath.Join(dir, "frame.pcd")
	f, err := os.Create(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ToPCD(frame, f, PCDAscii), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)

	got, err := NewFrameFromFile(fn, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Size(), test.ShouldEqual, 3)

	_, err = NewFrameFromFile(filepath.Join(dir, "frame.xyz"), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "do not know how")
}

func TestLASRoundTrip(t *testing.T) {
	logger := golog.NewTestLogger(t)
	frame, err := NewFrame(testFramePoints)
	test.That(t, err, test.ShouldBeNil)

	fn := filepath.Join(t.TempDir(), "frame.las")
	test.That(t, WriteToLASFile(frame, fn), test.ShouldBeNil)

	got, err := NewFrameFromLASFile(fn, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Size(), test.ShouldEqual, frame.Size())
	for i := 0; i < frame.Size(); i++ {
		test.That(t, got.At(i).X, test.ShouldAlmostEqual, frame.At(i).X, 1e-3)
		test.That(t, got.At(i).Y, test.ShouldAlmostEqual, frame.At(i).Y, 1e-3)
		test.That(t, got.At(i).Z, test.ShouldAlmostEqual, frame.At(i).Z, 1e-3)
	}
}
