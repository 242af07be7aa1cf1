package utils

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestRangeParallel(t *testing.T) {
	covered := make([]int32, 1000)
	err := RangeParallel(context.Background(), len(covered), func(workerNum, from, to int) error {
		for i := from; i < to; i++ {
			atomic.AddInt32(&covered[i], 1)
		}
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	for i := range covered {
		test.That(t, covered[i], test.ShouldEqual, 1)
	}

	// more workers available than work items
	var count int32
	err = RangeParallel(context.Background(), 2, func(workerNum, from, to int) error {
		atomic.AddInt32(&count, int32(to-from))
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, count, test.ShouldEqual, 2)

	err = RangeParallel(context.Background(), 0, func(workerNum, from, to int) error {
		t.Fatal("should not be called")
		return nil
	})
	test.That(t, err, test.ShouldBeNil)

	err = RangeParallel(context.Background(), 10, func(workerNum, from, to int) error {
		if from == 0 {
			return errors.New("bad range")
		}
		return nil
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad range")
}

func TestRangeParallelSingleWorkerOrder(t *testing.T) {
	old := ParallelFactor
	ParallelFactor = 1
	defer func() { ParallelFactor = old }()

	var order []int
	err := RangeParallel(context.Background(), 5, func(workerNum, from, to int) error {
		test.That(t, workerNum, test.ShouldEqual, 0)
		for i := from; i < to; i++ {
			order = append(order, i)
		}
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, order, test.ShouldResemble, []int{0, 1, 2, 3, 4})
}
