package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 63, 128, 1000, 4097} {
		hits := make([]int32, n)
		For(n, 8, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestMapPreservesOrder(t *testing.T) {
	in := make([]int, 1000)
	for i := range in {
		in[i] = i
	}
	out := Map(in, 4, func(v int) int { return v * v })
	for i, v := range out {
		if v != i*i {
			t.Fatalf("index %d: expected %d, got %d", i, i*i, v)
		}
	}
}

func TestWorkersDefault(t *testing.T) {
	if Workers(0) < 1 {
		t.Fatalf("expected at least one worker")
	}
	if Workers(3) != 3 {
		t.Fatalf("expected explicit worker count to be kept")
	}
}
