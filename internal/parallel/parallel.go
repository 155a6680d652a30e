// Package parallel fans index-range work out to a bounded pool of goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny inputs on the calling goroutine.
const minChunk = 64

// Workers resolves a requested worker count. Values <= 0 select GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n < 1 {
		n = 1
	}
	return n
}

// For calls fn over disjoint half-open chunks [lo, hi) that together cover [0, n).
// fn must write only to indices inside its own chunk; For returns after every chunk is done.
func For(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers = Workers(workers)
	if workers == 1 || n < 2*minChunk {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// Map applies f to every element of in and stores the results at the same index.
func Map[T, R any](in []T, workers int, f func(T) R) []R {
	out := make([]R, len(in))
	For(len(in), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = f(in[i])
		}
	})
	return out
}
