package render

import (
	"golang.org/x/sync/errgroup"
)

// bandsPerWorker oversubscribes the bands so a worker that drew a band
// full of planet does not leave the others idle.
const bandsPerWorker = 4

// forBands splits rows [0, height) into disjoint bands and calls fn for
// each, in parallel when p.Workers > 1. No two bands share a pixel, so
// workers never write the same framebuffer entry. It returns the sum of
// fn's results.
func (p *Pipeline) forBands(height int, fn func(y0, y1 int) int) int {
	if p.Workers < 2 || height < 2 {
		return fn(0, height)
	}

	bands := min(height, p.Workers*bandsPerWorker)
	counts := make([]int, bands)

	var g errgroup.Group
	g.SetLimit(p.Workers)
	for i := range bands {
		y0, y1 := i*height/bands, (i+1)*height/bands
		g.Go(func() error {
			counts[i] = fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
