// Package sweep runs a scenario across a grid of character builds and
// ranks the results by a scenario metric.
package sweep

import (
	"context"
	"fmt"
	"math"

	"github.com/hooplab/courtsim/internal/sim"
)

// Axis is one swept build parameter, e.g. weight or height.
type Axis struct {
	Name   string
	Values []float64
}

// BuildFunc constructs a fresh scenario for one grid point. The scenario
// must carry the metric named in Run; every point gets its own scenario so
// no state leaks between runs.
type BuildFunc func(params map[string]float64) (*sim.Scenario, sim.Config, error)

// Point is one evaluated grid cell.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
}

// Result holds every evaluated point plus the best one by the requested
// metric.
type Result struct {
	Points []Point
	Best   Point
}

// Grid is a cartesian sweep over its axes, evaluated depth first in axis
// declaration order so output ordering is stable.
type Grid struct {
	axes []Axis
}

func New(axes ...Axis) *Grid {
	return &Grid{axes: axes}
}

// Size returns the number of grid cells.
func (g *Grid) Size() int {
	n := 1
	for _, ax := range g.axes {
		n *= len(ax.Values)
	}
	return n
}

// Run evaluates every cell and ranks by metricName: lowest wins when
// minimize is set, highest otherwise. A cell whose build or run fails
// aborts the sweep; partial sweeps are not comparable.
func (g *Grid) Run(ctx context.Context, build BuildFunc, metricName string, minimize bool) (*Result, error) {
	if len(g.axes) == 0 {
		return nil, fmt.Errorf("sweep: no axes")
	}
	for _, ax := range g.axes {
		if len(ax.Values) == 0 {
			return nil, fmt.Errorf("sweep: axis %q has no values", ax.Name)
		}
	}

	res := &Result{}
	best := math.Inf(1)
	if !minimize {
		best = math.Inf(-1)
	}

	var walk func(depth int, current map[string]float64) error
	walk = func(depth int, current map[string]float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth == len(g.axes) {
			params := make(map[string]float64, len(current))
			for k, v := range current {
				params[k] = v
			}

			scenario, cfg, err := build(params)
			if err != nil {
				return fmt.Errorf("sweep: build %v: %w", params, err)
			}
			run, err := scenario.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("sweep: run %v: %w", params, err)
			}

			val, ok := run.Metrics[metricName]
			if !ok {
				return fmt.Errorf("sweep: scenario carries no metric %q", metricName)
			}

			pt := Point{Params: params, Metrics: run.Metrics}
			res.Points = append(res.Points, pt)
			if (minimize && val < best) || (!minimize && val > best) {
				best = val
				res.Best = pt
			}
			return nil
		}

		ax := g.axes[depth]
		for _, v := range ax.Values {
			current[ax.Name] = v
			if err := walk(depth+1, current); err != nil {
				return err
			}
		}
		delete(current, ax.Name)
		return nil
	}

	if err := walk(0, make(map[string]float64)); err != nil {
		return nil, err
	}
	return res, nil
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
