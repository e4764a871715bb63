package sweep

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hooplab/courtsim/internal/contact"
	"github.com/hooplab/courtsim/internal/court"
	"github.com/hooplab/courtsim/internal/metrics"
	"github.com/hooplab/courtsim/internal/sim"
)

// shoveScenario builds a one-character scenario that takes a fixed shove,
// measuring how the given build rides it out.
func shoveScenario(params map[string]float64) (*sim.Scenario, sim.Config, error) {
	s := sim.NewScenario(court.DefaultTuning(), contact.Events{}, nil)
	c := sim.NewCharacter("subject", params["weight"], params["height"], sim.Abilities{},
		court.DefaultActionTable(), court.DefaultForceTable(), court.DefaultTuning(), nil)
	if err := s.AddCharacter(c); err != nil {
		return nil, sim.Config{}, err
	}
	s.Schedule(sim.Event{Time: 0.1, Character: "subject", Kind: sim.EventImpulse,
		Impulse: mgl64.Vec3{200, 0, 0}})
	s.AddMetric(metrics.NewRecovery())
	return s, sim.Config{Dt: 1.0 / 60.0, Duration: 2.0}, nil
}

func TestSpan(t *testing.T) {
	got := Span(50, 150, 3)
	want := []float64{50, 100, 150}
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span[%d]: got %f want %f", i, got[i], want[i])
		}
	}
	if one := Span(80, 120, 1); len(one) != 1 || one[0] != 80 {
		t.Errorf("degenerate span: %v", one)
	}
}

func TestGrid_SizeAndCoverage(t *testing.T) {
	g := New(
		Axis{Name: "weight", Values: Span(60, 140, 3)},
		Axis{Name: "height", Values: Span(1.7, 2.1, 2)},
	)
	if g.Size() != 6 {
		t.Fatalf("expected 6 cells, got %d", g.Size())
	}

	res, err := g.Run(context.Background(), shoveScenario, "peak_recovery", true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Points) != 6 {
		t.Fatalf("expected 6 evaluated points, got %d", len(res.Points))
	}
	for _, pt := range res.Points {
		if pt.Metrics["peak_recovery"] <= 0 {
			t.Errorf("shoved build must record recovery, params %v", pt.Params)
		}
	}
}

func TestGrid_PicksBest(t *testing.T) {
	g := New(Axis{Name: "weight", Values: Span(60, 140, 3)},
		Axis{Name: "height", Values: []float64{1.9}})

	res, err := g.Run(context.Background(), shoveScenario, "peak_recovery", true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	best := res.Best.Metrics["peak_recovery"]
	for _, pt := range res.Points {
		if pt.Metrics["peak_recovery"] < best {
			t.Fatalf("best not minimal: %f beats %f at %v",
				pt.Metrics["peak_recovery"], best, pt.Params)
		}
	}
}

func TestGrid_UnknownMetric(t *testing.T) {
	g := New(Axis{Name: "weight", Values: []float64{80}},
		Axis{Name: "height", Values: []float64{1.9}})
	if _, err := g.Run(context.Background(), shoveScenario, "nope", true); err == nil {
		t.Fatal("an unregistered metric must fail the sweep")
	}
}

func TestGrid_EmptyAxis(t *testing.T) {
	g := New(Axis{Name: "weight"})
	if _, err := g.Run(context.Background(), shoveScenario, "peak_recovery", true); err == nil {
		t.Fatal("an empty axis must fail")
	}
}
