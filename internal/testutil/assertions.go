package testutil

import (
	"testing"

	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/world"
)

// AssertNoOverlap проверяет, что никакие два размещения не пересекаются
// (тот же критерий произведения радиусов, что и у индекса).
func AssertNoOverlap(t testing.TB, results []model.PlacementResult) {
	t.Helper()

	for i := range results {
		a := results[i].Span()
		for j := i + 1; j < len(results); j++ {
			b := results[j].Span()
			if world.Collides(b.Position, b.Radius, a) {
				t.Fatalf("placements %q and %q overlap: d²=%v, r1*r2=%v",
					results[i].Name, results[j].Name,
					a.Position.DistanceSquared(b.Position), a.Radius*b.Radius)
			}
		}
	}
}

// AssertOutsideExclusion проверяет, что ни одно размещение не попало
// в запретную зону вокруг center.
func AssertOutsideExclusion(t testing.TB, results []model.PlacementResult, center model.Vec2, radius float64) {
	t.Helper()

	limit := radius * radius
	for _, r := range results {
		if d := r.Position.Ground().DistanceSquared(center); d < limit {
			t.Fatalf("placement %q inside exclusion zone: d²=%v < %v", r.Name, d, limit)
		}
	}
}

// AssertInRegion проверяет, что все размещения лежат внутри области.
func AssertInRegion(t testing.TB, results []model.PlacementResult, region world.Region) {
	t.Helper()

	for _, r := range results {
		if !region.Contains(r.Position.Ground()) {
			t.Fatalf("placement %q at %+v outside region %v", r.Name, r.Position, region)
		}
	}
}

// AssertAttemptOrder проверяет, что Seq строго возрастает.
func AssertAttemptOrder(t testing.TB, results []model.PlacementResult) {
	t.Helper()

	for i := 1; i < len(results); i++ {
		if results[i].Seq <= results[i-1].Seq {
			t.Fatalf("results out of attempt order at %d: seq %d after %d",
				i, results[i].Seq, results[i-1].Seq)
		}
	}
}
