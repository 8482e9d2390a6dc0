package spawn

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/mixity/internal/catalog"
	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/weighted"
	"github.com/udisondev/mixity/internal/world"
)

// Stats summarizes one placement pass.
// Placed + NoSelection + RejectedExclusion + RejectedOverlap == Attempts.
type Stats struct {
	Attempts          int
	Placed            int
	Rare              int
	NoSelection       int
	RejectedExclusion int
	RejectedOverlap   int
}

// Density returns accepted placements per square unit of area.
func (s Stats) Density(area float64) float64 {
	if area <= 0 {
		return 0
	}
	return float64(s.Placed) / area
}

// Placer fills a region with non-overlapping placements drawn from a catalog.
//
// One pass is a fixed budget of attempts. A rejected attempt is dropped, never
// retried: final density follows from region size, budget and footprint
// sizes rather than from a target count.
//
// Not safe for concurrent Run calls: the occupied-space index is owned by the
// placer and reused between passes.
type Placer struct {
	catalog  *catalog.Catalog
	selector *weighted.Selector[int]
	cfg      Config
	index    world.OccupiedIndex
	logger   *slog.Logger
}

// Option configures a Placer.
type Option func(*Placer)

// WithIndex replaces the default flat occupied-space index.
func WithIndex(idx world.OccupiedIndex) Option {
	return func(p *Placer) {
		p.index = idx
	}
}

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Placer) {
		p.logger = l
	}
}

// NewPlacer validates cfg and binds it to a catalog.
func NewPlacer(cat *catalog.Catalog, cfg Config, opts ...Option) (*Placer, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	entries := make([]weighted.Entry[int], cat.Len())
	for i := range entries {
		entries[i] = weighted.Entry[int]{Weight: cat.Kind(i).SpawnWeight, Item: i}
	}

	p := &Placer{
		catalog:  cat,
		selector: weighted.New(entries),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.index == nil {
		p.index = world.NewFlatIndex(cfg.Attempts / 4)
	}
	return p, nil
}

// Config returns the pass configuration.
func (p *Placer) Config() Config {
	return p.cfg
}

func (p *Placer) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// Run executes one placement pass, emitting accepted placements to sink in
// attempt order. The occupied-space index is cleared first, so passes are
// independent of each other.
//
// Per attempt, draws happen in a fixed order (kind, position, rarity, scale,
// and yaw on acceptance) so a given seed reproduces the same arrangement.
func (p *Placer) Run(r Rand, sink Sink) Stats {
	p.index.Reset()

	var (
		st        = Stats{Attempts: p.cfg.Attempts}
		center    = p.cfg.Region.Center()
		exclusion = p.cfg.ExclusionRadius * p.cfg.ExclusionRadius
		warned    bool
	)

	for attempt := range p.cfg.Attempts {
		ki, ok := p.selector.Pick(r)
		if !ok {
			st.NoSelection++
			if !warned {
				// logged once per pass
				p.log().Warn("no spawnable kind can be selected, skipping attempts",
					"kinds", p.catalog.Len(),
					"total_weight", p.catalog.TotalWeight())
				warned = true
			}
			continue
		}
		kind := p.catalog.Kind(ki)

		pos := p.cfg.Region.Sample(r)

		rare := r.Float64() < p.cfg.RarityProbability
		var scale float64
		if rare {
			scale = p.cfg.RareScale.Sample(r)
		} else {
			scale = p.cfg.CommonScale.Sample(r)
		}
		radius := kind.BaseSize * scale

		if pos.DistanceSquared(center) < exclusion {
			st.RejectedExclusion++
			continue
		}
		if p.index.Overlaps(pos, radius) {
			st.RejectedOverlap++
			continue
		}

		p.index.Insert(model.OccupiedSpan{Position: pos, Radius: radius})

		yaw := (2*r.Float64() - 1) * math.Pi
		sink.Emit(model.PlacementResult{
			Seq:       attempt,
			Name:      model.InstanceName(kind.Archetype, attempt),
			KindIndex: ki,
			Kind:      kind,
			Archetype: kind.Archetype,
			Position:  pos.Lift(p.cfg.GroundHeight),
			Yaw:       yaw,
			Scale:     scale,
			Radius:    radius,
			Rare:      rare,
			Footprint: kind.Footprint,
		})

		st.Placed++
		if rare {
			st.Rare++
		}
	}

	p.log().Debug("placement pass done",
		"attempts", st.Attempts,
		"placed", st.Placed,
		"rare", st.Rare,
		"rejected_exclusion", st.RejectedExclusion,
		"rejected_overlap", st.RejectedOverlap,
		"no_selection", st.NoSelection)

	return st
}
