// Package chain spreads explosions across neighbouring obstacles.
//
// Propagation is a breadth-first flood fill: everything within the influence
// radius of the origin explodes, then everything within the same radius of
// each newly exploded obstacle, until no unexploded neighbour is left. The
// radius never grows per hop.
package chain

import (
	"math"

	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/spatial"
	"github.com/zeusync/chainshot/pkg/physics"
)

// DefaultQueryCapacity bounds a single neighbourhood query.
const DefaultQueryCapacity = 256

// Node is an explodable body. Explode must report true only for the call
// that performed the transition.
type Node interface {
	spatial.Body
	Exploded() bool
	Explode() bool
}

type Stats struct {
	Runs      uint64
	Exploded  uint64
	Queries   uint64
	Truncated uint64
}

// Engine owns its query scratch buffer and work queue, so it allocates only
// while they grow. One Engine must not be shared between goroutines; give
// each concurrent caller its own.
type Engine[T Node] struct {
	provider spatial.Provider[T]
	mask     spatial.Category
	scratch  []T
	queue    []T
	log      log.Log
	stats    Stats
	enabled  bool
}

// New builds an engine over provider. Without a provider or config the engine
// logs and stays disabled; Propagate then explodes nothing.
func New[T Node](provider spatial.Provider[T], cfg *config.Gameplay, l log.Log) *Engine[T] {
	e := &Engine[T]{log: log.OrNop(l).Named("chain")}
	if provider == nil || cfg == nil {
		e.log.Error("chain engine disabled",
			log.Error(config.ErrConfigurationMissing),
			log.Bool("provider", provider != nil),
			log.Bool("config", cfg != nil),
		)
		return e
	}
	capacity := cfg.Infection.QueryCapacity
	if capacity <= 0 {
		capacity = DefaultQueryCapacity
	}
	e.provider = provider
	e.mask = cfg.Infection.ObstacleCategory
	e.scratch = make([]T, 0, capacity)
	e.queue = make([]T, 0, capacity)
	e.enabled = true
	return e
}

func (e *Engine[T]) Enabled() bool { return e.enabled }

// Capacity is the per-query result bound.
func (e *Engine[T]) Capacity() int { return cap(e.scratch) }

func (e *Engine[T]) Stats() Stats { return e.stats }

// Propagate runs the flood fill centred on origin and returns how many
// obstacles this call exploded. The origin itself is included when it has not
// exploded yet.
func (e *Engine[T]) Propagate(origin T, influenceRadius float64) int {
	return e.PropagateAt(origin.Position(), influenceRadius)
}

// PropagateAt runs the flood fill from an arbitrary point, e.g. the centre
// of an obstacle a projectile struck.
func (e *Engine[T]) PropagateAt(center physics.Vec3, influenceRadius float64) int {
	if !e.enabled {
		return 0
	}
	if !(influenceRadius > 0) || math.IsInf(influenceRadius, 0) || !center.Finite() {
		e.log.Debug("propagation skipped",
			log.Float64("radius", influenceRadius),
		)
		return 0
	}
	e.stats.Runs++

	queue := e.queue[:0]
	for _, n := range e.query(center, influenceRadius) {
		if !n.Exploded() {
			queue = append(queue, n)
		}
	}
	exploded := 0
	for _, n := range queue {
		if n.Explode() {
			exploded++
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, n := range e.query(cur.Position(), influenceRadius) {
			if n.Exploded() {
				continue
			}
			// explode before enqueue: nothing can be discovered twice
			if n.Explode() {
				exploded++
				queue = append(queue, n)
			}
		}
	}

	clear(queue)
	e.queue = queue[:0]
	e.stats.Exploded += uint64(exploded)
	return exploded
}

func (e *Engine[T]) query(center physics.Vec3, radius float64) []T {
	e.stats.Queries++
	e.scratch = e.provider.QueryCircle(center, radius, e.mask, e.scratch[:0])
	if len(e.scratch) == cap(e.scratch) {
		// more neighbours may exist; the excess is dropped for this query
		e.stats.Truncated++
		e.log.Debug("neighbour query saturated",
			log.Int("capacity", cap(e.scratch)),
			log.Float64("radius", radius),
		)
	}
	return e.scratch
}
