package obstacle

import (
	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/events"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/scheduler"
	"github.com/zeusync/chainshot/internal/core/spatial"
	"github.com/zeusync/chainshot/pkg/generic"
	"github.com/zeusync/chainshot/pkg/physics"
)

// Grid is the spatial index obstacles register in while idle.
type Grid = spatial.Grid[*Obstacle]

// NewGrid builds an obstacle index with cells sized for the configured
// obstacle radius.
func NewGrid(cfg *config.Gameplay) *Grid {
	cell := spatial.DefaultCellSize
	if cfg != nil && cfg.Obstacle.BaseRadius > 0 {
		cell = cfg.Obstacle.BaseRadius * 8
	}
	return spatial.NewGrid[*Obstacle](cell)
}

// Pool owns every obstacle. Idle obstacles are indexed in the grid; an
// obstacle leaves the grid the moment it explodes and returns to the pool
// once its explosion delay elapsed.
type Pool struct {
	pool         *generic.Pool[*Obstacle]
	grid         *Grid
	sched        *scheduler.Scheduler
	events       *events.Emitter
	log          log.Log
	baseRadius   float64
	category     spatial.Category
	explodeDelay float64
	enabled      bool

	explodedTotal uint64
	returnedTotal uint64
}

// NewPool warms up cfg.Obstacle.PoolSize obstacles. A missing config, grid or
// scheduler leaves the pool disabled: it logs once and hands out nothing.
func NewPool(cfg *config.Gameplay, grid *Grid, sched *scheduler.Scheduler, emitter *events.Emitter, l log.Log) *Pool {
	p := &Pool{log: log.OrNop(l).Named("obstacles"), events: emitter}
	if cfg == nil || grid == nil || sched == nil {
		p.log.Error("obstacle pool disabled",
			log.Error(config.ErrConfigurationMissing),
			log.Bool("config", cfg != nil),
			log.Bool("grid", grid != nil),
			log.Bool("scheduler", sched != nil),
		)
		return p
	}

	p.grid = grid
	p.sched = sched
	p.baseRadius = cfg.Obstacle.BaseRadius
	p.category = cfg.Infection.ObstacleCategory
	p.explodeDelay = cfg.Obstacle.ExplodeDelay.Seconds()
	p.pool = generic.NewPool(p.create, p.reset, cfg.Obstacle.PoolSize)
	p.enabled = true
	return p
}

func (p *Pool) create() *Obstacle {
	o := &Obstacle{pool: p, baseRadius: p.baseRadius, scale: 1, orientation: physics.Identity}
	o.returnDue = func() { p.complete(o) }
	return o
}

func (p *Pool) reset(o *Obstacle) {
	p.sched.Cancel(o.Handle())
	p.grid.Remove(o)
	o.exploded.Store(false)
	o.scale = 1
	o.baseRadius = p.baseRadius
	o.position = physics.Zero
	o.orientation = physics.Identity
}

func (p *Pool) Enabled() bool { return p.enabled }

// Acquire places an idle obstacle in the world. It returns nil only when the
// pool is disabled.
func (p *Pool) Acquire(position physics.Vec3, orientation physics.Quat) *Obstacle {
	if !p.enabled {
		return nil
	}
	o := p.pool.Get()
	o.position = position
	o.orientation = orientation
	p.grid.Insert(o)
	return o
}

// SetScale resizes an idle obstacle, e.g. for spawn-time size mutation.
func (p *Pool) SetScale(o *Obstacle, scale float64) bool {
	if o == nil || o.pool != p || o.State() != StateIdle || !(scale > 0) || !physics.Finite(scale) {
		return false
	}
	o.scale = scale
	p.grid.Insert(o)
	return true
}

// Release reclaims an obstacle early, revoking its pending return. Releasing
// an obstacle this pool does not own is a no-op.
func (p *Pool) Release(o *Obstacle) bool {
	if !p.enabled || o == nil {
		return false
	}
	return p.pool.Put(o)
}

func (p *Pool) exploded(o *Obstacle) {
	p.explodedTotal++
	p.grid.Remove(o)
	p.events.Emit(events.TypeObstacleExploded, events.ObstacleExploded{
		Obstacle: o.Handle(),
		Position: o.position,
		Radius:   o.Radius(),
	})
	// Always deferred, even with no delay: a chain reaction still reads the
	// positions of obstacles it exploded earlier in the same call.
	p.sched.After(o.Handle(), p.explodeDelay, o.returnDue)
}

func (p *Pool) complete(o *Obstacle) {
	if !o.slot.Active() || !o.exploded.Load() {
		return
	}
	h := o.Handle()
	if p.pool.Put(o) {
		p.returnedTotal++
		p.events.Emit(events.TypeObstacleReturned, events.ObstacleReturned{Obstacle: h})
	}
}

// ForEachActive visits idle and exploding obstacles.
func (p *Pool) ForEachActive(fn func(*Obstacle)) {
	if p.enabled {
		p.pool.ForEachActive(fn)
	}
}

// Active counts obstacles owned by the simulation, exploding ones included.
func (p *Pool) Active() int {
	if !p.enabled {
		return 0
	}
	return p.pool.Active()
}

// Idle counts obstacles still standing.
func (p *Pool) Idle() int {
	if !p.enabled {
		return 0
	}
	return p.grid.Len()
}

type Stats struct {
	generic.PoolStats
	Exploded uint64
	Returned uint64
}

func (p *Pool) Stats() Stats {
	s := Stats{Exploded: p.explodedTotal, Returned: p.returnedTotal}
	if p.enabled {
		s.PoolStats = p.pool.Stats()
	}
	return s
}
