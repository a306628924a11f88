// Package arena steps one level of the simulation frame by frame.
package arena

import (
	"fmt"

	"github.com/zeusync/chainshot/internal/core/chain"
	"github.com/zeusync/chainshot/internal/core/charge"
	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/events"
	"github.com/zeusync/chainshot/internal/core/events/bus"
	"github.com/zeusync/chainshot/internal/core/obstacle"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/projectile"
	"github.com/zeusync/chainshot/internal/core/scheduler"
	"github.com/zeusync/chainshot/internal/core/spawn"
	"github.com/zeusync/chainshot/pkg/physics"
)

// contactCapacity bounds the obstacles considered for one projectile per
// frame.
const contactCapacity = 32

// Input is the trigger state for one frame. Pressed and Released are edges.
type Input struct {
	Pressed  bool
	Held     bool
	Released bool
}

// Snapshot summarizes the world after a Step.
type Snapshot struct {
	Time           float64
	Frame          uint64
	PlayerRadius   float64
	PlayerPosition physics.Vec3
	ChargeState    charge.State
	PreviewRadius  float64
	Projectiles    int
	Obstacles      int
	Exploded       uint64
	Hits           int
	Dead           bool
}

type Arena struct {
	cfg         *config.Gameplay
	log         log.Log
	bus         bus.EventBus
	sched       *scheduler.Scheduler
	grid        *obstacle.Grid
	obstacles   *obstacle.Pool
	chain       *chain.Engine[*obstacle.Obstacle]
	projectiles *projectile.Pool
	charge      *charge.Controller
	spawner     *spawn.Spawner
	level       spawn.Level

	frame    uint64
	hits     int
	subs     []bus.Subscription
	contacts []*obstacle.Obstacle
	collide  func(*projectile.Projectile)
}

// New assembles an arena from its components. Every component must be
// enabled; a disabled one means the graph was built without config.
func New(
	cfg *config.Gameplay,
	l log.Log,
	b bus.EventBus,
	sched *scheduler.Scheduler,
	grid *obstacle.Grid,
	obstacles *obstacle.Pool,
	engine *chain.Engine[*obstacle.Obstacle],
	projectiles *projectile.Pool,
	ctrl *charge.Controller,
	spawner *spawn.Spawner,
	level spawn.Level,
) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case b == nil || sched == nil || grid == nil:
		return nil, fmt.Errorf("%w: arena needs a bus, scheduler and grid", config.ErrConfigurationMissing)
	case !obstacles.Enabled(), !engine.Enabled(), !projectiles.Enabled(), !ctrl.Enabled(), !spawner.Enabled():
		return nil, fmt.Errorf("%w: arena component disabled", config.ErrConfigurationMissing)
	}

	a := &Arena{
		cfg:         cfg,
		log:         log.OrNop(l).Named("arena").With(log.String("level", string(level))),
		bus:         b,
		sched:       sched,
		grid:        grid,
		obstacles:   obstacles,
		chain:       engine,
		projectiles: projectiles,
		charge:      ctrl,
		spawner:     spawner,
		level:       level,
		contacts:    make([]*obstacle.Obstacle, 0, contactCapacity),
	}
	a.collide = a.resolveContacts

	sub, err := b.Subscribe(events.TypeProjectileHit, func(bus.Event) error {
		a.hits++
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.subs = append(a.subs, sub)
	return a, nil
}

func (a *Arena) Level() spawn.Level                       { return a.level }
func (a *Arena) Bus() bus.EventBus                        { return a.bus }
func (a *Arena) Charge() *charge.Controller               { return a.charge }
func (a *Arena) Obstacles() *obstacle.Pool                { return a.obstacles }
func (a *Arena) Projectiles() *projectile.Pool            { return a.projectiles }
func (a *Arena) Chain() *chain.Engine[*obstacle.Obstacle] { return a.chain }

// Spawn lays out the level's obstacle field and returns how many obstacles
// were placed.
func (a *Arena) Spawn() int {
	return len(a.spawner.Spawn(a.level))
}

// Place puts a single idle obstacle at position.
func (a *Arena) Place(position physics.Vec3) *obstacle.Obstacle {
	return a.obstacles.Acquire(position, physics.Identity)
}

// Detonate explodes o from outside any projectile hit and spreads the chain
// reaction with the obstacle's own influence radius. It returns how many
// obstacles exploded, o included.
func (a *Arena) Detonate(o *obstacle.Obstacle) int {
	if o == nil {
		return 0
	}
	radius := o.Radius()
	if !o.Explode() {
		return 0
	}
	return 1 + a.chain.Propagate(o, radius*a.cfg.Infection.InfluenceMultiplier)
}

// Kill ends the run from outside, e.g. when the player touches a hazard.
func (a *Arena) Kill() bool { return a.charge.Kill() }

// Step advances the world by dt seconds.
func (a *Arena) Step(dt float64, in Input) Snapshot {
	if !(dt >= 0) || !physics.Finite(dt) {
		a.log.Debug("arena ignored degenerate dt", log.Float64("dt", dt))
		dt = 0
	}
	a.frame++

	if in.Pressed {
		a.charge.Start()
	}
	if in.Held || in.Pressed {
		a.charge.Update(dt)
	}
	if in.Released {
		a.charge.Release()
	}

	a.charge.Player().Advance(dt, a.cfg.Player.AdvanceSpeed)
	a.sched.Advance(dt)
	a.projectiles.Step(dt)
	a.projectiles.ForEachActive(a.collide)

	return a.Snapshot()
}

// resolveContacts hits the closest obstacle an armed projectile overlaps.
func (a *Arena) resolveContacts(p *projectile.Projectile) {
	if p.State() != projectile.StateArmed {
		return
	}
	pos := p.Position()
	a.contacts = a.grid.QueryCircle(pos, p.Radius(), a.cfg.Infection.ObstacleCategory, a.contacts[:0])
	var (
		closest *obstacle.Obstacle
		best    float64
	)
	for _, o := range a.contacts {
		if o.Exploded() {
			continue
		}
		if d := physics.DistanceSquared(pos, o.Position()); closest == nil || d < best {
			closest, best = o, d
		}
	}
	clear(a.contacts)
	if closest == nil {
		return
	}
	dir := pos.Sub(closest.Position()).Normalized()
	p.Collide(closest, closest.Position().Add(dir.Scale(closest.Radius())))
}

func (a *Arena) Snapshot() Snapshot {
	pl := a.charge.Player()
	s := Snapshot{
		Time:           a.sched.Now(),
		Frame:          a.frame,
		PlayerRadius:   pl.Radius(),
		PlayerPosition: pl.Position(),
		ChargeState:    a.charge.State(),
		Projectiles:    a.projectiles.Active(),
		Obstacles:      a.obstacles.Idle(),
		Exploded:       a.obstacles.Stats().Exploded,
		Hits:           a.hits,
		Dead:           pl.Dead(),
	}
	if p := a.charge.Preview(); p != nil {
		s.PreviewRadius = p.Radius()
	}
	return s
}

// Close detaches the arena from its bus.
func (a *Arena) Close() {
	for _, s := range a.subs {
		_ = a.bus.Unsubscribe(s)
	}
	a.subs = nil
	a.sched.Reset()
}
