package projectile

import (
	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/events"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/scheduler"
	"github.com/zeusync/chainshot/internal/core/spatial"
	"github.com/zeusync/chainshot/pkg/generic"
	"github.com/zeusync/chainshot/pkg/physics"
)

// Pool owns every projectile and the tuning they share.
type Pool struct {
	pool       *generic.Pool[*Projectile]
	sched      *scheduler.Scheduler
	propagator Propagator
	events     *events.Emitter
	log        log.Log
	enabled    bool

	speed               float64
	explosionMultiplier float64
	maxLifetime         float64
	minRadius           float64
	maxRadius           float64
	hitMask             spatial.Category
}

// NewPool warms up cfg.Projectile.PoolSize projectiles. Without a config or
// scheduler it logs and stays disabled. A nil propagator is allowed: hits
// then explode only the struck target.
func NewPool(cfg *config.Gameplay, sched *scheduler.Scheduler, propagator Propagator, emitter *events.Emitter, l log.Log) *Pool {
	p := &Pool{log: log.OrNop(l).Named("projectiles"), events: emitter, propagator: propagator}
	if cfg == nil || sched == nil {
		p.log.Error("projectile pool disabled",
			log.Error(config.ErrConfigurationMissing),
			log.Bool("config", cfg != nil),
			log.Bool("scheduler", sched != nil),
		)
		return p
	}
	p.sched = sched
	p.speed = cfg.Projectile.Speed
	p.explosionMultiplier = cfg.Projectile.ExplosionMultiplier
	p.maxLifetime = cfg.Projectile.MaxLifetime.Seconds()
	p.minRadius = cfg.Charge.MinProjectileRadius
	p.maxRadius = cfg.Charge.MaxProjectileRadius
	p.hitMask = cfg.Infection.ObstacleCategory
	p.pool = generic.NewPool(p.create, p.reset, cfg.Projectile.PoolSize)
	p.enabled = true
	return p
}

func (p *Pool) create() *Projectile {
	pr := &Projectile{pool: p, radius: p.minRadius, orientation: physics.Identity}
	pr.expire = pr.timeout
	return pr
}

// reset is the full teardown every projectile goes through on its way back.
func (p *Pool) reset(pr *Projectile) {
	p.sched.Cancel(pr.Handle())
	pr.state = StatePooled
	pr.fired = false
	pr.collidable = false
	pr.velocity = physics.Zero
	pr.position = physics.Zero
	pr.orientation = physics.Identity
	pr.radius = p.minRadius
}

func (p *Pool) Enabled() bool { return p.enabled }

// Acquire hands out a previewing projectile at the minimum radius. It returns
// nil only when the pool is disabled.
func (p *Pool) Acquire(position physics.Vec3, orientation physics.Quat) *Projectile {
	if !p.enabled {
		return nil
	}
	pr := p.pool.Get()
	pr.state = StatePreviewing
	pr.position = position
	pr.orientation = orientation
	pr.radius = p.minRadius
	return pr
}

// Release returns a projectile in any state, revoking its lifetime timer.
// Foreign or already pooled projectiles are ignored.
func (p *Pool) Release(pr *Projectile) bool {
	if !p.enabled || pr == nil {
		return false
	}
	return p.pool.Put(pr)
}

// Step advances every armed projectile.
func (p *Pool) Step(dt float64) {
	if !p.enabled {
		return
	}
	p.pool.ForEachActive(func(pr *Projectile) { pr.Step(dt) })
}

func (p *Pool) ForEachActive(fn func(*Projectile)) {
	if p.enabled {
		p.pool.ForEachActive(fn)
	}
}

func (p *Pool) Active() int {
	if !p.enabled {
		return 0
	}
	return p.pool.Active()
}

func (p *Pool) Stats() generic.PoolStats {
	if !p.enabled {
		return generic.PoolStats{}
	}
	return p.pool.Stats()
}

func (p *Pool) sanitizeRadius(r float64) float64 {
	if !physics.Finite(r) {
		return p.minRadius
	}
	return physics.Clamp(r, p.minRadius, p.maxRadius)
}

func (p *Pool) hit(pr *Projectile, target any, point physics.Vec3, influence float64, exploded int) {
	p.log.Debug("projectile hit",
		log.String("projectile", pr.Handle().String()),
		log.Vec3("point", point),
		log.Float64("influence_radius", influence),
		log.Int("chain_exploded", exploded),
	)
	p.events.Emit(events.TypeProjectileHit, events.ProjectileHit{
		Projectile:      pr.Handle(),
		Target:          target,
		Point:           point,
		Radius:          pr.radius,
		InfluenceRadius: influence,
		Exploded:        exploded,
	})
}

func (p *Pool) expired(pr *Projectile) {
	p.log.Debug("projectile expired",
		log.String("projectile", pr.Handle().String()),
		log.Vec3("position", pr.position),
	)
	p.events.Emit(events.TypeProjectileExpired, events.ProjectileExpired{
		Projectile: pr.Handle(),
		Position:   pr.position,
	})
}
