// Package projectile implements the charged shot:
// Pooled → Previewing → Armed → Resolved → Pooled.
package projectile

import (
	"github.com/zeusync/chainshot/internal/core/entity"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/spatial"
	"github.com/zeusync/chainshot/pkg/generic"
	"github.com/zeusync/chainshot/pkg/physics"
)

type State uint8

const (
	StatePooled State = iota
	// StatePreviewing follows the spawn point, may be resized, never collides.
	StatePreviewing
	// StateArmed moves, collides and runs its lifetime timer.
	StateArmed
	// StateResolved collided or timed out; it is on its way back to the pool.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StatePreviewing:
		return "previewing"
	case StateArmed:
		return "armed"
	case StateResolved:
		return "resolved"
	default:
		return "pooled"
	}
}

// Propagator runs a chain reaction around a point and reports how many
// obstacles it exploded.
type Propagator interface {
	PropagateAt(center physics.Vec3, influenceRadius float64) int
}

// Categorized targets carry a collision category. Targets without one never
// qualify for a hit.
type Categorized interface {
	Category() spatial.Category
}

// Positioned targets seed the chain reaction at their own centre rather than
// at the contact point.
type Positioned interface {
	Position() physics.Vec3
}

var (
	_ entity.Source     = (*Projectile)(nil)
	_ physics.Transform = (*Projectile)(nil)
)

type Projectile struct {
	slot        generic.Slot
	pool        *Pool
	state       State
	position    physics.Vec3
	orientation physics.Quat
	velocity    physics.Vec3
	radius      float64
	fired       bool
	collidable  bool
	// expire is bound once at creation so arming does not allocate.
	expire func()
}

func (p *Projectile) PoolSlot() *generic.Slot { return &p.slot }

func (p *Projectile) Handle() entity.Handle {
	return entity.Handle{Kind: entity.KindProjectile, ID: p.slot.ID()}
}

func (p *Projectile) State() State               { return p.state }
func (p *Projectile) Position() physics.Vec3     { return p.position }
func (p *Projectile) Orientation() physics.Quat  { return p.orientation }
func (p *Projectile) Velocity() physics.Vec3     { return p.velocity }
func (p *Projectile) Radius() float64            { return p.radius }
func (p *Projectile) Fired() bool                { return p.fired }
func (p *Projectile) Collidable() bool           { return p.collidable }
func (p *Projectile) Category() spatial.Category { return spatial.CategoryProjectile }
func (p *Projectile) Generation() uint32         { return p.slot.Generation() }

// RenderedRadius is half the rendered diameter. The core renders nothing, so
// it is the collision radius.
func (p *Projectile) RenderedRadius() float64 { return p.radius }

// MaxLifetime is how long an armed projectile flies before timing out.
func (p *Projectile) MaxLifetime() float64 {
	if p.pool == nil {
		return 0
	}
	return p.pool.maxLifetime
}

// Init (re)initializes a previewing projectile with radius. Calling it every
// tick is idempotent: motion stays zero, collision stays off and no timer is
// left pending.
func (p *Projectile) Init(radius float64) bool {
	if p.state != StatePreviewing || p.pool == nil {
		return false
	}
	p.radius = p.pool.sanitizeRadius(radius)
	p.velocity = physics.Zero
	p.collidable = false
	p.fired = false
	p.pool.sched.Cancel(p.Handle())
	return true
}

// MoveTo keeps a preview attached to its spawn point.
func (p *Projectile) MoveTo(position physics.Vec3) bool {
	if p.state != StatePreviewing || !position.Finite() {
		return false
	}
	p.position = position
	return true
}

// Fire arms a previewing projectile along dir. Firing anything else is a
// no-op.
func (p *Projectile) Fire(dir physics.Vec3) bool {
	if p.pool == nil {
		return false
	}
	if p.state != StatePreviewing {
		p.pool.log.Debug("fire ignored",
			log.String("projectile", p.Handle().String()),
			log.String("state", p.state.String()),
		)
		return false
	}
	p.state = StateArmed
	p.fired = true
	p.collidable = true
	p.velocity = dir.Normalized().Scale(p.pool.speed)
	p.pool.sched.After(p.Handle(), p.pool.maxLifetime, p.expire)
	p.pool.log.Debug("projectile fired",
		log.String("projectile", p.Handle().String()),
		log.Float64("radius", p.radius),
	)
	return true
}

// Step integrates motion of an armed projectile.
func (p *Projectile) Step(dt float64) {
	if p.state != StateArmed || !(dt > 0) || !physics.Finite(dt) {
		return
	}
	p.position = p.position.Add(p.velocity.Scale(dt))
}

// Qualifies reports whether target would resolve this projectile.
func (p *Projectile) Qualifies(target any) bool {
	if p.state != StateArmed || !p.collidable || p.pool == nil {
		return false
	}
	c, ok := target.(Categorized)
	return ok && c.Category().Matches(p.pool.hitMask)
}

// Collide resolves the projectile against target at point. Only the first
// qualifying collision of an armed projectile counts; it reports whether this
// call resolved it.
func (p *Projectile) Collide(target any, point physics.Vec3) bool {
	if !p.Qualifies(target) {
		return false
	}
	pool := p.pool
	// Collision goes off before any side effect so an explosion can never
	// re-enter this projectile.
	p.state = StateResolved
	p.collidable = false
	pool.sched.Cancel(p.Handle())

	if h, ok := target.(entity.Hittable); ok {
		h.HitBy(p, point)
	}

	origin := point
	if pt, ok := target.(Positioned); ok {
		origin = pt.Position()
	}
	influence := p.RenderedRadius() * pool.explosionMultiplier
	exploded := 0
	if pool.propagator != nil {
		exploded = pool.propagator.PropagateAt(origin, influence)
	}
	pool.hit(p, target, point, influence, exploded)
	pool.Release(p)
	return true
}

func (p *Projectile) timeout() {
	if p.state != StateArmed {
		return
	}
	p.state = StateResolved
	p.collidable = false
	p.pool.expired(p)
	p.pool.Release(p)
}
