// Package obstacle implements destructible obstacles: Idle → Exploding →
// Pooled. Every explosion, direct hit or chain reaction, goes through the
// same guarded Explode so an obstacle explodes at most once per acquire.
package obstacle

import (
	"sync/atomic"

	"github.com/zeusync/chainshot/internal/core/entity"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/spatial"
	"github.com/zeusync/chainshot/pkg/generic"
	"github.com/zeusync/chainshot/pkg/physics"
)

type State uint8

const (
	StatePooled State = iota
	StateIdle
	StateExploding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExploding:
		return "exploding"
	default:
		return "pooled"
	}
}

var (
	_ spatial.Body      = (*Obstacle)(nil)
	_ entity.Hittable   = (*Obstacle)(nil)
	_ physics.Transform = (*Obstacle)(nil)
)

type Obstacle struct {
	slot        generic.Slot
	pool        *Pool
	position    physics.Vec3
	orientation physics.Quat
	baseRadius  float64
	scale       float64
	// exploded flips once per acquire cycle. Compare-and-set keeps the
	// at-most-once guarantee should explosions ever run in parallel.
	exploded atomic.Bool
	// returnDue is bound once at creation so scheduling the pool return does
	// not allocate.
	returnDue func()
}

func (o *Obstacle) PoolSlot() *generic.Slot { return &o.slot }

func (o *Obstacle) Handle() entity.Handle {
	return entity.Handle{Kind: entity.KindObstacle, ID: o.slot.ID()}
}

func (o *Obstacle) Position() physics.Vec3    { return o.position }
func (o *Obstacle) Orientation() physics.Quat { return o.orientation }
func (o *Obstacle) BaseRadius() float64       { return o.baseRadius }
func (o *Obstacle) Scale() float64            { return o.scale }

// Radius is the physical radius used for overlap checks.
func (o *Obstacle) Radius() float64 { return o.baseRadius * o.scale }

func (o *Obstacle) Category() spatial.Category {
	if o.pool == nil {
		return spatial.CategoryObstacle
	}
	return o.pool.category
}

func (o *Obstacle) Exploded() bool { return o.exploded.Load() }

func (o *Obstacle) State() State {
	switch {
	case !o.slot.Active():
		return StatePooled
	case o.exploded.Load():
		return StateExploding
	default:
		return StateIdle
	}
}

// Explode moves an idle obstacle to Exploding and reports whether this call
// did it. Exploding, pooled and foreign obstacles are left untouched.
func (o *Obstacle) Explode() bool {
	if !o.slot.Active() {
		return false
	}
	if !o.exploded.CompareAndSwap(false, true) {
		return false
	}
	if o.pool != nil {
		o.pool.exploded(o)
	}
	return true
}

// HitBy is the direct-hit path. It funnels into Explode.
func (o *Obstacle) HitBy(src entity.Source, point physics.Vec3) {
	if o.pool != nil && src != nil {
		o.pool.log.Debug("obstacle hit",
			log.String("obstacle", o.Handle().String()),
			log.String("source", src.Handle().String()),
			log.Float64("source_radius", src.Radius()),
			log.Vec3("point", point),
		)
	}
	o.Explode()
}
