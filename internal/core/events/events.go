// Package events defines what the simulation reports to the outside world.
package events

import (
	"github.com/zeusync/chainshot/internal/core/entity"
	"github.com/zeusync/chainshot/internal/core/events/bus"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/pkg/physics"
)

const (
	TypeProjectileHit       = "projectile.hit"
	TypeProjectileExpired   = "projectile.expired"
	TypeObstacleExploded    = "obstacle.exploded"
	TypeObstacleReturned    = "obstacle.returned"
	TypePlayerRadiusChanged = "player.radius_changed"
	TypePlayerDeath         = "player.death"
)

// ProjectileHit is published once per resolved collision.
type ProjectileHit struct {
	Projectile      entity.Handle
	Target          any
	Point           physics.Vec3
	Radius          float64
	InfluenceRadius float64
	// Exploded counts obstacles the resulting chain reaction exploded,
	// excluding the direct hit.
	Exploded int
}

type ProjectileExpired struct {
	Projectile entity.Handle
	Position   physics.Vec3
}

type ObstacleExploded struct {
	Obstacle entity.Handle
	Position physics.Vec3
	Radius   float64
}

type ObstacleReturned struct {
	Obstacle entity.Handle
}

// RadiusChanged carries the player radius. Preview is set while charging,
// when the radius shown is what the player would have after release.
type RadiusChanged struct {
	Radius  float64
	Preview bool
}

type PlayerDeath struct {
	Radius float64
}

// Emitter publishes simulation events. Handler failures are logged and
// swallowed so an observer can never stop the frame loop.
type Emitter struct {
	bus    bus.EventBus
	log    log.Log
	source string
}

func NewEmitter(b bus.EventBus, l log.Log, source string) *Emitter {
	return &Emitter{bus: b, log: log.OrNop(l), source: source}
}

// Emit is safe on a nil Emitter and on an Emitter without a bus.
func (e *Emitter) Emit(eventType string, data any) {
	if e == nil || e.bus == nil {
		return
	}
	if err := e.bus.Publish(bus.NewEvent(eventType, e.source, data)); err != nil {
		e.log.Warn("event handler failed",
			log.String("event", eventType),
			log.Error(err),
		)
	}
}
