package main

import (
	"github.com/zeusync/chainshot/internal/arena"
	"github.com/zeusync/chainshot/internal/core/obstacle"
	"github.com/zeusync/chainshot/pkg/physics"
)

// nearestObstacle aims from the projectile spawn point at the closest idle
// obstacle, or straight ahead when none is left.
type nearestObstacle struct {
	arena *arena.Arena
}

func (n *nearestObstacle) CurrentAimDirection() physics.Vec3 {
	if n.arena == nil {
		return physics.Forward
	}
	from := n.arena.Charge().Player().SpawnPoint()
	var target physics.Vec3
	best := -1.0
	n.arena.Obstacles().ForEachActive(func(o *obstacle.Obstacle) {
		if o.State() != obstacle.StateIdle {
			return
		}
		if d := physics.DistanceSquared(from, o.Position()); best < 0 || d < best {
			target, best = o.Position(), d
		}
	})
	if best < 0 {
		return physics.Forward
	}
	return target.Sub(from).Normalized()
}
