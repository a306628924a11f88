package charge

import (
	"github.com/zeusync/chainshot/pkg/physics"
)

// Player is the shrinking shooter. Only the Controller mutates its radius.
type Player struct {
	radius      float64
	minCritical float64
	position    physics.Vec3
	forward     physics.Vec3
	spawnOffset physics.Vec3
	started     bool
	dead        bool
}

func NewPlayer(radius, minCritical float64, position, spawnOffset physics.Vec3) *Player {
	return &Player{
		radius:      radius,
		minCritical: minCritical,
		position:    position,
		forward:     physics.Forward,
		spawnOffset: spawnOffset,
	}
}

func (p *Player) Radius() float64            { return p.radius }
func (p *Player) MinCriticalRadius() float64 { return p.minCritical }
func (p *Player) Position() physics.Vec3     { return p.position }
func (p *Player) Forward() physics.Vec3      { return p.forward }
func (p *Player) Started() bool              { return p.started }
func (p *Player) Dead() bool                 { return p.dead }

// SpawnPoint is where previews are held before release.
func (p *Player) SpawnPoint() physics.Vec3 { return p.position.Add(p.spawnOffset) }

// AtFloor reports whether the player can no longer afford a shot.
func (p *Player) AtFloor() bool { return p.radius <= p.minCritical+DeathEpsilon }

// Advance walks a started, living player forward.
func (p *Player) Advance(dt, speed float64) {
	if !p.started || p.dead || !(dt > 0) || !physics.Finite(dt) || !physics.Finite(speed) {
		return
	}
	p.position = p.position.Add(p.forward.Scale(speed * dt))
}
