package charge

import (
	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/events"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/projectile"
	"github.com/zeusync/chainshot/pkg/physics"
)

// AimProvider supplies the direction a released projectile flies along.
type AimProvider interface {
	CurrentAimDirection() physics.Vec3
}

// AimFunc adapts a plain function to AimProvider.
type AimFunc func() physics.Vec3

func (f AimFunc) CurrentAimDirection() physics.Vec3 { return f() }

type State uint8

const (
	StateIdle State = iota
	StateCharging
	StateDead
)

func (s State) String() string {
	switch s {
	case StateCharging:
		return "charging"
	case StateDead:
		return "dead"
	default:
		return "idle"
	}
}

// Controller runs the charge cycle: Start acquires a preview, Update grows it
// within the player's budget and Release fires it and charges the player.
type Controller struct {
	charge      config.ChargeConfig
	player      *Player
	projectiles *projectile.Pool
	aim         AimProvider
	events      *events.Emitter
	log         log.Log
	enabled     bool

	state      State
	chargeTime float64
	lastAim    physics.Vec3
	preview    *projectile.Projectile
	previewGen uint32
}

// NewController creates the player from cfg and the controller driving it.
// A nil config or projectile pool leaves the controller disabled. A nil aim
// provider fires along the player's forward vector.
func NewController(cfg *config.Gameplay, projectiles *projectile.Pool, aim AimProvider, emitter *events.Emitter, l log.Log) *Controller {
	c := &Controller{aim: aim, events: emitter, log: log.OrNop(l).Named("charge"), lastAim: physics.Forward}
	if cfg == nil || projectiles == nil || !projectiles.Enabled() {
		c.log.Error("charge controller disabled",
			log.Error(config.ErrConfigurationMissing),
			log.Bool("config", cfg != nil),
			log.Bool("projectiles", projectiles != nil && projectiles.Enabled()),
		)
		c.player = NewPlayer(0, 0, physics.Zero, physics.Zero)
		return c
	}
	c.charge = cfg.Charge
	c.projectiles = projectiles
	c.player = NewPlayer(
		cfg.InitialPlayerRadius(),
		cfg.Player.MinCriticalRadius,
		physics.Zero,
		physics.V3(cfg.Player.SpawnOffset[0], cfg.Player.SpawnOffset[1], cfg.Player.SpawnOffset[2]),
	)
	c.enabled = true
	return c
}

func (c *Controller) Enabled() bool       { return c.enabled }
func (c *Controller) Player() *Player     { return c.player }
func (c *Controller) State() State        { return c.state }
func (c *Controller) ChargeTime() float64 { return c.chargeTime }

// Preview is the projectile being charged, nil when not charging.
func (c *Controller) Preview() *projectile.Projectile { return c.preview }

// Start begins charging. It is refused while charging, once dead and when the
// player sits at the critical radius.
func (c *Controller) Start() bool {
	if !c.enabled {
		return false
	}
	if c.state != StateIdle || c.player.AtFloor() {
		c.log.Debug("charge refused",
			log.String("state", c.state.String()),
			log.Float64("player_radius", c.player.radius),
		)
		return false
	}
	p := c.projectiles.Acquire(c.player.SpawnPoint(), physics.Identity)
	if p == nil {
		return false
	}
	p.Init(c.charge.MinProjectileRadius)
	c.preview = p
	c.previewGen = p.Generation()
	c.chargeTime = 0
	c.state = StateCharging
	c.sampleAim()
	c.log.Debug("charge started", log.Float64("player_radius", c.player.radius))
	return true
}

// Update grows the preview by dt seconds of charge and publishes the radius
// the player would have if released now. It returns the preview radius.
func (c *Controller) Update(dt float64) float64 {
	if c.state != StateCharging || !c.previewValid() {
		return 0
	}
	if dt > 0 && physics.Finite(dt) {
		c.chargeTime += dt
	}
	r := ProjectileRadius(c.charge, c.player.radius, c.player.minCritical, c.chargeTime)
	c.preview.MoveTo(c.player.SpawnPoint())
	c.preview.Init(r)
	c.sampleAim()

	c.events.Emit(events.TypePlayerRadiusChanged, events.RadiusChanged{
		Radius:  RadiusAfter(c.charge, c.player.radius, c.player.minCritical, c.preview.Radius()),
		Preview: true,
	})
	return c.preview.Radius()
}

// Release fires the preview along the current aim and charges the player for
// it. Reaching the critical radius kills the player instead of starting the
// advance.
func (c *Controller) Release() bool {
	if c.state != StateCharging {
		return false
	}
	c.state = StateIdle
	p, valid := c.preview, c.previewValid()
	c.preview = nil
	if !valid {
		return false
	}

	c.player.radius = RadiusAfter(c.charge, c.player.radius, c.player.minCritical, p.Radius())
	c.sampleAim()
	p.Fire(c.lastAim)
	c.events.Emit(events.TypePlayerRadiusChanged, events.RadiusChanged{Radius: c.player.radius})
	c.log.Debug("charge released",
		log.Float64("projectile_radius", p.Radius()),
		log.Float64("player_radius", c.player.radius),
		log.Float64("charge_time", c.chargeTime),
	)

	if c.player.AtFloor() {
		c.die()
		return true
	}
	c.player.started = true
	return true
}

// Kill is an external death. An unreleased preview goes straight back to its
// pool. It reports whether the player was alive.
func (c *Controller) Kill() bool {
	if !c.enabled || c.state == StateDead {
		return false
	}
	if c.previewValid() {
		c.projectiles.Release(c.preview)
	}
	c.preview = nil
	c.die()
	return true
}

func (c *Controller) die() {
	c.state = StateDead
	c.player.dead = true
	c.log.Info("player died", log.Float64("radius", c.player.radius))
	c.events.Emit(events.TypePlayerDeath, events.PlayerDeath{Radius: c.player.radius})
}

// previewValid guards against a preview that was reclaimed behind our back.
func (c *Controller) previewValid() bool {
	p := c.preview
	return p != nil && p.Generation() == c.previewGen && p.State() == projectile.StatePreviewing
}

// sampleAim keeps the last usable aim so a degenerate sample at release still
// fires somewhere sensible.
func (c *Controller) sampleAim() {
	if c.aim == nil {
		c.lastAim = c.player.forward
		return
	}
	if dir := c.aim.CurrentAimDirection(); dir.Finite() && dir.LengthSquared() > physics.Epsilon {
		c.lastAim = dir
	}
}
