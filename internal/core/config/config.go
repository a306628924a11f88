package config

import (
	"fmt"
	"math"
	"time"

	"github.com/zeusync/chainshot/internal/core/spatial"
)

// Gameplay holds every tunable of the simulation. It is loaded once at
// startup and treated as read-only afterwards.
type Gameplay struct {
	Player     PlayerConfig     `json:"player" yaml:"player"`
	Charge     ChargeConfig     `json:"charge" yaml:"charge"`
	Infection  InfectionConfig  `json:"infection" yaml:"infection"`
	Projectile ProjectileConfig `json:"projectile" yaml:"projectile"`
	Obstacle   ObstacleConfig   `json:"obstacle" yaml:"obstacle"`
	Spawn      SpawnConfig      `json:"spawn" yaml:"spawn"`
	LogLevel   string           `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

type PlayerConfig struct {
	InitialRadius     float64 `json:"initial_radius" yaml:"initial_radius"`
	MinCriticalRadius float64 `json:"min_critical_radius" yaml:"min_critical_radius"`
	// InitialReservePercent is extra starting radius, 0.2 = 20%.
	InitialReservePercent float64 `json:"initial_reserve_percent" yaml:"initial_reserve_percent"`
	MoveSpeed             float64 `json:"move_speed" yaml:"move_speed"`
	AdvanceSpeed          float64 `json:"advance_speed" yaml:"advance_speed"`
	// SpawnOffset places the projectile spawn point relative to the player.
	SpawnOffset [3]float64 `json:"spawn_offset" yaml:"spawn_offset"`
}

type ChargeConfig struct {
	Rate                float64 `json:"rate" yaml:"rate"`
	MinProjectileRadius float64 `json:"min_projectile_radius" yaml:"min_projectile_radius"`
	MaxProjectileRadius float64 `json:"max_projectile_radius" yaml:"max_projectile_radius"`
	// TransferK is how strongly the player shrinks relative to projectile growth.
	TransferK float64 `json:"transfer_k" yaml:"transfer_k"`
}

type InfectionConfig struct {
	// InfluenceMultiplier turns an obstacle's own radius into the radius it
	// infects when detonated directly.
	InfluenceMultiplier float64          `json:"influence_multiplier" yaml:"influence_multiplier"`
	ObstacleCategory    spatial.Category `json:"obstacle_category" yaml:"obstacle_category"`
	QueryCapacity       int              `json:"query_capacity" yaml:"query_capacity"`
}

type ProjectileConfig struct {
	Speed               float64  `json:"speed" yaml:"speed"`
	ExplosionMultiplier float64  `json:"explosion_multiplier" yaml:"explosion_multiplier"`
	MaxLifetime         Duration `json:"max_lifetime" yaml:"max_lifetime"`
	PoolSize            int      `json:"pool_size" yaml:"pool_size"`
}

type ObstacleConfig struct {
	BaseRadius   float64  `json:"base_radius" yaml:"base_radius"`
	ExplodeDelay Duration `json:"explode_delay" yaml:"explode_delay"`
	PoolSize     int      `json:"pool_size" yaml:"pool_size"`
}

type SpawnConfig struct {
	Count         int          `json:"count" yaml:"count"`
	AreaSize      [2]float64   `json:"area_size" yaml:"area_size"`
	Center        [3]float64   `json:"center" yaml:"center"`
	SafeRadius    float64      `json:"safe_radius" yaml:"safe_radius"`
	ClusterRadius float64      `json:"cluster_radius" yaml:"cluster_radius"`
	ClusterPoints [][3]float64 `json:"cluster_points,omitempty" yaml:"cluster_points,omitempty"`
	// Mutation scales each obstacle by a random factor in [1-m, 1+m].
	Mutation float64 `json:"mutation" yaml:"mutation"`
}

// Default returns the stock tuning of the game.
func Default() *Gameplay {
	return &Gameplay{
		Player: PlayerConfig{
			InitialRadius:         0.6,
			MinCriticalRadius:     0.09,
			InitialReservePercent: 0.2,
			MoveSpeed:             2,
			AdvanceSpeed:          2,
			SpawnOffset:           [3]float64{0, 0.5, 0.8},
		},
		Charge: ChargeConfig{
			Rate:                0.6,
			MinProjectileRadius: 0.08,
			MaxProjectileRadius: 1.2,
			TransferK:           1.0,
		},
		Infection: InfectionConfig{
			InfluenceMultiplier: 1.1,
			ObstacleCategory:    spatial.CategoryObstacle,
			QueryCapacity:       256,
		},
		Projectile: ProjectileConfig{
			Speed:               12,
			ExplosionMultiplier: 2,
			MaxLifetime:         Duration(4 * time.Second),
			PoolSize:            8,
		},
		Obstacle: ObstacleConfig{
			BaseRadius:   0.25,
			ExplodeDelay: 0,
			PoolSize:     64,
		},
		Spawn: SpawnConfig{
			Count:         40,
			AreaSize:      [2]float64{10, 10},
			Center:        [3]float64{0, 0, 12},
			SafeRadius:    1,
			ClusterRadius: 3,
			Mutation:      0.05,
		},
		LogLevel: "info",
	}
}

// InitialPlayerRadius is the starting radius including the reserve.
func (g *Gameplay) InitialPlayerRadius() float64 {
	return g.Player.InitialRadius * (1 + g.Player.InitialReservePercent)
}

// Validate checks the numeric contract every component relies on.
func (g *Gameplay) Validate() error {
	if g == nil {
		return ErrConfigurationMissing
	}
	checks := []struct {
		ok   bool
		what string
	}{
		{positive(g.Player.InitialRadius), "player.initial_radius must be > 0"},
		{positive(g.Player.MinCriticalRadius), "player.min_critical_radius must be > 0"},
		{g.Player.InitialRadius > g.Player.MinCriticalRadius, "player.initial_radius must exceed min_critical_radius"},
		{nonNegative(g.Player.InitialReservePercent), "player.initial_reserve_percent must be >= 0"},
		{nonNegative(g.Player.AdvanceSpeed), "player.advance_speed must be >= 0"},
		{nonNegative(g.Charge.Rate), "charge.rate must be >= 0"},
		{positive(g.Charge.MinProjectileRadius), "charge.min_projectile_radius must be > 0"},
		{g.Charge.MaxProjectileRadius >= g.Charge.MinProjectileRadius, "charge.max_projectile_radius must be >= min_projectile_radius"},
		{nonNegative(g.Charge.TransferK), "charge.transfer_k must be >= 0"},
		{positive(g.Infection.InfluenceMultiplier), "infection.influence_multiplier must be > 0"},
		{g.Infection.ObstacleCategory != 0, "infection.obstacle_category must be set"},
		{g.Infection.QueryCapacity > 0, "infection.query_capacity must be > 0"},
		{positive(g.Projectile.Speed), "projectile.speed must be > 0"},
		{positive(g.Projectile.ExplosionMultiplier), "projectile.explosion_multiplier must be > 0"},
		{g.Projectile.MaxLifetime > 0, "projectile.max_lifetime must be > 0"},
		{g.Projectile.PoolSize >= 0, "projectile.pool_size must be >= 0"},
		{positive(g.Obstacle.BaseRadius), "obstacle.base_radius must be > 0"},
		{g.Obstacle.ExplodeDelay >= 0, "obstacle.explode_delay must be >= 0"},
		{g.Obstacle.PoolSize >= 0, "obstacle.pool_size must be >= 0"},
		{g.Spawn.Count >= 0, "spawn.count must be >= 0"},
		{g.Spawn.Mutation >= 0 && g.Spawn.Mutation < 1, "spawn.mutation must be in [0, 1)"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, c.what)
		}
	}
	return nil
}

func positive(f float64) bool    { return f > 0 && !math.IsInf(f, 0) }
func nonNegative(f float64) bool { return f >= 0 && !math.IsInf(f, 0) }
