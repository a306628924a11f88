// Package spawn lays out the obstacle field of a level.
package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/obstacle"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/pkg/physics"
)

// Level names a reproducible layout.
type Level string

// Seed derives the RNG seed of a level from its name.
func Seed(level Level) uint64 {
	return xxhash.Sum64String(string(level))
}

// Placement is one obstacle of a layout.
type Placement struct {
	Position physics.Vec3
	Scale    float64
}

// Layout places up to cfg.Count obstacles around the cluster points. A
// candidate is rejected outside the spawn area or closer than SafeRadius to an
// earlier placement; after Count*10 attempts the layout stops short.
func Layout(cfg config.SpawnConfig, rng *rand.Rand) []Placement {
	if cfg.Count <= 0 {
		return nil
	}
	center := vec(cfg.Center)
	clusters := make([]physics.Vec3, 0, max(1, len(cfg.ClusterPoints)))
	for _, p := range cfg.ClusterPoints {
		clusters = append(clusters, vec(p))
	}
	if len(clusters) == 0 {
		clusters = append(clusters, center)
	}

	half := [2]float64{cfg.AreaSize[0] / 2, cfg.AreaSize[1] / 2}
	out := make([]Placement, 0, cfg.Count)
	for attempts := cfg.Count * 10; attempts > 0 && len(out) < cfg.Count; attempts-- {
		c := clusters[rng.IntN(len(clusters))]
		dx, dz := insideCircle(rng, cfg.ClusterRadius)
		pos := physics.V3(c.Xv+dx, center.Yv, c.Zv+dz)

		if math.Abs(pos.Xv-center.Xv) > half[0] || math.Abs(pos.Zv-center.Zv) > half[1] {
			continue
		}
		if tooClose(pos, out, cfg.SafeRadius) {
			continue
		}
		scale := 1 + (rng.Float64()*2-1)*cfg.Mutation
		out = append(out, Placement{Position: pos, Scale: scale})
	}
	return out
}

func insideCircle(rng *rand.Rand, radius float64) (float64, float64) {
	r := radius * math.Sqrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()
	return r * math.Cos(theta), r * math.Sin(theta)
}

func tooClose(pos physics.Vec3, placed []Placement, safe float64) bool {
	for _, p := range placed {
		if physics.DistanceXZ(pos, p.Position) < safe {
			return true
		}
	}
	return false
}

func vec(a [3]float64) physics.Vec3 { return physics.V3(a[0], a[1], a[2]) }

// Spawner fills an obstacle pool with a level's layout.
type Spawner struct {
	cfg     config.SpawnConfig
	pool    *obstacle.Pool
	log     log.Log
	enabled bool
}

func New(cfg *config.Gameplay, pool *obstacle.Pool, l log.Log) *Spawner {
	s := &Spawner{pool: pool, log: log.OrNop(l).Named("spawner")}
	if cfg == nil || pool == nil || !pool.Enabled() {
		s.log.Error("spawner disabled", log.Error(config.ErrConfigurationMissing))
		return s
	}
	s.cfg = cfg.Spawn
	s.enabled = true
	return s
}

func (s *Spawner) Enabled() bool { return s.enabled }

// Spawn acquires one obstacle per placement of the level's layout and returns
// them in placement order.
func (s *Spawner) Spawn(level Level) []*obstacle.Obstacle {
	if !s.enabled {
		return nil
	}
	seed := Seed(level)
	layout := Layout(s.cfg, rand.New(rand.NewPCG(seed, seed>>1|1)))

	spawned := make([]*obstacle.Obstacle, 0, len(layout))
	for _, p := range layout {
		o := s.pool.Acquire(p.Position, physics.Identity)
		if o == nil {
			break
		}
		s.pool.SetScale(o, p.Scale)
		spawned = append(spawned, o)
	}

	if len(spawned) < s.cfg.Count {
		s.log.Warn("spawn area too crowded",
			log.String("level", string(level)),
			log.Int("requested", s.cfg.Count),
			log.Int("spawned", len(spawned)),
		)
	}
	s.log.Info("obstacles spawned",
		log.String("level", string(level)),
		log.Int("count", len(spawned)),
		log.Int("clusters", max(1, len(s.cfg.ClusterPoints))),
		log.Float64("safe_radius", s.cfg.SafeRadius),
	)
	return spawned
}
