package spawn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/obstacle"
	"github.com/zeusync/chainshot/internal/core/scheduler"
	"github.com/zeusync/chainshot/pkg/physics"
)

func TestSeedIsStablePerLevel(t *testing.T) {
	assert.Equal(t, Seed("level-1"), Seed("level-1"))
	assert.NotEqual(t, Seed("level-1"), Seed("level-2"))
}

func TestLayoutRespectsAreaAndSafeRadius(t *testing.T) {
	cfg := config.Default().Spawn
	cfg.ClusterPoints = [][3]float64{{-2, 0, 10}, {2, 0, 14}}
	layout := Layout(cfg, rand.New(rand.NewPCG(1, 2)))

	require.NotEmpty(t, layout)
	assert.LessOrEqual(t, len(layout), cfg.Count)
	for i, a := range layout {
		assert.LessOrEqual(t, math.Abs(a.Position.Xv-cfg.Center[0]), cfg.AreaSize[0]/2)
		assert.LessOrEqual(t, math.Abs(a.Position.Zv-cfg.Center[2]), cfg.AreaSize[1]/2)
		assert.Equal(t, cfg.Center[1], a.Position.Yv)
		assert.InDelta(t, 1, a.Scale, cfg.Mutation)
		for _, b := range layout[i+1:] {
			assert.GreaterOrEqual(t, physics.DistanceXZ(a.Position, b.Position), cfg.SafeRadius)
		}
	}
}

func TestLayoutGivesUpWhenCrowded(t *testing.T) {
	cfg := config.Default().Spawn
	cfg.Count = 50
	cfg.ClusterRadius = 0.5
	cfg.SafeRadius = 1
	layout := Layout(cfg, rand.New(rand.NewPCG(7, 7)))

	// A disc of radius 0.5 cannot hold two points a full unit apart.
	assert.Len(t, layout, 1)
}

func TestLayoutEmpty(t *testing.T) {
	cfg := config.Default().Spawn
	cfg.Count = 0
	assert.Empty(t, Layout(cfg, rand.New(rand.NewPCG(1, 1))))
}

func newSpawner(t *testing.T) (*Spawner, *obstacle.Pool) {
	t.Helper()
	cfg := config.Default()
	cfg.Spawn.Count = 12
	pool := obstacle.NewPool(cfg, obstacle.NewGrid(cfg), scheduler.New(nil), nil, nil)
	s := New(cfg, pool, nil)
	require.True(t, s.Enabled())
	return s, pool
}

func TestSpawnIsReproducible(t *testing.T) {
	s1, p1 := newSpawner(t)
	s2, _ := newSpawner(t)

	a := s1.Spawn("tutorial")
	b := s2.Spawn("tutorial")
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Position(), b[i].Position())
		assert.Equal(t, a[i].Scale(), b[i].Scale())
	}
	assert.Equal(t, len(a), p1.Active())
	assert.Equal(t, len(a), p1.Idle())
}

func TestSpawnScalesObstacles(t *testing.T) {
	s, _ := newSpawner(t)
	for _, o := range s.Spawn("mutated") {
		assert.Equal(t, obstacle.StateIdle, o.State())
		assert.InDelta(t, o.BaseRadius()*o.Scale(), o.Radius(), 1e-12)
	}
}

func TestDisabledSpawner(t *testing.T) {
	s := New(nil, nil, nil)
	assert.False(t, s.Enabled())
	assert.Nil(t, s.Spawn("x"))
}
