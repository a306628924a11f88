package obstacle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/entity"
	"github.com/zeusync/chainshot/internal/core/events"
	"github.com/zeusync/chainshot/internal/core/events/bus"
	"github.com/zeusync/chainshot/internal/core/scheduler"
	"github.com/zeusync/chainshot/internal/core/spatial"
	"github.com/zeusync/chainshot/pkg/physics"
)

type fixture struct {
	cfg      *config.Gameplay
	grid     *Grid
	sched    *scheduler.Scheduler
	pool     *Pool
	exploded []entity.Handle
	returned []entity.Handle
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()
	f := &fixture{cfg: config.Default()}
	f.cfg.Obstacle.ExplodeDelay = config.Duration(delay)
	f.cfg.Obstacle.PoolSize = 2

	b := bus.New()
	_, err := b.Subscribe(events.TypeObstacleExploded, func(e bus.Event) error {
		f.exploded = append(f.exploded, e.Data().(events.ObstacleExploded).Obstacle)
		return nil
	})
	require.NoError(t, err)
	_, err = b.Subscribe(events.TypeObstacleReturned, func(e bus.Event) error {
		f.returned = append(f.returned, e.Data().(events.ObstacleReturned).Obstacle)
		return nil
	})
	require.NoError(t, err)

	f.grid = NewGrid(f.cfg)
	f.sched = scheduler.New(nil)
	f.pool = NewPool(f.cfg, f.grid, f.sched, events.NewEmitter(b, nil, "test"), nil)
	require.True(t, f.pool.Enabled())
	return f
}

type stubSource struct{}

func (stubSource) Handle() entity.Handle {
	return entity.Handle{Kind: entity.KindProjectile, ID: 1}
}
func (stubSource) Radius() float64        { return 0.3 }
func (stubSource) Position() physics.Vec3 { return physics.Zero }

func TestAcquirePlacesIdleObstacle(t *testing.T) {
	f := newFixture(t, 0)
	o := f.pool.Acquire(physics.V3(1, 0, 2), physics.Yaw(1))
	require.NotNil(t, o)

	assert.Equal(t, StateIdle, o.State())
	assert.False(t, o.Exploded())
	assert.Equal(t, physics.V3(1, 0, 2), o.Position())
	assert.Equal(t, f.cfg.Obstacle.BaseRadius, o.Radius())
	assert.Equal(t, spatial.CategoryObstacle, o.Category())
	assert.True(t, f.grid.Contains(o))
	assert.Equal(t, 1, f.pool.Idle())
}

func TestRepeatedExplodeTransitionsOnce(t *testing.T) {
	f := newFixture(t, 500*time.Millisecond)
	o := f.pool.Acquire(physics.Zero, physics.Identity)
	h := o.Handle()

	assert.True(t, o.Explode())
	for i := 0; i < 10; i++ {
		assert.False(t, o.Explode())
		o.HitBy(stubSource{}, physics.Zero)
	}
	assert.Equal(t, StateExploding, o.State())
	assert.False(t, f.grid.Contains(o), "exploding obstacles leave the index")

	f.sched.Advance(0.2)
	assert.Empty(t, f.returned)
	f.sched.Advance(0.4)
	f.sched.Advance(5)

	assert.Equal(t, []entity.Handle{h}, f.exploded)
	assert.Equal(t, []entity.Handle{h}, f.returned)
	assert.Equal(t, StatePooled, o.State())
	assert.False(t, o.Explode(), "pooled obstacles cannot explode")
	assert.Equal(t, uint64(1), f.pool.Stats().Exploded)
	assert.Equal(t, uint64(1), f.pool.Stats().Returned)
}

func TestZeroDelayReturnsOnNextTick(t *testing.T) {
	f := newFixture(t, 0)
	o := f.pool.Acquire(physics.Zero, physics.Identity)

	require.True(t, o.Explode())
	assert.Equal(t, StateExploding, o.State(), "return waits for the tick boundary")
	f.sched.Advance(0)
	assert.Equal(t, StatePooled, o.State())
}

func TestRoundTripYieldsFreshObstacle(t *testing.T) {
	f := newFixture(t, 0)
	o := f.pool.Acquire(physics.V3(3, 0, 3), physics.Identity)
	require.True(t, f.pool.SetScale(o, 1.05))
	o.Explode()
	f.sched.Advance(0.1)

	again := f.pool.Acquire(physics.V3(-1, 0, 0), physics.Identity)
	assert.Same(t, o, again)
	assert.False(t, again.Exploded())
	assert.Equal(t, 1.0, again.Scale())
	assert.Equal(t, StateIdle, again.State())
	assert.Equal(t, physics.V3(-1, 0, 0), again.Position())
	assert.True(t, again.Explode(), "a fresh cycle may explode again")
}

func TestEarlyReleaseRevokesPendingReturn(t *testing.T) {
	f := newFixture(t, time.Second)
	o := f.pool.Acquire(physics.Zero, physics.Identity)
	o.Explode()
	require.True(t, f.sched.Pending(o.Handle()))

	require.True(t, f.pool.Release(o))
	assert.False(t, f.sched.Pending(o.Handle()))

	// recycled before the old timer would have fired
	again := f.pool.Acquire(physics.Zero, physics.Identity)
	require.Same(t, o, again)
	f.sched.Advance(2)
	assert.Equal(t, StateIdle, again.State())
	assert.Empty(t, f.returned)
}

func TestReleaseRejectsForeignAndDouble(t *testing.T) {
	f := newFixture(t, 0)
	other := newFixture(t, 0)
	o := other.pool.Acquire(physics.Zero, physics.Identity)

	assert.False(t, f.pool.Release(o))
	assert.False(t, f.pool.Release(nil))
	assert.True(t, other.pool.Release(o))
	assert.False(t, other.pool.Release(o))
}

func TestSetScaleOnlyWhileIdle(t *testing.T) {
	f := newFixture(t, 0)
	o := f.pool.Acquire(physics.Zero, physics.Identity)
	assert.False(t, f.pool.SetScale(o, 0))
	assert.True(t, f.pool.SetScale(o, 2))
	assert.Equal(t, 2*f.cfg.Obstacle.BaseRadius, o.Radius())
	o.Explode()
	assert.False(t, f.pool.SetScale(o, 3))
}

func TestPoolGrowsPastWarmUp(t *testing.T) {
	f := newFixture(t, 0)
	for i := 0; i < 5; i++ {
		require.NotNil(t, f.pool.Acquire(physics.V3(float64(i), 0, 0), physics.Identity))
	}
	assert.Equal(t, 5, f.pool.Active())
	assert.Equal(t, uint64(3), f.pool.Stats().Grown)
}

func TestDisabledPoolWithoutDependencies(t *testing.T) {
	p := NewPool(nil, nil, nil, nil, nil)
	assert.False(t, p.Enabled())
	assert.Nil(t, p.Acquire(physics.Zero, physics.Identity))
	assert.False(t, p.Release(&Obstacle{}))
	assert.Zero(t, p.Active())
	assert.NotPanics(t, func() { p.ForEachActive(func(*Obstacle) {}) })
}
