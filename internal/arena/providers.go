package arena

import (
	"github.com/google/wire"

	"github.com/zeusync/chainshot/internal/core/chain"
	"github.com/zeusync/chainshot/internal/core/charge"
	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/events"
	"github.com/zeusync/chainshot/internal/core/events/bus"
	"github.com/zeusync/chainshot/internal/core/obstacle"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/projectile"
	"github.com/zeusync/chainshot/internal/core/scheduler"
	"github.com/zeusync/chainshot/internal/core/spawn"
)

// ProviderSet builds an Arena from a config, a logger, an aim provider and a
// level name.
var ProviderSet = wire.NewSet(
	bus.New,
	ProvideEmitter,
	scheduler.New,
	obstacle.NewGrid,
	obstacle.NewPool,
	ProvideChain,
	ProvidePropagator,
	projectile.NewPool,
	charge.NewController,
	spawn.New,
	New,
)

func ProvideEmitter(b bus.EventBus, l log.Log) *events.Emitter {
	return events.NewEmitter(b, l, "arena")
}

func ProvideChain(grid *obstacle.Grid, cfg *config.Gameplay, l log.Log) *chain.Engine[*obstacle.Obstacle] {
	return chain.New[*obstacle.Obstacle](grid, cfg, l)
}

func ProvidePropagator(e *chain.Engine[*obstacle.Obstacle]) projectile.Propagator {
	return e
}
