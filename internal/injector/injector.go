//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/chainshot/internal/arena"
	"github.com/zeusync/chainshot/internal/core/charge"
	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/internal/core/observability/log"
	"github.com/zeusync/chainshot/internal/core/spawn"
)

func InitializeArena(cfg *config.Gameplay, logger log.Log, aim charge.AimProvider, level spawn.Level) (*arena.Arena, error) {
	wire.Build(arena.ProviderSet)
	return nil, nil
}
