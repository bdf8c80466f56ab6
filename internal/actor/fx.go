package actor

import (
	"github.com/smallbiznis/crewlink/internal/actor/repository"
	"github.com/smallbiznis/crewlink/internal/actor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("actor.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
