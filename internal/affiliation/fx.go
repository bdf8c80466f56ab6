package affiliation

import (
	"github.com/smallbiznis/crewlink/internal/affiliation/repository"
	"github.com/smallbiznis/crewlink/internal/affiliation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("affiliation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
