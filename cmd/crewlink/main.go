package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crewlink/internal/actor"
	"github.com/smallbiznis/crewlink/internal/affiliation"
	"github.com/smallbiznis/crewlink/internal/config"
	"github.com/smallbiznis/crewlink/internal/identity"
	"github.com/smallbiznis/crewlink/internal/logger"
	"github.com/smallbiznis/crewlink/internal/migration"
	"github.com/smallbiznis/crewlink/internal/observability"
	"github.com/smallbiznis/crewlink/internal/server"
	"github.com/smallbiznis/crewlink/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		identity.Module,
		migration.Module,

		actor.Module,
		affiliation.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
