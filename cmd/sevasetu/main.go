package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/sevasetu/sevasetu/internal/clock"
	"github.com/sevasetu/sevasetu/internal/config"
	"github.com/sevasetu/sevasetu/internal/logger"
	"github.com/sevasetu/sevasetu/internal/migration"
	"github.com/sevasetu/sevasetu/internal/server"
	"github.com/sevasetu/sevasetu/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
