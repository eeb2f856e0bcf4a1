package appwindow

import (
	"github.com/sevasetu/sevasetu/internal/appwindow/repository"
	"github.com/sevasetu/sevasetu/internal/appwindow/service"
	"go.uber.org/fx"
)

var Module = fx.Module("appwindow.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
