package settings

import (
	"github.com/sevasetu/sevasetu/internal/settings/repository"
	"github.com/sevasetu/sevasetu/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
