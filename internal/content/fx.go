package content

import (
	"github.com/sevasetu/sevasetu/internal/content/repository"
	"github.com/sevasetu/sevasetu/internal/content/service"
	"go.uber.org/fx"
)

var Module = fx.Module("content.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
