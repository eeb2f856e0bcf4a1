package donor

import (
	"github.com/sevasetu/sevasetu/internal/donor/repository"
	"github.com/sevasetu/sevasetu/internal/donor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
