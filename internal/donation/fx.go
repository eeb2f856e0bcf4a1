package donation

import (
	"github.com/sevasetu/sevasetu/internal/donation/repository"
	"github.com/sevasetu/sevasetu/internal/donation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
