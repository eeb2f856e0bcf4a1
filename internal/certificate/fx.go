package certificate

import (
	"github.com/sevasetu/sevasetu/internal/certificate/repository"
	"github.com/sevasetu/sevasetu/internal/certificate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("certificate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
