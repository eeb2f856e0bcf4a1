package audit

import (
	"github.com/sevasetu/sevasetu/internal/audit/repository"
	"github.com/sevasetu/sevasetu/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
