package auth

import (
	"github.com/sevasetu/sevasetu/internal/auth/repository"
	"github.com/sevasetu/sevasetu/internal/auth/service"
	"github.com/sevasetu/sevasetu/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
