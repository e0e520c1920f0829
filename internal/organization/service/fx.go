package service

import (
	"github.com/avbinvest/staffsync/internal/organization/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(
		repository.Provide,
		New,
	),
)
