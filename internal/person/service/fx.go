package service

import (
	"github.com/avbinvest/staffsync/internal/person/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("person.service",
	fx.Provide(
		repository.Provide,
		New,
	),
)
