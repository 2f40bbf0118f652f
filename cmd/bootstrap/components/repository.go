package components

import (
	"reserva-api/internal/infra/cache"
	"reserva-api/internal/infra/readstore"
	"reserva-api/internal/infra/writerepo"
	"reserva-api/internal/pkg/config"
	"reserva-api/internal/usecase/commands"
	"reserva-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		func(cfg config.Config) config.RedisConfig { return cfg.Redis },
		fx.Annotate(
			writerepo.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			writerepo.NewBookingRepository,
			fx.As(new(queries.BookingIntervalReader)),
		),
		fx.Annotate(
			writerepo.NewResourceRepository,
			fx.As(new(commands.ResourceRepository)),
		),
		fx.Annotate(
			writerepo.NewRuleSetRepository,
			fx.As(new(commands.RuleSetRepository)),
		),
		fx.Annotate(
			writerepo.NewRuleSetRepository,
			fx.As(new(queries.RuleSetReader)),
		),
		fx.Annotate(
			writerepo.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewResourceReadStore,
			fx.As(new(queries.ResourceReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Availability cache doubles as the write-side invalidator
		fx.Annotate(
			cache.NewAvailabilityCache,
			fx.As(new(queries.AvailabilityCache)),
		),
		fx.Annotate(
			cache.NewAvailabilityCache,
			fx.As(new(commands.AvailabilityInvalidator)),
		),
	),
)
