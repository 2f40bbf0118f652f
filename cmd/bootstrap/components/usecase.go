package components

import (
	"reserva-api/internal/domain/booking"
	"reserva-api/internal/pkg/clock"
	"reserva-api/internal/pkg/config"
	"reserva-api/internal/usecase"
	"reserva-api/internal/usecase/commands"
	"reserva-api/internal/usecase/queries"
	"reserva-api/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		shared.NewRolePolicy,
		fx.As(new(shared.AuthorizationGate)),
	),
	NewSliceDefaults,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewSliceDefaults derives the fallback availability window from config.
// Rule sets with operating hours override it per resource type.
func NewSliceDefaults(cfg config.Config) booking.SliceConfig {
	defaults := booking.DefaultSliceConfig()

	if open, err := booking.ParseClock(cfg.Booking.DayOpen); err == nil {
		defaults.Open = open
	}
	if close, err := booking.ParseClock(cfg.Booking.DayClose); err == nil {
		defaults.Close = close
	}
	if cfg.Booking.SlotStep > 0 {
		defaults.Step = cfg.Booking.SlotStep
	}
	if cfg.Booking.SlotDuration > 0 {
		defaults.SlotDuration = cfg.Booking.SlotDuration
	}

	return defaults
}
