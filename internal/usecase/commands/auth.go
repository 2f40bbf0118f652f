package commands

import (
	"context"
	"log/slog"

	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/clock"
	"reserva-api/internal/pkg/errs"
	"reserva-api/internal/pkg/jwt"
	"reserva-api/internal/pkg/password"
)

type LoginResult struct {
	Token     string
	ExpiresIn int
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	users UserRepository
	jwt   *jwt.Service
	clock clock.Clock
}

func NewAuthCommands(users UserRepository, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{users: users, jwt: jwtService, clock: clk}
}

func (c *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	u, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !u.IsActive() {
		return nil, errs.ErrInvalidCredentials
	}

	if err := password.ComparePassword(u.PasswordHash(), rawPassword); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	token, err := c.jwt.GenerateToken(u.ID(), u.Role(), u.SiteID())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	if err := c.users.RecordLogin(ctx, u.ID(), c.clock.Now()); err != nil {
		slog.Warn("failed to record login time", "user_id", u.ID(), "error", err.Error())
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int(c.jwt.TokenDuration().Seconds()),
	}, nil
}
