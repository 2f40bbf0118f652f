package usecase

import (
	"reserva-api/internal/domain/user"
	"reserva-api/internal/pkg/jwt"
	"reserva-api/internal/usecase/shared"
)

type TokenValidator interface {
	ValidateToken(token string) (shared.Actor, error)
}

type jwtTokenValidator struct {
	service *jwt.Service
}

func NewTokenValidator(service *jwt.Service) TokenValidator {
	return &jwtTokenValidator{service: service}
}

func (v *jwtTokenValidator) ValidateToken(token string) (shared.Actor, error) {
	claims, err := v.service.ValidateToken(token)
	if err != nil {
		return shared.Actor{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return shared.Actor{}, jwt.ErrInvalidToken
	}

	return shared.Actor{
		ID:     claims.UserID,
		Role:   role,
		SiteID: claims.SiteID,
	}, nil
}
