//go:build unit || e2e

package builder

import (
	reqdto "reserva-api/internal/handler/dto/request"
)

type AuthBuilder struct {
	Email    string
	Password string
}

// NewAuthBuilder defaults to the credentials seeded for test accounts.
func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		Email:    "employee@example.com",
		Password: "password123",
	}
}

func (a *AuthBuilder) With(mutate func(*AuthBuilder)) *AuthBuilder {
	mutate(a)
	return a
}

func (a *AuthBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    a.Email,
		Password: a.Password,
	}
}
