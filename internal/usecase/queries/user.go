package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuthorizedUserView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	SiteID    *uuid.UUID `json:"site_id,omitempty"`
	SiteCode  *string    `json:"site_code,omitempty"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type UserReadStore interface {
	FindAuthorizedByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
}

type UserQueries interface {
	GetAuthorizedUser(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
}

type userQueriesImpl struct {
	store UserReadStore
}

func NewUserQueries(store UserReadStore) UserQueries {
	return &userQueriesImpl{store: store}
}

func (q *userQueriesImpl) GetAuthorizedUser(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error) {
	return q.store.FindAuthorizedByID(ctx, id)
}
