package writerepo

import (
	"context"
	"time"

	"reserva-api/internal/domain/user"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `
	id, name, email, password_hash, role, site_id, last_login, is_active,
	created_at, updated_at`

var (
	findUserByEmailQuery = `SELECT` + userColumns + `
		FROM users WHERE email = $1`

	findUserByIDQuery = `SELECT` + userColumns + `
		FROM users WHERE id = $1`
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, findUserByEmailQuery, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, findUserByIDQuery, id)
}

func (r *UserRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, at); err != nil {
		return infra.WrapRepoErr("failed to record login", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var (
		id                   uuid.UUID
		name, email, hash    string
		role                 string
		siteID               *uuid.UUID
		lastLogin            *time.Time
		isActive             bool
		createdAt, updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&id, &name, &email, &hash, &role, &siteID, &lastLogin, &isActive,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	emailVO, err := user.NewEmail(email)
	if err != nil {
		return nil, infra.WrapRepoErr("stored email is invalid", err)
	}

	return user.ReconstructUser(
		id, name, emailVO, hash, user.Role(role), siteID, lastLogin, isActive,
		createdAt, updatedAt,
	), nil
}
