package readstore

import (
	"context"

	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/pgconv"
	"reserva-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{pool: pool}
}

func (r *UserReadStore) FindAuthorizedByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const query = `
		SELECT u.id, u.name, u.email, u.role, u.site_id, s.code, u.is_active, u.last_login
		FROM users u
		LEFT JOIN sites s ON s.id = u.site_id
		WHERE u.id = $1`

	var v queries.AuthorizedUserView
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Email, &v.Role, &v.SiteID, &v.SiteCode, &v.IsActive, &v.LastLogin,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find authorized user", err)
	}

	return &v, nil
}
