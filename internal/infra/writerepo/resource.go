package writerepo

import (
	"context"

	"reserva-api/internal/domain/resource"
	"reserva-api/internal/domain/site"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResourceRepository struct {
	pool *pgxpool.Pool
}

func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	const query = `
		SELECT r.id, r.site_id, r.type_id, r.code, r.name, r.capacity, r.is_active,
		       t.code, t.name, t.icon, t.requires_capacity, t.requires_license_plate
		FROM resources r
		JOIN resource_types t ON t.id = r.type_id
		WHERE r.id = $1`

	var (
		resID, siteID, typeID      uuid.UUID
		code, name                 string
		capacity                   *int32
		isActive                   bool
		typeCode, typeName, icon   string
		reqCapacity, reqPlate      bool
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&resID, &siteID, &typeID, &code, &name, &capacity, &isActive,
		&typeCode, &typeName, &icon, &reqCapacity, &reqPlate,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource by ID", err)
	}

	return resource.Reconstruct(resID, siteID, typeID, code, name, capacity, isActive, &resource.Type{
		ID:                   typeID,
		Code:                 typeCode,
		Name:                 typeName,
		Icon:                 icon,
		RequiresCapacity:     reqCapacity,
		RequiresLicensePlate: reqPlate,
	}), nil
}

func (r *ResourceRepository) FindSiteByID(ctx context.Context, id uuid.UUID) (*site.Site, error) {
	const query = `SELECT id, code, name, timezone, is_active FROM sites WHERE id = $1`

	var s site.Site
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Code, &s.Name, &s.Timezone, &s.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("site not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find site by ID", err)
	}

	return &s, nil
}
