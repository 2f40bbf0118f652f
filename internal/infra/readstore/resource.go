package readstore

import (
	"context"

	"reserva-api/internal/domain/resource"
	"reserva-api/internal/domain/site"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resourceSelect = `
	SELECT r.id, r.site_id, r.type_id, r.code, r.name, r.capacity, r.is_active,
	       t.code, t.name, t.icon, t.requires_capacity, t.requires_license_plate
	FROM resources r
	JOIN resource_types t ON t.id = r.type_id`

type ResourceReadStore struct {
	pool *pgxpool.Pool
}

func NewResourceReadStore(pool *pgxpool.Pool) *ResourceReadStore {
	return &ResourceReadStore{pool: pool}
}

func (r *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	query := resourceSelect + ` WHERE r.id = $1`

	res, err := scanResource(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource by ID", err)
	}

	return res, nil
}

// FindActiveBySite lists the site's active resources, optionally narrowed to
// one resource type code. Order is stable for availability listings.
func (r *ResourceReadStore) FindActiveBySite(ctx context.Context, siteID uuid.UUID, typeCode string) ([]*resource.Resource, error) {
	query := resourceSelect + ` WHERE r.site_id = $1 AND r.is_active`
	args := []any{siteID}
	if typeCode != "" {
		query += ` AND t.code = $2`
		args = append(args, typeCode)
	}
	query += ` ORDER BY r.code`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list site resources", err)
	}
	defer rows.Close()

	var result []*resource.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan resource row", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate resource rows", err)
	}

	return result, nil
}

func (r *ResourceReadStore) FindSiteByID(ctx context.Context, id uuid.UUID) (*site.Site, error) {
	return r.findSite(ctx, `SELECT id, code, name, timezone, is_active FROM sites WHERE id = $1`, id)
}

func (r *ResourceReadStore) FindSiteByCode(ctx context.Context, code string) (*site.Site, error) {
	return r.findSite(ctx, `SELECT id, code, name, timezone, is_active FROM sites WHERE code = $1`, code)
}

func (r *ResourceReadStore) findSite(ctx context.Context, query string, arg any) (*site.Site, error) {
	var s site.Site
	err := r.pool.QueryRow(ctx, query, arg).Scan(&s.ID, &s.Code, &s.Name, &s.Timezone, &s.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("site not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find site", err)
	}

	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*resource.Resource, error) {
	var (
		id, siteID, typeID       uuid.UUID
		code, name               string
		capacity                 *int32
		isActive                 bool
		typeCode, typeName, icon string
		reqCapacity, reqPlate    bool
	)
	err := row.Scan(
		&id, &siteID, &typeID, &code, &name, &capacity, &isActive,
		&typeCode, &typeName, &icon, &reqCapacity, &reqPlate,
	)
	if err != nil {
		return nil, err
	}

	return resource.Reconstruct(id, siteID, typeID, code, name, capacity, isActive, &resource.Type{
		ID:                   typeID,
		Code:                 typeCode,
		Name:                 typeName,
		Icon:                 icon,
		RequiresCapacity:     reqCapacity,
		RequiresLicensePlate: reqPlate,
	}), nil
}
