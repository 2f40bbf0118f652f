package resource

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidCode        = errors.New("resource code cannot be empty")
	ErrCapacityExceeded   = errors.New("attendees exceed resource capacity")
	ErrLicensePlateNeeded = errors.New("license plate is required for this resource type")
)

// Type is the resource-type record (meeting room, parking spot). The
// requires* flags drive request validation for bookings.
type Type struct {
	ID                   uuid.UUID
	Code                 string
	Name                 string
	Icon                 string
	RequiresCapacity     bool
	RequiresLicensePlate bool
}

type Resource struct {
	id       uuid.UUID
	siteID   uuid.UUID
	typeID   uuid.UUID
	code     string
	name     string
	capacity *int32
	isActive bool

	resourceType *Type
}

// Code is unique within a site, not globally; the (site_id, code) unique
// index upstream is the authority.
func NewResource(siteID, typeID uuid.UUID, code, name string, capacity *int32) (*Resource, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}
	return &Resource{
		id:       uuid.New(),
		siteID:   siteID,
		typeID:   typeID,
		code:     code,
		name:     name,
		capacity: capacity,
		isActive: true,
	}, nil
}

func Reconstruct(
	id, siteID, typeID uuid.UUID,
	code, name string,
	capacity *int32,
	isActive bool,
	resourceType *Type,
) *Resource {
	return &Resource{
		id:           id,
		siteID:       siteID,
		typeID:       typeID,
		code:         code,
		name:         name,
		capacity:     capacity,
		isActive:     isActive,
		resourceType: resourceType,
	}
}

func (r *Resource) ID() uuid.UUID       { return r.id }
func (r *Resource) SiteID() uuid.UUID   { return r.siteID }
func (r *Resource) TypeID() uuid.UUID   { return r.typeID }
func (r *Resource) Code() string        { return r.code }
func (r *Resource) Name() string        { return r.name }
func (r *Resource) Capacity() *int32    { return r.capacity }
func (r *Resource) IsActive() bool      { return r.isActive }
func (r *Resource) Type() *Type         { return r.resourceType }

// ValidateRequest applies type-driven request constraints: capacity bound
// when the resource declares one, license plate presence when the type
// demands it (parking).
func (r *Resource) ValidateRequest(attendees int32, licensePlate *string) error {
	if r.capacity != nil && r.resourceType != nil && r.resourceType.RequiresCapacity && attendees > *r.capacity {
		return ErrCapacityExceeded
	}
	if r.resourceType != nil && r.resourceType.RequiresLicensePlate {
		if licensePlate == nil || *licensePlate == "" {
			return ErrLicensePlateNeeded
		}
	}
	return nil
}
