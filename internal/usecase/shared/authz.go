package shared

import (
	"reserva-api/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated principal extracted from the access token.
type Actor struct {
	ID     uuid.UUID
	Role   user.Role
	SiteID *uuid.UUID
}

func (a Actor) belongsToSite(siteID uuid.UUID) bool {
	return a.SiteID != nil && *a.SiteID == siteID
}

type BookingAction string

const (
	ActionView    BookingAction = "view"
	ActionCreate  BookingAction = "create"
	ActionUpdate  BookingAction = "update"
	ActionCancel  BookingAction = "cancel"
	ActionRestore BookingAction = "restore"
)

// AuthorizationGate answers whether an actor may perform an action on a
// booking owned by ownerID for a resource in siteID. Callers treat it as an
// opaque predicate; time-based guards (future start etc.) live in the domain,
// not here.
type AuthorizationGate interface {
	CanActOnBooking(actor Actor, ownerID, siteID uuid.UUID, action BookingAction) bool
}

// RolePolicy implements the site-scoped role rules: super_admin acts
// anywhere, owners act on their own bookings regardless of site, site_admin
// and reception act within their own site, and creation is always restricted
// to the actor's own site.
type RolePolicy struct{}

func NewRolePolicy() *RolePolicy {
	return &RolePolicy{}
}

func (p *RolePolicy) CanActOnBooking(actor Actor, ownerID, siteID uuid.UUID, action BookingAction) bool {
	if actor.Role == user.RoleSuperAdmin {
		return true
	}

	// Owners keep control of their own bookings even after moving site.
	if action != ActionCreate && actor.ID == ownerID {
		return true
	}

	if !actor.belongsToSite(siteID) {
		return false
	}

	switch actor.Role {
	case user.RoleSiteAdmin, user.RoleReception:
		return true
	case user.RoleEmployee:
		return action == ActionCreate
	default:
		return false
	}
}
