package user

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleSiteAdmin  Role = "site_admin"
	RoleReception  Role = "reception"
	RoleEmployee   Role = "employee"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleSiteAdmin, RoleReception, RoleEmployee:
		return true
	default:
		return false
	}
}

// CanViewOtherUserBookings reports whether the role may browse bookings that
// belong to other users within its site scope.
func (r Role) CanViewOtherUserBookings() bool {
	switch r {
	case RoleSuperAdmin, RoleSiteAdmin, RoleReception:
		return true
	default:
		return false
	}
}
