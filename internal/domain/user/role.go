package user

// Role mirrors the roles issued by the external identity module. The
// attendance core only inspects them at the transport layer.
type Role string

const (
	RoleEmployee     Role = "employee"
	RoleManager      Role = "manager"
	RoleHRExecutive  Role = "hr_executive"
	RoleHRManager    Role = "hr_manager"
	RoleCompanyAdmin Role = "company_admin"
)

// CanViewTeam reports whether the role may read other employees' attendance.
func (r Role) CanViewTeam() bool {
	switch r {
	case RoleManager, RoleHRExecutive, RoleHRManager, RoleCompanyAdmin:
		return true
	}
	return false
}

// CanAdjust reports whether the role may perform manual adjustments and
// approve or reject them.
func (r Role) CanAdjust() bool {
	switch r {
	case RoleHRExecutive, RoleHRManager, RoleCompanyAdmin:
		return true
	}
	return false
}
