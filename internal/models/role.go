package models

// Role is a resident's authorization level.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

var roleLevels = map[Role]int{
	RoleGuest:  1,
	RoleMember: 2,
	RoleAdmin:  3,
}

// Level returns the role's position in guest < member < admin, or 0 if unknown.
func (r Role) Level() int {
	return roleLevels[r]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// AtLeast reports whether r grants everything required does.
func (r Role) AtLeast(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r.Level() >= required.Level()
}
