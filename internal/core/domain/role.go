package domain

const (
	RoleNameAdmin = "ADMIN"
	RoleNameUser  = "USER"

	AuthorityAdmin = "ROLE_ADMIN"
	AuthorityUser  = "ROLE_USER"
)

// Role is an authorization label. Its description doubles as the authority
// string handed to the authentication layer.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r Role) Authority() string {
	return r.Description
}

// DefaultRoles are created at startup when missing.
var DefaultRoles = []Role{
	{Name: RoleNameAdmin, Description: AuthorityAdmin},
	{Name: RoleNameUser, Description: AuthorityUser},
}
