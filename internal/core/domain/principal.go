package domain

// AuthPrincipal is what the identity lookup hands to the login flow. Password
// is the stored digest, verbatim.
type AuthPrincipal struct {
	Username    string
	Password    string
	Authorities []string
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// HasAuthority reports whether the caller was granted authority.
func (c *Caller) HasAuthority(authority string) bool {
	if c == nil {
		return false
	}
	for _, a := range c.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller holds the administrator authority.
func (c *Caller) IsAdmin() bool {
	return c.HasAuthority(AuthorityAdmin)
}
