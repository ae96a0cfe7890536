package domain

import "time"

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// User is a persisted account. Password always holds a bcrypt digest once it
// leaves the service layer; ConfirmPassword is request-only and never stored.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Password        string    `json:"-"`
	ConfirmPassword string    `json:"-"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email,omitempty"`
	Roles           []Role    `json:"roles"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RoleIDs returns the ids of the user's roles in their current order.
func (u *User) RoleIDs() []int64 {
	ids := make([]int64, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// Authorities maps each role to its description, deduplicated.
func (u *User) Authorities() []string {
	seen := make(map[string]struct{}, len(u.Roles))
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		a := r.Authority()
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// ChangePasswordForm is the payload of a password change. CurrentPassword may
// be empty when the caller is an administrator.
type ChangePasswordForm struct {
	ID              int64
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}
