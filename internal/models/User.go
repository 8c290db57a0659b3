package models

// Role names carried in the credential and the user record.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleDonor            Role = "donor"
	RoleOrphanageManager Role = "orphanage_manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDonor, RoleOrphanageManager:
		return true
	}
	return false
}

// User is the authenticated account as returned by /auth/login, /auth/register and /auth/me.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        Role   `json:"role"` // "admin", "donor", "orphanage_manager"
	OrphanageID string `json:"orphanageId,omitempty"`
}
