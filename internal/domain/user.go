package domain

import "time"

const (
	RoleStudent  = "student"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

// User es el perfil publico asociado a la cuenta del proveedor de autenticación.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	Premium   bool      `json:"premium"`
	CreatedAt time.Time `json:"created_at"`
}
