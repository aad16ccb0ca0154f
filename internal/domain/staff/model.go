package staff

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin      = "admin"
	RoleDoctor     = "doctor"
	RoleNurse      = "nurse"
	RolePharmacist = "pharmacist"
	RoleBilling    = "billing"
	RoleLab        = "lab"
)

var validRoles = map[string]bool{
	RoleAdmin: true, RoleDoctor: true, RoleNurse: true,
	RolePharmacist: true, RoleBilling: true, RoleLab: true,
}

// Member is a hospital staff account. UserID is the subject claim of the
// identity provider token; it links logins to the staff directory.
type Member struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           string    `json:"role"`
	Specialization *string   `json:"specialization,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
