package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID         uuid.UUID  `json:"id"`
	MRN        string     `json:"mrn"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Gender     string     `json:"gender"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Address    *string    `json:"address,omitempty"`
	City       *string    `json:"city,omitempty"`
	BloodGroup *string    `json:"blood_group,omitempty"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true, "unknown": true,
}
