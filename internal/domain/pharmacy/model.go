package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Master kinds. Each kind is a flat per-tenant name table referenced by
// medicines. Masters are only ever created explicitly, never as a side
// effect of an import.
const (
	MasterCategory = "category"
	MasterCompany  = "company"
	MasterUnit     = "unit"
	MasterGroup    = "group"
)

// MasterKinds lists every valid master kind in presentation order.
var MasterKinds = []string{MasterCategory, MasterCompany, MasterUnit, MasterGroup}

type Master struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Medicine struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	CategoryID uuid.UUID  `json:"category_id"`
	CompanyID  uuid.UUID  `json:"company_id"`
	UnitID     uuid.UUID  `json:"unit_id"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type StockEntry struct {
	ID            uuid.UUID  `json:"id"`
	MedicineID    uuid.UUID  `json:"medicine_id"`
	BatchNumber   string     `json:"batch_number"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Quantity      int        `json:"quantity"`
	PurchasePrice float64    `json:"purchase_price"`
	SalePrice     float64    `json:"sale_price"`
	CreatedAt     time.Time  `json:"created_at"`
}
