package settings

import "time"

// HospitalSettings is a per-tenant singleton row. Defaults apply until the
// first save.
type HospitalSettings struct {
	HospitalName      string    `json:"hospital_name"`
	Address           *string   `json:"address,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	Email             *string   `json:"email,omitempty"`
	Currency          string    `json:"currency"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func Defaults() *HospitalSettings {
	return &HospitalSettings{
		Currency:          "INR",
		LowStockThreshold: 10,
	}
}
