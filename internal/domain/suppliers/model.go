package suppliers

import (
	"time"

	"inventa/internal/core/id"
)

// Supplier is a counterparty goods are sourced from. Kept deliberately
// flat: contact info is free text, not a structured address.
type Supplier struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ContactInfo string    `db:"contact_info" json:"contactInfo"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

func NewSupplier(name, contactInfo string) *Supplier {
	return &Supplier{
		ID:          id.New(),
		Name:        name,
		ContactInfo: contactInfo,
		CreatedAt:   time.Now().UTC(),
	}
}
