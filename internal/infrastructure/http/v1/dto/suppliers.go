package dto

import (
	"time"

	"inventa/internal/domain/suppliers"
)

// SupplierResponse contains supplier fields.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contactInfo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromSupplier creates SupplierResponse from suppliers.Supplier.
func FromSupplier(s *suppliers.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		ContactInfo: s.ContactInfo,
		CreatedAt:   s.CreatedAt,
	}
}

// CreateSupplierRequest for adding suppliers.
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactInfo string `json:"contactInfo"`
}
