package dto

import (
	"time"

	"inventa/internal/domain/items"
)

// ItemResponse contains item fields.
type ItemResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	QuantityOnHand int64     `json:"quantityOnHand"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromItem creates ItemResponse from items.Item.
func FromItem(i *items.Item) ItemResponse {
	return ItemResponse{
		ID:             i.ID.String(),
		Name:           i.Name,
		QuantityOnHand: i.QuantityOnHand.Int64(),
		Version:        i.Version,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// CreateItemRequest for adding items.
type CreateItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int64  `json:"quantity" binding:"min=0"`
}

// SetItemQuantityRequest for manual stock adjustments.
type SetItemQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"min=0"`
}
