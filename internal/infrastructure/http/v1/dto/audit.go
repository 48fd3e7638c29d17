package dto

import (
	"encoding/json"
	"time"
)

// AuditEntryResponse is one audit trail entry. Payload is the entity
// snapshot recorded with the action, already decompressed.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
