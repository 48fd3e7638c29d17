// Package audit defines the change-trail contract for business entities.
// The storage implementation lives in infrastructure/storage/postgres.
package audit

import (
	"context"

	"inventa/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionCancel Action = "cancel"
	ActionAdjust Action = "adjust"
	ActionDelete Action = "delete"
)

// Recorder persists audit entries. Recording is best effort: services log
// failures but never fail the business operation over a missing trail entry.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, payload any) error
}

// Nop is a Recorder that discards entries. Used in tests and tools.
type Nop struct{}

func (Nop) Record(ctx context.Context, entityType string, entityID id.ID, action Action, payload any) error {
	return nil
}
