package handlers

import (
	"github.com/gin-gonic/gin"

	"inventa/internal/core/apperror"
	"inventa/internal/infrastructure/http/v1/dto"
	"inventa/internal/infrastructure/storage/postgres"
)

// auditEntityTypes are the entity types the trail records.
var auditEntityTypes = map[string]bool{
	"item":  true,
	"order": true,
}

// AuditHandler serves the audit trail of an entity.
type AuditHandler struct {
	*BaseHandler
	store *postgres.AuditStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, store *postgres.AuditStore) *AuditHandler {
	return &AuditHandler{BaseHandler: base, store: store}
}

// History handles GET /audit/:entityType/:entityId
func (h *AuditHandler) History(c *gin.Context) {
	entityType := c.Param("entityType")
	if !auditEntityTypes[entityType] {
		h.Error(c, apperror.NewValidation("unknown entity type").
			WithDetail("entityType", entityType))
		return
	}

	entityID, ok := h.ParseID(c, "entityId")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := h.store.History(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = dto.AuditEntryResponse{
			ID:         e.ID.String(),
			EntityType: e.EntityType,
			EntityID:   e.EntityID.String(),
			Action:     string(e.Action),
			Payload:    e.Payload,
			CreatedAt:  e.CreatedAt,
		}
	}
	h.OK(c, dto.ListResponse[dto.AuditEntryResponse]{Items: responses})
}
