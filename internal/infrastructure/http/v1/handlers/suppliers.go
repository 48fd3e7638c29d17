package handlers

import (
	"github.com/gin-gonic/gin"

	"inventa/internal/domain/suppliers"
	"inventa/internal/infrastructure/http/v1/dto"
)

// SuppliersHandler handles HTTP requests for suppliers.
type SuppliersHandler struct {
	*BaseHandler
	service *suppliers.Service
}

// NewSuppliersHandler creates a new suppliers handler.
func NewSuppliersHandler(base *BaseHandler, service *suppliers.Service) *SuppliersHandler {
	return &SuppliersHandler{BaseHandler: base, service: service}
}

// List handles GET /suppliers
func (h *SuppliersHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.SupplierResponse, len(result))
	for i, s := range result {
		responses[i] = dto.FromSupplier(s)
	}
	h.OK(c, dto.ListResponse[dto.SupplierResponse]{Items: responses})
}

// Create handles POST /suppliers
func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.service.Add(c.Request.Context(), req.Name, req.ContactInfo)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, supplier.ID)
}

// Delete handles DELETE /suppliers/:supplierId
func (h *SuppliersHandler) Delete(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "supplierId")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
