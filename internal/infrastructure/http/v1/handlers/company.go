package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/domain/company"
	"pharmapos/internal/infrastructure/http/v1/dto"
)

// CompanyHandler handles the company profile endpoints.
type CompanyHandler struct {
	*BaseHandler
	service *company.Service
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(service *company.Service) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Get retrieves the company profile, creating defaults on first call.
// GET /api/v1/company
func (h *CompanyHandler) Get(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, profile)
}

// Update handles company profile edits.
// PUT /api/v1/company
func (h *CompanyHandler) Update(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.Apply(profile); err != nil {
		h.Error(c, apperror.NewValidation("invalid tax rate").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), profile); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, profile)
}
