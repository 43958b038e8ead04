package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/infrastructure/http/v1/dto"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	*BaseHandler
	service *user.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles user creation.
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u := req.ToModel()
	if err := h.service.Create(c.Request.Context(), u, req.Password); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, u.ID)
}

// Get retrieves a user by ID.
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, u)
}

// Update handles user edits.
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(u)

	if err := h.service.Update(c.Request.Context(), u); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, u)
}

// ChangePassword sets a new password for a user.
// PUT /api/v1/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req.Password); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "password changed")
}

// Delete soft-deletes a user.
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List retrieves users with filtering.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
