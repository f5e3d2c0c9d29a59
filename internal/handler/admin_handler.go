package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/models"
	"github.com/openacademia/catalog-api/internal/service"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/response"
)

// AdminHandler exposes administrator account endpoints.
type AdminHandler struct {
	admins *service.AdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admins *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// List godoc
// @Summary List administrators
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param state query string false "Filter by state"
// @Param search query string false "Search by name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}

	var filter models.AdminFilter
	if role := c.Query("role"); role != "" {
		r := models.AdminRole(role)
		filter.Role = &r
	}
	if state := c.Query("state"); state != "" {
		s := models.LifecycleState(state)
		filter.State = &s
	}
	filter.Search = querySearch(c)
	filter.Page, filter.PageSize = queryPage(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	admins, pagination, err := h.admins.List(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, admins, pagination)
}

// Get godoc
// @Summary Get administrator detail
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	admin, err := h.admins.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// Create godoc
// @Summary Register an administrator
// @Tags Admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Router /admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.admins.Create(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// Update godoc
// @Summary Update an administrator
// @Tags Admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Param payload body models.UpdateAdminRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	var req models.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.admins.Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// UpdateState godoc
// @Summary Change an administrator's lifecycle state
// @Tags Admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Param payload body models.UpdateAdminStateRequest true "Target state"
// @Success 200 {object} response.Envelope
// @Router /admins/{id}/state [put]
func (h *AdminHandler) UpdateState(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	var req models.UpdateAdminStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.admins.UpdateState(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// Delete godoc
// @Summary Soft-delete an administrator
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Success 204 "No Content"
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	if err := h.admins.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
