package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/models"
	"github.com/openacademia/catalog-api/internal/service"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/response"
)

// CareerHandler exposes career endpoints.
type CareerHandler struct {
	careers *service.CareerService
}

// NewCareerHandler constructs CareerHandler.
func NewCareerHandler(careers *service.CareerService) *CareerHandler {
	return &CareerHandler{careers: careers}
}

// List godoc
// @Summary List careers visible to the caller
// @Tags Careers
// @Produce json
// @Security BearerAuth
// @Param state query string false "Filter by state (rector only)"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /careers [get]
func (h *CareerHandler) List(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}

	var filter models.CareerFilter
	if state := c.Query("state"); state != "" {
		s := models.LifecycleState(state)
		filter.State = &s
	}
	filter.Search = querySearch(c)
	filter.Page, filter.PageSize = queryPage(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	careers, pagination, err := h.careers.List(c.Request.Context(), p, scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, careers, pagination)
}

// Get godoc
// @Summary Get career detail
// @Tags Careers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Career ID"
// @Success 200 {object} response.Envelope
// @Router /careers/{id} [get]
func (h *CareerHandler) Get(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	career, err := h.careers.Get(c.Request.Context(), p, scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, career, nil)
}

// Create godoc
// @Summary Create a career with its coordinator
// @Tags Careers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCareerRequest true "Career payload"
// @Success 201 {object} response.Envelope
// @Router /careers [post]
func (h *CareerHandler) Create(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	var req models.CreateCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	career, err := h.careers.Create(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, career)
}

// Update godoc
// @Summary Update career fields
// @Tags Careers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Career ID"
// @Param payload body models.UpdateCareerRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /careers/{id} [put]
func (h *CareerHandler) Update(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	var req models.UpdateCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	career, err := h.careers.Update(c.Request.Context(), p, scope, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, career, nil)
}

// AssignCoordinator godoc
// @Summary Replace the career's coordinator
// @Tags Careers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Career ID"
// @Param payload body models.AssignCoordinatorRequest true "Coordinator"
// @Success 200 {object} response.Envelope
// @Router /careers/{id}/coordinator [put]
func (h *CareerHandler) AssignCoordinator(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	var req models.AssignCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	career, err := h.careers.AssignCoordinator(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, career, nil)
}

// UpdateState godoc
// @Summary Change a career's lifecycle state
// @Tags Careers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Career ID"
// @Param payload body models.UpdateCareerStateRequest true "Target state"
// @Success 200 {object} response.Envelope
// @Router /careers/{id}/state [put]
func (h *CareerHandler) UpdateState(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	var req models.UpdateCareerStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	career, err := h.careers.UpdateState(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, career, nil)
}

// Delete godoc
// @Summary Soft-delete a career
// @Tags Careers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Career ID"
// @Success 204 "No Content"
// @Router /careers/{id} [delete]
func (h *CareerHandler) Delete(c *gin.Context) {
	p, _, ok := caller(c)
	if !ok {
		return
	}
	if err := h.careers.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
