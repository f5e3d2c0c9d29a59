package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/models"
	"github.com/openacademia/catalog-api/internal/service"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/response"
)

// PrerequisiteHandler exposes requirement-edge endpoints.
type PrerequisiteHandler struct {
	prereqs *service.PrerequisiteService
}

// NewPrerequisiteHandler constructs PrerequisiteHandler.
func NewPrerequisiteHandler(prereqs *service.PrerequisiteService) *PrerequisiteHandler {
	return &PrerequisiteHandler{prereqs: prereqs}
}

// ListForSubject godoc
// @Summary List a subject's prerequisites
// @Tags Prerequisites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/prerequisites [get]
func (h *PrerequisiteHandler) ListForSubject(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	edges, err := h.prereqs.ListForSubject(c.Request.Context(), p, scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, edges, nil)
}

// ListDependents godoc
// @Summary List subjects that require this one
// @Tags Prerequisites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/dependents [get]
func (h *PrerequisiteHandler) ListDependents(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	edges, err := h.prereqs.ListDependents(c.Request.Context(), p, scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, edges, nil)
}

// Create godoc
// @Summary Create a prerequisite edge
// @Tags Prerequisites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreatePrerequisiteRequest true "Edge payload"
// @Success 201 {object} response.Envelope
// @Router /prerequisites [post]
func (h *PrerequisiteHandler) Create(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	var req models.CreatePrerequisiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	edge, err := h.prereqs.Create(c.Request.Context(), p, scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, edge)
}

// Delete godoc
// @Summary Soft-delete a prerequisite edge
// @Tags Prerequisites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Edge ID"
// @Success 204 "No Content"
// @Router /prerequisites/{id} [delete]
func (h *PrerequisiteHandler) Delete(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	if err := h.prereqs.Delete(c.Request.Context(), p, scope, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
