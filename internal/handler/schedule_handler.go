package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/models"
	"github.com/openacademia/catalog-api/internal/service"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/response"
)

// ScheduleHandler exposes schedule slot endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// ListBySubject godoc
// @Summary List a subject's schedule slots
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/schedule [get]
func (h *ScheduleHandler) ListBySubject(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	slots, err := h.schedules.ListBySubject(c.Request.Context(), p, scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Get godoc
// @Summary Get schedule slot detail
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	slot, err := h.schedules.Get(c.Request.Context(), p, scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Create godoc
// @Summary Create a schedule slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateScheduleSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /schedule-slots [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	var req models.CreateScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.schedules.Create(c.Request.Context(), p, scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update a schedule slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param payload body models.UpdateScheduleSlotRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	var req models.UpdateScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.schedules.Update(c.Request.Context(), p, scope, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Delete godoc
// @Summary Soft-delete a schedule slot
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204 "No Content"
// @Router /schedule-slots/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}
	if err := h.schedules.Delete(c.Request.Context(), p, scope, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
