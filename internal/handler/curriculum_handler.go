package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/service"
	"github.com/openacademia/catalog-api/pkg/response"
)

// CurriculumHandler exposes the curriculum download endpoint.
type CurriculumHandler struct {
	curricula *service.CurriculumService
}

// NewCurriculumHandler constructs CurriculumHandler.
func NewCurriculumHandler(curricula *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curricula: curricula}
}

// Download godoc
// @Summary Download a career's curriculum
// @Description Streams the paginated curriculum tables as an attachment.
// @Tags Curriculum
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Career ID"
// @Param format query string false "Output format: pdf (default) or csv"
// @Success 200 {file} binary
// @Router /careers/{id}/curriculum [get]
func (h *CurriculumHandler) Download(c *gin.Context) {
	p, scope, ok := caller(c)
	if !ok {
		return
	}

	doc, err := h.curricula.Generate(c.Request.Context(), p, scope, c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, doc.Filename, doc.ContentType, doc.Data)
}
