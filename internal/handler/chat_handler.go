package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/models"
	"github.com/openacademia/catalog-api/internal/service"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/response"
)

// ChatHandler exposes the catalog question endpoint.
type ChatHandler struct {
	chat    *service.ChatService
	enabled bool
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *service.ChatService, enabled bool) *ChatHandler {
	return &ChatHandler{chat: chat, enabled: enabled}
}

// Query godoc
// @Summary Ask a question about the catalog
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ChatQuery true "Question"
// @Success 200 {object} response.Envelope
// @Router /chat/query [post]
func (h *ChatHandler) Query(c *gin.Context) {
	if !h.enabled {
		response.Error(c, appErrors.New("CHAT_DISABLED", http.StatusServiceUnavailable, "chat is disabled"))
		return
	}

	p, scope, ok := caller(c)
	if !ok {
		return
	}
	var query models.ChatQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	answer, err := h.chat.Answer(c.Request.Context(), p, scope, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, answer, nil)
}
