package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/middleware"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/response"
)

// caller extracts the resolved principal and scope placed on the context
// by the auth middleware. When missing it writes the 401 itself and
// reports false.
func caller(c *gin.Context) (authz.Principal, authz.Scope, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return authz.Principal{}, authz.Scope{}, false
	}
	return p, middleware.ScopeFrom(c), true
}

func queryPage(c *gin.Context) (page, size int) {
	page, size = 1, 20
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}

func querySearch(c *gin.Context) string {
	return strings.TrimSpace(c.Query("search"))
}
