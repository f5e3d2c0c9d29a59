package middleware

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/models"
	"github.com/openacademia/catalog-api/internal/service"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/response"
)

// Context keys for the authenticated request.
const (
	ContextClaimsKey    = "currentClaims"
	ContextPrincipalKey = "currentPrincipal"
	ContextScopeKey     = "currentScope"
)

type principalAdminSource interface {
	FindByID(ctx context.Context, id string) (*models.Admin, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// Principal reloads the authenticated admin, rejects non-active accounts
// even when the token is still valid, and resolves the career scope once
// for the request. Role and scope come from the database, not the token,
// so revocations take effect immediately.
func Principal(admins principalAdminSource, resolver *authz.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		admin, err := admins.FindByID(c.Request.Context(), claims.AdminID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists"))
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}
		if admin.State != models.StateActive {
			response.Error(c, appErrors.Clone(appErrors.ErrInactiveAccount, "account is not active"))
			c.Abort()
			return
		}

		principal := authz.Principal{ID: admin.ID, Role: admin.Role}
		scope, err := resolver.Resolve(c.Request.Context(), principal)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve scope"))
			c.Abort()
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Set(ContextScopeKey, scope)
		c.Next()
	}
}

// ClaimsFrom returns the token claims stored on the context, if any.
func ClaimsFrom(c *gin.Context) *models.JWTClaims {
	if raw, exists := c.Get(ContextClaimsKey); exists {
		if claims, ok := raw.(*models.JWTClaims); ok {
			return claims
		}
	}
	return nil
}

// PrincipalFrom returns the resolved principal stored on the context.
func PrincipalFrom(c *gin.Context) (authz.Principal, bool) {
	if raw, exists := c.Get(ContextPrincipalKey); exists {
		if p, ok := raw.(authz.Principal); ok {
			return p, true
		}
	}
	return authz.Principal{}, false
}

// ScopeFrom returns the resolved scope stored on the context.
func ScopeFrom(c *gin.Context) authz.Scope {
	if raw, exists := c.Get(ContextScopeKey); exists {
		if s, ok := raw.(authz.Scope); ok {
			return s
		}
	}
	return authz.Scope{}
}
