package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

const (
	principalKey = "principal"
	// TokenCookie carries the session JWT.
	TokenCookie = "token"
)

// Authenticator turns a raw token into the principal it names.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (models.Principal, error)
}

// AuthenticatorFunc builds an Authenticator per request so it can log with the request id.
type AuthenticatorFunc func(c *gin.Context) Authenticator

// TokenFromRequest reads the token cookie, falling back to a Bearer header.
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(TokenCookie); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}

// Authenticate requires a valid token and stores the principal on the context.
func Authenticate(newAuth AuthenticatorFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := TokenFromRequest(c)
		if raw == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		p, err := newAuth(c).Authenticate(c.Request.Context(), raw)
		switch {
		case err == nil:
		case domain.IsUnauthorized(err):
			abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		case domain.IsForbidden(err):
			abort(c, http.StatusForbidden, "forbidden", err.Error())
			return
		default:
			utils.LogError(GetRequestID(c), "auth", "authenticate", err)
			abort(c, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRoles only lets principals with one of the given roles through.
// Authenticate must run first.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if _, ok := allowed[strings.ToLower(p.Role)]; !ok {
			abort(c, http.StatusForbidden, "forbidden", "role not allowed")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)
}

func RequireAgent() gin.HandlerFunc {
	return RequireRoles(models.RoleAgent)
}

// GetPrincipal returns the authenticated caller, if any.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	if c == nil {
		return models.Principal{}, false
	}
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
