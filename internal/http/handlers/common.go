package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/http/middleware"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid JSON payload", nil)
		return false
	}
	return true
}

// principal returns the caller set by middleware.Authenticate, or writes a 401.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{Msg: "authentication required"})
		return models.Principal{}, false
	}
	return p, true
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func pathID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "is required"})
		return "", false
	}
	return id, true
}
