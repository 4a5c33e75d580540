package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travelagency/internal/domain/models"
)

// GET /api/admin/agents?status=&page=&limit=
func ListAgents(c *gin.Context) {
	q := models.AgentQuery{
		Approval: models.ApprovalStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
	list, err := authService(c).ListAgents(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func setApproval(c *gin.Context, status models.ApprovalStatus) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	agent, err := authService(c).SetApproval(c.Request.Context(), id, status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agent " + string(status), "agent": agent})
}

// PUT /api/admin/agents/:id/approve
func ApproveAgent(c *gin.Context) { setApproval(c, models.ApprovalApproved) }

// PUT /api/admin/agents/:id/reject
func RejectAgent(c *gin.Context) { setApproval(c, models.ApprovalRejected) }
