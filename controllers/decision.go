package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-submission-api/models"
)

type issueDecisionRequest struct {
	Decision models.DecisionType `json:"decision" binding:"required"`
	Notes    string              `json:"notes"`
}

// IssueDecision records an editorial decision and drives the mapped status
// transition.
func IssueDecision(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req issueDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := currentActor(c)
	decision, err := decisionService().Issue(actor, submissionID, req.Decision, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "decision": decision})
}

// GetDecisionHistory returns the append-only decision trail of a submission.
func GetDecisionHistory(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor, _ := currentActor(c)
	decisions, err := decisionService().History(actor, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "decisions": decisions, "total": len(decisions)})
}
