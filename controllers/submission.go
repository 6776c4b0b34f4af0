// controllers/submission.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"journal-submission-api/models"
	"journal-submission-api/services"
)

type createSubmissionRequest struct {
	Title     string            `json:"title" binding:"required"`
	Abstract  string            `json:"abstract" binding:"required"`
	Keywords  []string          `json:"keywords"`
	CoAuthors []models.CoAuthor `json:"co_authors"`
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// CreateSubmission registers a new manuscript for the calling author.
func CreateSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := currentUserID(c)
	sub, err := submissionService().Create(userID, services.CreateSubmissionInput{
		Title:     req.Title,
		Abstract:  req.Abstract,
		Keywords:  req.Keywords,
		CoAuthors: req.CoAuthors,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": sub})
}

// GetSubmissions returns the caller's own submissions.
func GetSubmissions(c *gin.Context) {
	userID, _ := currentUserID(c)

	subs, err := submissionService().ListForAuthor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submissions": subs, "total": len(subs)})
}

// GetSubmission returns a single submission. Owners see everything including
// the submitted review texts (reviewer identity stripped); editors see the
// raw record.
func GetSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := currentActor(c)

	sub, err := submissionService().Get(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	isOwner := sub.AuthorID == actor.UserID
	if !isOwner && !actor.HasRole(models.RoleEditor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	resp := gin.H{
		"success":        true,
		"submission":     sub,
		"status_display": sub.Status.Display(),
	}

	if isOwner {
		// Author-facing review views never carry reviewer identity.
		var reviews []models.Review
		if err := getDB().Where("submission_id = ?", submissionID).Find(&reviews).Error; err == nil {
			resp["reviews"] = services.AuthorReviewViews(reviews)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetAllSubmissions returns every submission, optionally filtered by status.
// Editor-gated by the route; the service re-checks.
func GetAllSubmissions(c *gin.Context) {
	actor, _ := currentActor(c)

	status := models.SubmissionStatus(c.Query("status"))
	subs, err := submissionService().ListAll(actor, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submissions": subs, "total": len(subs)})
}

// WithdrawSubmission moves the caller's submission to withdrawn.
func WithdrawSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	if err := submissionService().Withdraw(submissionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission withdrawn"})
}

// ReopenReview puts a revision_requested submission back under review.
func ReopenReview(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := currentActor(c)

	if err := submissionService().ReopenReview(actor, submissionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission moved back under review"})
}
