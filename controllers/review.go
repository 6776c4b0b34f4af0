package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-submission-api/models"
	"journal-submission-api/services"
)

type assignReviewerRequest struct {
	ReviewerID uint       `json:"reviewer_id" binding:"required"`
	Deadline   *time.Time `json:"deadline"`
}

type submitReviewRequest struct {
	Content string `json:"content" binding:"required"`
}

// AssignReviewer binds a reviewer to a submission. Editor-gated by the route;
// the engine re-validates the role, COI, and duplicates.
func AssignReviewer(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req assignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := currentActor(c)
	review, err := reviewService().Assign(actor, submissionID, req.ReviewerID, req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

// GetMyReviews returns the caller's review worklist.
func GetMyReviews(c *gin.Context) {
	userID, _ := currentUserID(c)

	reviews, err := reviewService().ListForReviewer(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews, "total": len(reviews)})
}

// GetReview returns one review for its assignee, with the submission shown
// through the blind-review filter.
func GetReview(c *gin.Context) {
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	review, err := reviewService().Get(reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	if review.ReviewerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	settings, err := settingsService().Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journal settings"})
		return
	}

	resp := gin.H{"success": true, "review": review}
	if review.Submission != nil {
		sub := review.Submission
		// Load author for single-blind rendering; the view drops it again
		// under double blind.
		if !settings.DoubleBlind() && sub.Author == nil {
			var author models.User
			if err := getDB().Where("user_id = ?", sub.AuthorID).First(&author).Error; err == nil {
				sub.Author = &author
			}
		}
		view := services.ReviewerSubmissionView(sub, settings)
		resp["submission"] = view
	}
	// The raw submission stays out of the payload: it carries author identity.
	review.Submission = nil

	c.JSON(http.StatusOK, resp)
}

// GetSubmissionReviews lists all reviews of a submission for editors,
// including overdue flags.
func GetSubmissionReviews(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := currentActor(c)

	reviews, err := reviewService().ListForSubmission(actor, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	items := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, gin.H{
			"review":  r,
			"overdue": r.Overdue(now),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": items, "total": len(items)})
}

// SubmitReview stores the caller's review content. One-shot.
func SubmitReview(c *gin.Context) {
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := currentUserID(c)
	if err := reviewService().Submit(reviewID, userID, req.Content); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review submitted"})
}
