package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-submission-api/models"
)

// GetEditorDashboard summarizes the editorial workload: submissions per
// status, pending and overdue reviews, archive size. Editor-gated by the
// route.
func GetEditorDashboard(c *gin.Context) {
	db := getDB()

	type statusCount struct {
		Status models.SubmissionStatus `json:"status"`
		Count  int64                   `json:"count"`
	}
	var byStatus []statusCount
	if err := db.Model(&models.Submission{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	var pendingReviews int64
	db.Model(&models.Review{}).Where("submitted_at IS NULL").Count(&pendingReviews)

	var overdueReviews int64
	db.Model(&models.Review{}).
		Where("submitted_at IS NULL AND deadline IS NOT NULL AND deadline < ?", time.Now()).
		Count(&overdueReviews)

	var published int64
	db.Model(&models.Publication{}).Count(&published)

	var retracted int64
	db.Model(&models.Publication{}).Where("retracted = ?", true).Count(&retracted)

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"submissions_by_status": byStatus,
		"pending_reviews":       pendingReviews,
		"overdue_reviews":       overdueReviews,
		"publications":          published,
		"retracted":             retracted,
	})
}
