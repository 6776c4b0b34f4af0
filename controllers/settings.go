package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-submission-api/services"
)

type updateSettingsRequest struct {
	JournalName               string  `json:"journal_name" binding:"required"`
	ReviewType                string  `json:"review_type" binding:"required"`
	DefaultReviewDeadlineDays int     `json:"default_review_deadline_days" binding:"required"`
	DOIPrefix                 string  `json:"doi_prefix" binding:"required"`
	CrossrefUsername          *string `json:"crossref_username"`
	CrossrefPassword          *string `json:"crossref_password"`
}

// GetJournalSettings returns the singleton configuration row. Registrar
// credentials never leave the server (the model hides them from JSON).
func GetJournalSettings(c *gin.Context) {
	settings, err := settingsService().Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journal settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// UpdateJournalSettings rewrites the singleton row. Editor-gated.
func UpdateJournalSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := currentActor(c)
	settings, err := settingsService().Update(actor, services.UpdateSettingsInput{
		JournalName:               req.JournalName,
		ReviewType:                req.ReviewType,
		DefaultReviewDeadlineDays: req.DefaultReviewDeadlineDays,
		DOIPrefix:                 req.DOIPrefix,
		CrossrefUsername:          req.CrossrefUsername,
		CrossrefPassword:          req.CrossrefPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}
