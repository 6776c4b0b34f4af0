package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"journal-submission-api/config"
	"journal-submission-api/services"
)

func getDB() *gorm.DB { return config.DB }

func currentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

// currentActor builds the explicit actor the services operate on. Identity
// and role set both come from the auth middleware; services never read them
// ambiently.
func currentActor(c *gin.Context) (services.Actor, bool) {
	id, ok := currentUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	roles := []string{}
	if v, ok := c.Get("roles"); ok {
		if r, ok := v.([]string); ok {
			roles = r
		}
	}
	return services.Actor{UserID: id, Roles: roles}, true
}

// respondError translates the domain error taxonomy into HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAuthorization):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrConflictOfInterest),
		errors.Is(err, services.ErrDuplicateAssignment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Service constructors over the process-wide DB handle.

func notifier() *services.Notifier { return services.NewNotifier(getDB()) }

func submissionService() *services.SubmissionService {
	return services.NewSubmissionService(getDB(), notifier())
}

func reviewService() *services.ReviewService {
	return services.NewReviewService(getDB(), notifier())
}

func decisionService() *services.DecisionService {
	return services.NewDecisionService(getDB(), notifier())
}

func publicationService() *services.PublicationService {
	return services.NewPublicationService(getDB(), notifier(), services.NewCrossrefClient())
}

func settingsService() *services.SettingsService {
	return services.NewSettingsService(getDB())
}

func searchService() *services.SearchService {
	return services.NewSearchService(getDB())
}
