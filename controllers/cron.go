package controllers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RunReviewReminders is the scheduled sweep entry point. Authenticated by the
// shared CRON_SECRET, not by a user token; it notifies every unsubmitted
// review within (or past) the deadline window and reports the count.
func RunReviewReminders(c *gin.Context) {
	secret := os.Getenv("CRON_SECRET")
	header := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if secret == "" || subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sent, err := reviewService().SendReminders(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reminder sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reminders_sent": sent})
}
