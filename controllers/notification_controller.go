package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"journal-submission-api/models"
)

// GetNotifications lists the caller's notifications, unread first.
func GetNotifications(c *gin.Context) {
	userID, _ := currentUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	onlyUnread := c.Query("unread") == "1"

	query := getDB().Where("user_id = ?", userID)
	if onlyUnread {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := query.Order("is_read ASC, create_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": rows, "total": len(rows)})
}

// GetNotificationCounter returns the unread badge count.
func GetNotificationCounter(c *gin.Context) {
	userID, _ := currentUserID(c)

	var unread int64
	if err := getDB().Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "unread": unread})
}

// MarkNotificationRead flips is_read on one of the caller's notifications.
// Notifications are otherwise append-only.
func MarkNotificationRead(c *gin.Context) {
	notificationID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	now := time.Now()
	result := getDB().Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead flips is_read on everything the caller has.
func MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := currentUserID(c)

	now := time.Now()
	if err := getDB().Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
