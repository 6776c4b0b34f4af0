package models

import "time"

// Notification event types emitted by the workflow services.
const (
	NotifSubmissionReceived  = "submission_received"
	NotifSubmissionWithdrawn = "submission_withdrawn"
	NotifReviewerAssigned    = "reviewer_assigned"
	NotifReviewSubmitted     = "review_submitted"
	NotifReviewReminder      = "review_reminder"
	NotifDecisionMade        = "decision_made"
	NotifPaperPublished      = "paper_published"
)

// Notification rows are append-only; only is_read is ever flipped.
type Notification struct {
	NotificationID      uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID              uint       `gorm:"column:user_id" json:"user_id"`
	Type                string     `gorm:"column:type" json:"type"`
	Title               string     `gorm:"column:title" json:"title"`
	Message             string     `gorm:"column:message" json:"message"`
	Link                *string    `gorm:"column:link" json:"link,omitempty"`
	RelatedSubmissionID *uint      `gorm:"column:related_submission_id" json:"related_submission_id,omitempty"`
	IsRead              bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt            time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt            *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
