package models

import "time"

// Review is a reviewer-to-submission binding. At most one review exists per
// (submission, reviewer) pair; the unique index is the arbiter under
// concurrent assignment.
type Review struct {
	ReviewID     uint       `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID uint       `gorm:"column:submission_id;uniqueIndex:idx_submission_reviewer" json:"submission_id"`
	ReviewerID   uint       `gorm:"column:reviewer_id;uniqueIndex:idx_submission_reviewer" json:"reviewer_id"`
	Content      *string    `gorm:"column:content;type:text" json:"content,omitempty"`
	Deadline     *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`

	// Relations
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
}

// Pending reports whether the review has not been submitted yet.
func (r *Review) Pending() bool {
	return r.SubmittedAt == nil
}

// Overdue is always derived; no independent state is stored for it.
func (r *Review) Overdue(now time.Time) bool {
	return r.SubmittedAt == nil && r.Deadline != nil && r.Deadline.Before(now)
}

func (Review) TableName() string {
	return "reviews"
}
