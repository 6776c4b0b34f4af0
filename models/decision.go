package models

import "time"

type DecisionType string

const (
	DecisionAccept DecisionType = "accept"
	DecisionReject DecisionType = "reject"
	DecisionRevise DecisionType = "revise"
)

// Status maps a decision to the submission status it drives.
func (d DecisionType) Status() (SubmissionStatus, bool) {
	switch d {
	case DecisionAccept:
		return StatusAccepted, true
	case DecisionReject:
		return StatusRejected, true
	case DecisionRevise:
		return StatusRevisionRequested, true
	default:
		return "", false
	}
}

// Decision is immutable once created; decisions form an append-only history
// and only the latest one drives the current submission status.
type Decision struct {
	DecisionID   uint         `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	SubmissionID uint         `gorm:"column:submission_id" json:"submission_id"`
	EditorID     uint         `gorm:"column:editor_id" json:"editor_id"`
	Decision     DecisionType `gorm:"column:decision" json:"decision"`
	Notes        string       `gorm:"column:notes;type:text" json:"notes"`
	CreateAt     time.Time    `gorm:"column:create_at" json:"create_at"`

	// Relations
	Editor *User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}

func (Decision) TableName() string {
	return "decisions"
}
