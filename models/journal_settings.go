package models

import "time"

// Review blindness modes. Reviewer identity is never shown to authors in
// either mode; the mode only controls what reviewers see.
const (
	ReviewSingleBlind = "single_blind"
	ReviewDoubleBlind = "double_blind"
)

// JournalSettings is a singleton configuration row, read through
// services.GetSettings and mutated only by editors.
type JournalSettings struct {
	SettingID                 uint       `gorm:"primaryKey;column:setting_id" json:"setting_id"`
	JournalName               string     `gorm:"column:journal_name" json:"journal_name"`
	ReviewType                string     `gorm:"column:review_type" json:"review_type"`
	DefaultReviewDeadlineDays int        `gorm:"column:default_review_deadline_days" json:"default_review_deadline_days"`
	DOIPrefix                 string     `gorm:"column:doi_prefix" json:"doi_prefix"`
	CrossrefUsername          *string    `gorm:"column:crossref_username" json:"-"`
	CrossrefPassword          *string    `gorm:"column:crossref_password" json:"-"`
	CreateAt                  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt                  *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (JournalSettings) TableName() string {
	return "journal_settings"
}

// DoubleBlind reports whether author identity must be masked from reviewers.
func (s *JournalSettings) DoubleBlind() bool {
	return s.ReviewType == ReviewDoubleBlind
}
