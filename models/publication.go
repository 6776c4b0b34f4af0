package models

import "time"

// Crossref deposit states recorded on the publication row. A failed deposit
// never blocks publication.
const (
	DepositPending   = "pending"
	DepositDeposited = "deposited"
	DepositFailed    = "failed"
)

type Publication struct {
	PublicationID    uint      `gorm:"primaryKey;column:publication_id" json:"publication_id"`
	SubmissionID     uint      `gorm:"column:submission_id;uniqueIndex" json:"submission_id"`
	DOI              *string   `gorm:"column:doi;unique" json:"doi,omitempty"`
	PublishedAt      time.Time `gorm:"column:published_at" json:"published_at"`
	Retracted        bool      `gorm:"column:retracted" json:"retracted"`
	RetractionNotice *string   `gorm:"column:retraction_notice;type:text" json:"retraction_notice,omitempty"`
	DepositStatus    string    `gorm:"column:deposit_status" json:"deposit_status"`
	CreateAt         time.Time `gorm:"column:create_at" json:"create_at"`

	// Relations
	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
}

func (Publication) TableName() string {
	return "publications"
}
