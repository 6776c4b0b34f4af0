package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SubmissionStatus is the manuscript lifecycle state. Values are stored
// verbatim; transitions happen only through the workflow services.
type SubmissionStatus string

const (
	StatusSubmitted         SubmissionStatus = "submitted"
	StatusUnderReview       SubmissionStatus = "under_review"
	StatusRevisionRequested SubmissionStatus = "revision_requested"
	StatusAccepted          SubmissionStatus = "accepted"
	StatusRejected          SubmissionStatus = "rejected"
	StatusWithdrawn         SubmissionStatus = "withdrawn"
	StatusPublished         SubmissionStatus = "published"
)

var statusDisplay = map[SubmissionStatus]string{
	StatusSubmitted:         "Submitted",
	StatusUnderReview:       "Under Review",
	StatusRevisionRequested: "Revision Requested",
	StatusAccepted:          "Accepted",
	StatusRejected:          "Rejected",
	StatusWithdrawn:         "Withdrawn",
	StatusPublished:         "Published",
}

func (s SubmissionStatus) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

// Terminal reports whether the lifecycle ends here. Rejected is terminal:
// resubmission requires a new submission.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusPublished || s == StatusWithdrawn || s == StatusRejected
}

// Display returns the human-readable status label. An unknown status is a
// programming error, not a runtime case.
func (s SubmissionStatus) Display() string {
	label, ok := statusDisplay[s]
	if !ok {
		panic(fmt.Sprintf("unknown submission status %q", string(s)))
	}
	return label
}

// CoAuthor is a name/affiliation pair with no referential identity.
type CoAuthor struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
}

// CoAuthorList is stored as a JSON column.
type CoAuthorList []CoAuthor

func (l CoAuthorList) Value() (driver.Value, error) {
	if l == nil {
		l = CoAuthorList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CoAuthorList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// StringList is stored as a JSON column (used for keywords).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T for JSON scan", value)
	}
}

type Submission struct {
	SubmissionID  uint             `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	Title         string           `gorm:"column:title" json:"title"`
	Abstract      string           `gorm:"column:abstract;type:text" json:"abstract"`
	Keywords      StringList       `gorm:"column:keywords;type:text" json:"keywords"`
	CoAuthors     CoAuthorList     `gorm:"column:co_authors;type:text" json:"co_authors"`
	AuthorID      uint             `gorm:"column:author_id" json:"author_id"`
	FilePath      *string          `gorm:"column:file_path" json:"file_path,omitempty"`
	FileName      *string          `gorm:"column:file_name" json:"file_name,omitempty"`
	ExtractedText *string          `gorm:"column:extracted_text;type:longtext" json:"-"`
	Status        SubmissionStatus `gorm:"column:status" json:"status"`
	CreateAt      time.Time        `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time        `gorm:"column:update_at" json:"update_at"`

	// Relations
	Author      *User        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Reviews     []Review     `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`
	Decisions   []Decision   `gorm:"foreignKey:SubmissionID" json:"decisions,omitempty"`
	Publication *Publication `gorm:"foreignKey:SubmissionID" json:"publication,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
