package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-submission-api/models"
)

type SubmissionService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewSubmissionService(db *gorm.DB, notifier *Notifier) *SubmissionService {
	return &SubmissionService{db: db, notifier: notifier}
}

type CreateSubmissionInput struct {
	Title     string
	Abstract  string
	Keywords  []string
	CoAuthors []models.CoAuthor
}

// Create registers a new manuscript in state "submitted" and notifies the
// author.
func (s *SubmissionService) Create(authorID uint, in CreateSubmissionInput) (*models.Submission, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationf("title is required")
	}
	if strings.TrimSpace(in.Abstract) == "" {
		return nil, validationf("abstract is required")
	}

	now := time.Now()
	sub := models.Submission{
		Title:     strings.TrimSpace(in.Title),
		Abstract:  in.Abstract,
		Keywords:  in.Keywords,
		CoAuthors: in.CoAuthors,
		AuthorID:  authorID,
		Status:    models.StatusSubmitted,
		CreateAt:  now,
		UpdateAt:  now,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}

	s.notifier.Notify(Event{
		UserID:       authorID,
		Type:         models.NotifSubmissionReceived,
		Title:        "Submission Received",
		Message:      fmt.Sprintf("Your manuscript %q has been submitted.", sub.Title),
		Link:         fmt.Sprintf("/dashboard/submissions/%d", sub.SubmissionID),
		SubmissionID: sub.SubmissionID,
	})

	return &sub, nil
}

// AttachFile records the manuscript file reference. Owner-only; last write
// wins on file_path.
func (s *SubmissionService) AttachFile(submissionID, authorID uint, filePath, fileName string) error {
	sub, err := s.get(submissionID)
	if err != nil {
		return err
	}
	if sub.AuthorID != authorID {
		return authorizationf("only the submitting author may attach the manuscript")
	}

	return s.db.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]interface{}{
			"file_path": filePath,
			"file_name": fileName,
			"update_at": time.Now(),
		}).Error
}

// Withdraw moves any non-terminal submission (except published) to withdrawn
// and notifies all editors. Owner-only.
func (s *SubmissionService) Withdraw(submissionID, requesterID uint) error {
	sub, err := s.get(submissionID)
	if err != nil {
		return err
	}
	if sub.AuthorID != requesterID {
		return authorizationf("only the submitting author may withdraw")
	}
	if sub.Status == models.StatusPublished || sub.Status == models.StatusWithdrawn {
		return invalidStatef("cannot withdraw a %s submission", sub.Status)
	}

	if err := s.transition(submissionID, models.StatusWithdrawn); err != nil {
		return err
	}

	s.notifier.NotifyEditors(Event{
		Type:         models.NotifSubmissionWithdrawn,
		Title:        "Submission Withdrawn",
		Message:      fmt.Sprintf("%q has been withdrawn by its author.", sub.Title),
		Link:         fmt.Sprintf("/dashboard/editor/submissions/%d", submissionID),
		SubmissionID: submissionID,
	})
	return nil
}

// ReopenReview moves a revision_requested submission back under review. This
// is the editor-controlled re-entry path after a revision round.
func (s *SubmissionService) ReopenReview(actor Actor, submissionID uint) error {
	if !actor.HasRole(models.RoleEditor) {
		return authorizationf("editor role required to reopen review")
	}
	sub, err := s.get(submissionID)
	if err != nil {
		return err
	}
	if sub.Status != models.StatusRevisionRequested {
		return invalidStatef("only revision_requested submissions can re-enter review (current: %s)", sub.Status)
	}
	return s.transition(submissionID, models.StatusUnderReview)
}

// Get loads a submission with its author; ownership filtering is the
// caller's concern.
func (s *SubmissionService) Get(submissionID uint) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.Preload("Author").Preload("Publication").
		Where("submission_id = ?", submissionID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("submission %d", submissionID)
		}
		return nil, err
	}
	return &sub, nil
}

// ListForAuthor returns the author's own submissions, newest first.
func (s *SubmissionService) ListForAuthor(authorID uint) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("author_id = ?", authorID).
		Order("create_at DESC").
		Find(&subs).Error
	return subs, err
}

// ListAll returns every submission, newest first. Editor-gated.
func (s *SubmissionService) ListAll(actor Actor, status models.SubmissionStatus) ([]models.Submission, error) {
	if !actor.HasRole(models.RoleEditor) {
		return nil, authorizationf("editor role required to list all submissions")
	}
	query := s.db.Preload("Author").Order("create_at DESC")
	if status != "" {
		if !status.Valid() {
			return nil, validationf("unknown status filter %q", status)
		}
		query = query.Where("status = ?", status)
	}
	var subs []models.Submission
	err := query.Find(&subs).Error
	return subs, err
}

// SetExtractedText stores best-effort extracted full text. It deliberately
// ignores lifecycle state: extraction must never block progress.
func (s *SubmissionService) SetExtractedText(submissionID uint, text string) error {
	return s.db.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Update("extracted_text", text).Error
}

func (s *SubmissionService) get(submissionID uint) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("submission %d", submissionID)
		}
		return nil, err
	}
	return &sub, nil
}

func (s *SubmissionService) transition(submissionID uint, to models.SubmissionStatus) error {
	return s.db.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]interface{}{"status": to, "update_at": time.Now()}).Error
}
