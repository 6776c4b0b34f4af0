package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-submission-api/models"
)

// reminderWindow is how far ahead of the deadline the sweep starts nagging.
// Already-overdue reviews are included.
const reminderWindow = 3 * 24 * time.Hour

type ReviewService struct {
	db       *gorm.DB
	notifier *Notifier
	settings *SettingsService
}

func NewReviewService(db *gorm.DB, notifier *Notifier) *ReviewService {
	return &ReviewService{db: db, notifier: notifier, settings: NewSettingsService(db)}
}

// Assign binds a reviewer to a submission. Editor-gated; the submission's own
// author can never be the reviewer, and the (submission, reviewer) unique
// index is the arbiter for duplicates; no check-then-insert here.
func (s *ReviewService) Assign(actor Actor, submissionID, reviewerID uint, deadline *time.Time) (*models.Review, error) {
	if !actor.HasRole(models.RoleEditor) {
		return nil, authorizationf("editor role required to assign reviewers")
	}

	var sub models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("submission %d", submissionID)
		}
		return nil, err
	}
	if sub.AuthorID == reviewerID {
		return nil, fmt.Errorf("%w: the submitting author cannot review their own manuscript", ErrConflictOfInterest)
	}

	var reviewer models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("reviewer %d", reviewerID)
		}
		return nil, err
	}

	if deadline == nil {
		settings, err := s.settings.Get()
		if err != nil {
			return nil, err
		}
		d := time.Now().AddDate(0, 0, settings.DefaultReviewDeadlineDays)
		deadline = &d
	}

	now := time.Now()
	review := models.Review{
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		Deadline:     deadline,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := s.db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: reviewer %d is already assigned to submission %d",
				ErrDuplicateAssignment, reviewerID, submissionID)
		}
		return nil, err
	}

	// First assignment advances submitted -> under_review; re-assignments are
	// a no-op on status. The WHERE clause makes that race-safe.
	if err := s.db.Model(&models.Submission{}).
		Where("submission_id = ? AND status = ?", submissionID, models.StatusSubmitted).
		Updates(map[string]interface{}{"status": models.StatusUnderReview, "update_at": now}).Error; err != nil {
		return nil, err
	}

	s.notifier.Notify(Event{
		UserID: reviewerID,
		Type:   models.NotifReviewerAssigned,
		Title:  "New Review Assignment",
		Message: fmt.Sprintf("You have been assigned to review %q. The review is due %s.",
			sub.Title, deadline.Format("2 January 2006")),
		Link:         "/dashboard/reviews",
		SubmissionID: submissionID,
	})

	return &review, nil
}

// Submit stores the review content. One-shot: a review that already carries a
// submitted_at timestamp rejects resubmission without touching the record.
func (s *ReviewService) Submit(reviewID, reviewerID uint, content string) error {
	var review models.Review
	if err := s.db.Where("review_id = ?", reviewID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("review %d", reviewID)
		}
		return err
	}
	if review.ReviewerID != reviewerID {
		return authorizationf("review %d is not assigned to user %d", reviewID, reviewerID)
	}
	if strings.TrimSpace(content) == "" {
		return validationf("review content is required")
	}
	if review.SubmittedAt != nil {
		return validationf("review %d was already submitted", reviewID)
	}

	now := time.Now()
	if err := s.db.Model(&models.Review{}).
		Where("review_id = ?", reviewID).
		Updates(map[string]interface{}{
			"content":      content,
			"submitted_at": now,
			"update_at":    now,
		}).Error; err != nil {
		return err
	}

	var sub models.Submission
	title := "a manuscript"
	if err := s.db.Select("submission_id", "title").
		Where("submission_id = ?", review.SubmissionID).
		First(&sub).Error; err == nil {
		title = fmt.Sprintf("%q", sub.Title)
	}

	s.notifier.NotifyEditors(Event{
		Type:         models.NotifReviewSubmitted,
		Title:        "Review Submitted",
		Message:      fmt.Sprintf("A review has been submitted for %s.", title),
		Link:         fmt.Sprintf("/dashboard/editor/submissions/%d", review.SubmissionID),
		SubmissionID: review.SubmissionID,
	})
	return nil
}

// ListForReviewer returns the reviewer's worklist, pending first.
func (s *ReviewService) ListForReviewer(reviewerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Preload("Submission").
		Where("reviewer_id = ?", reviewerID).
		Order("submitted_at IS NULL DESC, deadline ASC").
		Find(&reviews).Error
	return reviews, err
}

// ListForSubmission returns all reviews of a submission. Editor-gated: the
// full list includes reviewer identities.
func (s *ReviewService) ListForSubmission(actor Actor, submissionID uint) ([]models.Review, error) {
	if !actor.HasRole(models.RoleEditor) {
		return nil, authorizationf("editor role required to list reviews")
	}
	var reviews []models.Review
	err := s.db.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("create_at ASC").
		Find(&reviews).Error
	return reviews, err
}

// Get loads a single review with its submission.
func (s *ReviewService) Get(reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.Preload("Submission").
		Where("review_id = ?", reviewID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("review %d", reviewID)
		}
		return nil, err
	}
	return &review, nil
}

// SendReminders is the periodic sweep: one reminder per unsubmitted review
// whose deadline falls within the window (or already passed). It is stateless
// and idempotent-by-design; running it twice sends twice.
func (s *ReviewService) SendReminders(now time.Time) (int, error) {
	cutoff := now.Add(reminderWindow)

	var reviews []models.Review
	if err := s.db.Preload("Submission").
		Where("submitted_at IS NULL AND deadline IS NOT NULL AND deadline <= ?", cutoff).
		Find(&reviews).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, review := range reviews {
		title := "a manuscript"
		if review.Submission != nil {
			title = fmt.Sprintf("%q", review.Submission.Title)
		}
		urgency := "approaching its deadline"
		if review.Deadline.Before(now) {
			urgency = "overdue"
		}
		s.notifier.Notify(Event{
			UserID:       review.ReviewerID,
			Type:         models.NotifReviewReminder,
			Title:        "Review Reminder",
			Message:      fmt.Sprintf("Your review for %s is %s.", title, urgency),
			Link:         fmt.Sprintf("/dashboard/reviews/%d", review.ReviewID),
			SubmissionID: review.SubmissionID,
		})
		sent++
	}
	return sent, nil
}
