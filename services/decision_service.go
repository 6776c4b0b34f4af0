package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"journal-submission-api/models"
)

type DecisionService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewDecisionService(db *gorm.DB, notifier *Notifier) *DecisionService {
	return &DecisionService{db: db, notifier: notifier}
}

// Issue appends an immutable decision record and drives the submission to the
// mapped status. Editor-gated. Decisions are accepted in any non-terminal
// state; terminal submissions reject further decisions.
func (s *DecisionService) Issue(actor Actor, submissionID uint, decision models.DecisionType, notes string) (*models.Decision, error) {
	if !actor.HasRole(models.RoleEditor) {
		return nil, authorizationf("editor role required to issue decisions")
	}

	status, ok := decision.Status()
	if !ok {
		return nil, validationf("unknown decision %q", decision)
	}

	var sub models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("submission %d", submissionID)
		}
		return nil, err
	}
	if sub.Status.Terminal() {
		return nil, invalidStatef("cannot issue a decision on a %s submission", sub.Status)
	}

	now := time.Now()
	record := models.Decision{
		SubmissionID: submissionID,
		EditorID:     actor.UserID,
		Decision:     decision,
		Notes:        notes,
		CreateAt:     now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&models.Submission{}).
			Where("submission_id = ?", submissionID).
			Updates(map[string]interface{}{"status": status, "update_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your manuscript %q has received the decision: %s.", sub.Title, decision)
	if notes != "" {
		message = fmt.Sprintf("%s Editor notes: %s", message, notes)
	}
	s.notifier.Notify(Event{
		UserID:       sub.AuthorID,
		Type:         models.NotifDecisionMade,
		Title:        "Decision on Your Submission",
		Message:      message,
		Link:         fmt.Sprintf("/dashboard/submissions/%d", submissionID),
		SubmissionID: submissionID,
	})

	return &record, nil
}

// History returns the append-only decision trail, oldest first.
func (s *DecisionService) History(actor Actor, submissionID uint) ([]models.Decision, error) {
	if !actor.HasRole(models.RoleEditor) {
		return nil, authorizationf("editor role required to view decision history")
	}
	var decisions []models.Decision
	err := s.db.Preload("Editor").
		Where("submission_id = ?", submissionID).
		Order("create_at ASC").
		Find(&decisions).Error
	return decisions, err
}
