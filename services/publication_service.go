package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"journal-submission-api/models"
)

// doiNamespace is the journal's fixed namespace segment inside minted
// identifiers: {prefix}/asjsr.{year}.{seq}.
const doiNamespace = "asjsr"

// Depositor registers a minted identifier with the external registrar.
// Implementations must be safe to fail: the outcome is recorded on the
// publication row and never blocks publishing.
type Depositor interface {
	Deposit(meta DepositMeta, username, password string) error
}

type PublicationService struct {
	db        *gorm.DB
	notifier  *Notifier
	settings  *SettingsService
	depositor Depositor
	now       func() time.Time
	dispatch  func(func())
}

func NewPublicationService(db *gorm.DB, notifier *Notifier, depositor Depositor) *PublicationService {
	return &PublicationService{
		db:        db,
		notifier:  notifier,
		settings:  NewSettingsService(db),
		depositor: depositor,
		now:       time.Now,
		dispatch:  func(job func()) { go job() },
	}
}

// Publish converts an accepted submission into an identifier-bearing
// publication. The mint runs in a transaction holding a row lock on the
// journal settings singleton, which serializes concurrent sequence
// computation for the calendar year.
func (s *PublicationService) Publish(actor Actor, submissionID uint) (*models.Publication, error) {
	if !actor.HasRole(models.RoleEditor) {
		return nil, authorizationf("editor role required to publish")
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	var pub models.Publication
	var sub models.Submission

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The settings row doubles as the mint mutex.
		var locked models.JournalSettings
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("setting_id = ?", settings.SettingID).
			First(&locked).Error; err != nil {
			return err
		}

		if err := tx.Where("submission_id = ?", submissionID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("submission %d", submissionID)
			}
			return err
		}
		if sub.Status != models.StatusAccepted {
			return invalidStatef("only accepted submissions can be published (current: %s)", sub.Status)
		}

		now := s.now()
		yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		yearEnd := yearStart.AddDate(1, 0, 0)

		var count int64
		if err := tx.Model(&models.Publication{}).
			Where("published_at >= ? AND published_at < ?", yearStart, yearEnd).
			Count(&count).Error; err != nil {
			return err
		}

		doi := fmt.Sprintf("%s/%s.%d.%04d", locked.DOIPrefix, doiNamespace, now.Year(), count+1)
		pub = models.Publication{
			SubmissionID:  submissionID,
			DOI:           &doi,
			PublishedAt:   now,
			DepositStatus: models.DepositPending,
			CreateAt:      now,
		}
		if err := tx.Create(&pub).Error; err != nil {
			return err
		}

		return tx.Model(&models.Submission{}).
			Where("submission_id = ?", submissionID).
			Updates(map[string]interface{}{"status": models.StatusPublished, "update_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(Event{
		UserID:       sub.AuthorID,
		Type:         models.NotifPaperPublished,
		Title:        "Paper Published",
		Message:      fmt.Sprintf("Your paper %q has been published with DOI %s.", sub.Title, *pub.DOI),
		Link:         "/archive",
		SubmissionID: submissionID,
	})

	// The publication is committed; registration happens off the request
	// path and records its outcome on the row.
	s.dispatch(func() { s.depositToRegistrar(pub, sub, settings) })

	return &pub, nil
}

// depositToRegistrar attempts the external registration and records the
// outcome. Failures degrade to deposit_status=failed. Runs in a goroutine
// after publish; it takes copies so the caller's structs stay untouched.
func (s *PublicationService) depositToRegistrar(pub models.Publication, sub models.Submission, settings *models.JournalSettings) {
	if s.depositor == nil || settings.CrossrefUsername == nil || settings.CrossrefPassword == nil {
		return
	}

	var author models.User
	if err := s.db.Select("user_id", "full_name", "affiliation").
		Where("user_id = ?", sub.AuthorID).
		First(&author).Error; err != nil {
		log.Printf("crossref deposit skipped, author %d not found: %v", sub.AuthorID, err)
		return
	}

	meta := DepositMeta{
		DOI:               *pub.DOI,
		Title:             sub.Title,
		AuthorName:        author.FullName,
		AuthorAffiliation: author.Affiliation,
		CoAuthors:         sub.CoAuthors,
		PublishedAt:       pub.PublishedAt,
		JournalName:       settings.JournalName,
	}

	status := models.DepositDeposited
	if err := s.depositor.Deposit(meta, *settings.CrossrefUsername, *settings.CrossrefPassword); err != nil {
		log.Printf("crossref deposit failed (doi=%s): %v", *pub.DOI, err)
		status = models.DepositFailed
	}
	if err := s.db.Model(&models.Publication{}).
		Where("publication_id = ?", pub.PublicationID).
		Update("deposit_status", status).Error; err != nil {
		log.Printf("crossref deposit status update failed (doi=%s): %v", *pub.DOI, err)
	}
}

// Retract flags the publication with a retraction banner. The record stays
// publicly visible and the submission keeps its published status; there is no
// un-retract.
func (s *PublicationService) Retract(actor Actor, publicationID uint, notice string) error {
	if !actor.HasRole(models.RoleEditor) {
		return authorizationf("editor role required to retract")
	}

	var pub models.Publication
	if err := s.db.Where("publication_id = ?", publicationID).First(&pub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("publication %d", publicationID)
		}
		return err
	}

	return s.db.Model(&models.Publication{}).
		Where("publication_id = ?", publicationID).
		Updates(map[string]interface{}{
			"retracted":         true,
			"retraction_notice": notice,
		}).Error
}

// Archive lists publications newest first, retracted ones included (they
// carry the banner; they are not hidden).
func (s *PublicationService) Archive() ([]models.Publication, error) {
	var pubs []models.Publication
	err := s.db.Preload("Submission").Preload("Submission.Author").
		Order("published_at DESC").
		Find(&pubs).Error
	return pubs, err
}

// Get loads one publication with its submission.
func (s *PublicationService) Get(publicationID uint) (*models.Publication, error) {
	var pub models.Publication
	if err := s.db.Preload("Submission").Preload("Submission.Author").
		Where("publication_id = ?", publicationID).
		First(&pub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("publication %d", publicationID)
		}
		return nil, err
	}
	return &pub, nil
}
