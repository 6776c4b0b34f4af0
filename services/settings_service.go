package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-submission-api/models"
)

// Defaults applied when the singleton settings row does not exist yet.
const (
	defaultJournalName    = "Journal of Systems Research"
	defaultDeadlineDays   = 21
	defaultDOIPrefix      = "10.XXXXX"
	defaultReviewBlinding = models.ReviewDoubleBlind
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the singleton settings row, creating it with defaults on first
// access.
func (s *SettingsService) Get() (*models.JournalSettings, error) {
	var settings models.JournalSettings
	err := s.db.Order("setting_id ASC").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		settings = models.JournalSettings{
			JournalName:               defaultJournalName,
			ReviewType:                defaultReviewBlinding,
			DefaultReviewDeadlineDays: defaultDeadlineDays,
			DOIPrefix:                 defaultDOIPrefix,
			CreateAt:                  &now,
			UpdateAt:                  &now,
		}
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

type UpdateSettingsInput struct {
	JournalName               string
	ReviewType                string
	DefaultReviewDeadlineDays int
	DOIPrefix                 string
	CrossrefUsername          *string
	CrossrefPassword          *string
}

// Update rewrites the singleton row. Editor-gated.
func (s *SettingsService) Update(actor Actor, in UpdateSettingsInput) (*models.JournalSettings, error) {
	if !actor.HasRole(models.RoleEditor) {
		return nil, authorizationf("editor role required to update journal settings")
	}
	if strings.TrimSpace(in.JournalName) == "" {
		return nil, validationf("journal name is required")
	}
	if in.ReviewType != models.ReviewSingleBlind && in.ReviewType != models.ReviewDoubleBlind {
		return nil, validationf("review type must be %s or %s", models.ReviewSingleBlind, models.ReviewDoubleBlind)
	}
	if in.DefaultReviewDeadlineDays <= 0 {
		return nil, validationf("default review deadline must be positive")
	}
	if strings.TrimSpace(in.DOIPrefix) == "" {
		return nil, validationf("doi prefix is required")
	}

	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	settings.JournalName = strings.TrimSpace(in.JournalName)
	settings.ReviewType = in.ReviewType
	settings.DefaultReviewDeadlineDays = in.DefaultReviewDeadlineDays
	settings.DOIPrefix = strings.TrimSpace(in.DOIPrefix)
	settings.CrossrefUsername = in.CrossrefUsername
	settings.CrossrefPassword = in.CrossrefPassword
	settings.UpdateAt = &now

	if err := s.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
