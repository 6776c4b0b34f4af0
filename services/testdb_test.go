package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"journal-submission-api/models"
)

// newTestDB opens a per-test in-memory database with the full schema and the
// role table seeded. cache=shared keeps the database alive across the pooled
// connections gorm opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Submission{},
		&models.Review{},
		&models.Decision{},
		&models.Publication{},
		&models.JournalSettings{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, roleName := range []string{models.RoleAuthor, models.RoleReviewer, models.RoleEditor} {
		if err := db.Create(&models.Role{Name: roleName}).Error; err != nil {
			t.Fatalf("failed to seed role %s: %v", roleName, err)
		}
	}
	return db
}

// newTestNotifier persists notification rows but never hits SMTP.
func newTestNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:       db,
		sendMail: func(to []string, subject, html string) error { return nil },
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, fullName string, roleNames ...string) *models.User {
	t.Helper()

	var roles []models.Role
	if len(roleNames) > 0 {
		if err := db.Where("name IN ?", roleNames).Find(&roles).Error; err != nil {
			t.Fatalf("failed to load roles: %v", err)
		}
		if len(roles) != len(roleNames) {
			t.Fatalf("unknown role in %v", roleNames)
		}
	}

	user := models.User{
		Email:       email,
		Password:    "hashed",
		FullName:    fullName,
		Affiliation: "Test University",
		Roles:       roles,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return &user
}

func actorFor(u *models.User) Actor {
	return Actor{UserID: u.UserID, Roles: u.RoleNames()}
}

func createTestSubmission(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Submission {
	t.Helper()

	svc := NewSubmissionService(db, newTestNotifier(db))
	sub, err := svc.Create(authorID, CreateSubmissionInput{
		Title:    title,
		Abstract: "An abstract for " + title,
		Keywords: []string{"testing"},
	})
	if err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}
	return sub
}

func forceStatus(t *testing.T, db *gorm.DB, submissionID uint, status models.SubmissionStatus) {
	t.Helper()

	err := db.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Update("status", status).Error
	if err != nil {
		t.Fatalf("failed to set submission %d status: %v", submissionID, err)
	}
}

func notificationsOfType(t *testing.T, db *gorm.DB, userID uint, notifType string) []models.Notification {
	t.Helper()

	var rows []models.Notification
	err := db.Where("user_id = ? AND type = ?", userID, notifType).Find(&rows).Error
	if err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	return rows
}
