package controllers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"journal-submission-api/config"
	"journal-submission-api/models"
)

// setupControllerTest points the package-wide handle at a fresh in-memory
// database and returns it.
func setupControllerTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}
