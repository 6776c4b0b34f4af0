package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"journal-submission-api/models"
)

func reminderFixture(t *testing.T) {
	t.Helper()
	db := setupControllerTest(t)

	author := models.User{Email: "author@example.com", Password: "x", FullName: "Ada Lovelace"}
	reviewer := models.User{Email: "rev@example.com", Password: "x", FullName: "Alan Turing"}
	for _, u := range []*models.User{&author, &reviewer} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	sub := models.Submission{
		Title:    "Manuscript",
		Abstract: "Abstract",
		AuthorID: author.UserID,
		Status:   models.StatusUnderReview,
		CreateAt: time.Now(),
		UpdateAt: time.Now(),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}

	deadline := time.Now().AddDate(0, 0, -1)
	review := models.Review{
		SubmissionID: sub.SubmissionID,
		ReviewerID:   reviewer.UserID,
		Deadline:     &deadline,
		CreateAt:     time.Now(),
		UpdateAt:     time.Now(),
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
}

func runCron(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.POST("/api/v1/cron/review-reminders", RunReviewReminders)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/review-reminders", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRunReviewRemindersRequiresSecret(t *testing.T) {
	reminderFixture(t)
	t.Setenv("CRON_SECRET", "sweep-secret")

	if w := runCron(t, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", w.Code)
	}
	if w := runCron(t, "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: expected 401, got %d", w.Code)
	}
}

func TestRunReviewRemindersRejectedWhenUnconfigured(t *testing.T) {
	reminderFixture(t)
	t.Setenv("CRON_SECRET", "")

	if w := runCron(t, "Bearer anything"); w.Code != http.StatusUnauthorized {
		t.Fatalf("unset secret must reject all callers, got %d", w.Code)
	}
}

func TestRunReviewRemindersReportsCount(t *testing.T) {
	reminderFixture(t)
	t.Setenv("CRON_SECRET", "sweep-secret")

	w := runCron(t, "Bearer sweep-secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success       bool `json:"success"`
		RemindersSent int  `json:"reminders_sent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !body.Success || body.RemindersSent != 1 {
		t.Fatalf("expected 1 reminder sent, got %+v", body)
	}
}
