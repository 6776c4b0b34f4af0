package controllers

import (
	"testing"
	"time"

	"journal-submission-api/models"
	"journal-submission-api/services"
)

func TestFileTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := signFileToken(42, time.Now().Add(signedURLTTL))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	id, err := verifyFileToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected submission 42, got %d", id)
	}
}

func TestFileTokenExpiryAndTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := signFileToken(42, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := verifyFileToken(expired); err == nil {
		t.Fatalf("expired token must be rejected")
	}

	token, err := signFileToken(42, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	t.Setenv("JWT_SECRET", "different-secret")
	if _, err := verifyFileToken(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestCanAccessManuscript(t *testing.T) {
	db := setupControllerTest(t)

	author := models.User{Email: "author@example.com", Password: "x", FullName: "Ada Lovelace"}
	reviewer := models.User{Email: "rev@example.com", Password: "x", FullName: "Alan Turing"}
	stranger := models.User{Email: "other@example.com", Password: "x", FullName: "Mallory"}
	for _, u := range []*models.User{&author, &reviewer, &stranger} {
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
	review := models.Review{
		SubmissionID: sub.SubmissionID,
		ReviewerID:   reviewer.UserID,
		CreateAt:     time.Now(),
		UpdateAt:     time.Now(),
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	cases := []struct {
		name  string
		actor services.Actor
		want  bool
	}{
		{"owner", services.Actor{UserID: author.UserID, Roles: []string{models.RoleAuthor}}, true},
		{"editor", services.Actor{UserID: stranger.UserID, Roles: []string{models.RoleEditor}}, true},
		{"assigned reviewer", services.Actor{UserID: reviewer.UserID, Roles: []string{models.RoleReviewer}}, true},
		{"unassigned user", services.Actor{UserID: stranger.UserID, Roles: []string{models.RoleReviewer}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canAccessManuscript(tc.actor, &sub); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
