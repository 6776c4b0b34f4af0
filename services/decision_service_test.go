package services

import (
	"errors"
	"testing"
	"time"

	"journal-submission-api/models"
)

func TestIssueDecisionRequiresEditor(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)
	svc := NewDecisionService(db, newTestNotifier(db))
	sub := createTestSubmission(t, db, author.UserID, "Manuscript")

	_, err := svc.Issue(actorFor(author), sub.SubmissionID, models.DecisionAccept, "")
	if !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestIssueDecisionDrivesStatus(t *testing.T) {
	cases := []struct {
		decision models.DecisionType
		want     models.SubmissionStatus
	}{
		{models.DecisionAccept, models.StatusAccepted},
		{models.DecisionReject, models.StatusRejected},
		{models.DecisionRevise, models.StatusRevisionRequested},
	}

	for _, tc := range cases {
		t.Run(string(tc.decision), func(t *testing.T) {
			db := newTestDB(t)
			author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)
			editor := createTestUser(t, db, "editor@example.com", "Edsger Dijkstra", models.RoleEditor)
			svc := NewDecisionService(db, newTestNotifier(db))
			sub := createTestSubmission(t, db, author.UserID, "Manuscript")
			forceStatus(t, db, sub.SubmissionID, models.StatusUnderReview)

			record, err := svc.Issue(actorFor(editor), sub.SubmissionID, tc.decision, "See attached comments.")
			if err != nil {
				t.Fatalf("issue failed: %v", err)
			}
			if record.EditorID != editor.UserID {
				t.Fatalf("decision must record the issuing editor")
			}

			var got models.Submission
			db.Where("submission_id = ?", sub.SubmissionID).First(&got)
			if got.Status != tc.want {
				t.Fatalf("decision %s: expected status %s, got %s", tc.decision, tc.want, got.Status)
			}

			rows := notificationsOfType(t, db, author.UserID, models.NotifDecisionMade)
			if len(rows) != 1 {
				t.Fatalf("expected 1 decision notification for the author, got %d", len(rows))
			}
		})
	}
}

func TestIssueDecisionRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)
	editor := createTestUser(t, db, "editor@example.com", "Edsger Dijkstra", models.RoleEditor)
	svc := NewDecisionService(db, newTestNotifier(db))
	sub := createTestSubmission(t, db, author.UserID, "Manuscript")

	_, err := svc.Issue(actorFor(editor), sub.SubmissionID, "maybe", "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIssueDecisionBlockedOnTerminalStates(t *testing.T) {
	for _, status := range []models.SubmissionStatus{
		models.StatusPublished, models.StatusWithdrawn, models.StatusRejected,
	} {
		t.Run(string(status), func(t *testing.T) {
			db := newTestDB(t)
			author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)
			editor := createTestUser(t, db, "editor@example.com", "Edsger Dijkstra", models.RoleEditor)
			svc := NewDecisionService(db, newTestNotifier(db))
			sub := createTestSubmission(t, db, author.UserID, "Manuscript")
			forceStatus(t, db, sub.SubmissionID, status)

			_, err := svc.Issue(actorFor(editor), sub.SubmissionID, models.DecisionAccept, "")
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("decision on %s submission: expected invalid state error, got %v", status, err)
			}
		})
	}
}

func TestDecisionHistoryIsAppendOnly(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)
	editor := createTestUser(t, db, "editor@example.com", "Edsger Dijkstra", models.RoleEditor)
	svc := NewDecisionService(db, newTestNotifier(db))
	sub := createTestSubmission(t, db, author.UserID, "Manuscript")
	forceStatus(t, db, sub.SubmissionID, models.StatusUnderReview)

	first, err := svc.Issue(actorFor(editor), sub.SubmissionID, models.DecisionRevise, "Round one.")
	if err != nil {
		t.Fatalf("first decision failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Issue(actorFor(editor), sub.SubmissionID, models.DecisionAccept, "Round two."); err != nil {
		t.Fatalf("second decision failed: %v", err)
	}

	history, err := svc.History(actorFor(editor), sub.SubmissionID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 decisions in history, got %d", len(history))
	}
	if history[0].Decision != models.DecisionRevise || history[0].Notes != "Round one." {
		t.Fatalf("earlier decision was altered: %+v", history[0])
	}
	if history[0].DecisionID != first.DecisionID {
		t.Fatalf("history must be ordered oldest first")
	}

	var got models.Submission
	db.Where("submission_id = ?", sub.SubmissionID).First(&got)
	if got.Status != models.StatusAccepted {
		t.Fatalf("latest decision drives status, got %s", got.Status)
	}

	if _, err := svc.History(actorFor(author), sub.SubmissionID); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("history is editor-gated, got %v", err)
	}
}
