package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"journal-submission-api/models"
)

func seedSearchable(t *testing.T, db *gorm.DB, authorID uint, doi, title, abstract string, keywords []string, fullText string) *models.Publication {
	t.Helper()

	svc := NewSubmissionService(db, newTestNotifier(db))
	sub, err := svc.Create(authorID, CreateSubmissionInput{
		Title:    title,
		Abstract: abstract,
		Keywords: keywords,
	})
	if err != nil {
		t.Fatalf("failed to create submission %q: %v", title, err)
	}
	if fullText != "" {
		if err := svc.SetExtractedText(sub.SubmissionID, fullText); err != nil {
			t.Fatalf("failed to set extracted text: %v", err)
		}
	}
	forceStatus(t, db, sub.SubmissionID, models.StatusPublished)

	pub := models.Publication{
		SubmissionID:  sub.SubmissionID,
		DOI:           &doi,
		PublishedAt:   time.Now(),
		DepositStatus: models.DepositDeposited,
		CreateAt:      time.Now(),
	}
	if err := db.Create(&pub).Error; err != nil {
		t.Fatalf("failed to publish %q: %v", title, err)
	}
	return &pub
}

func TestSearchExcludesRetracted(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)

	seedSearchable(t, db, author.UserID, "10.5555/a", "Raft Refloated", "Consensus revisited.", []string{"raft"}, "")
	retracted := seedSearchable(t, db, author.UserID, "10.5555/b", "Raft Considered Harmful", "A retracted take.", []string{"raft"}, "")
	if err := db.Model(&models.Publication{}).
		Where("publication_id = ?", retracted.PublicationID).
		Update("retracted", true).Error; err != nil {
		t.Fatalf("failed to retract: %v", err)
	}

	svc := NewSearchService(db)
	results, total, err := svc.Search("raft", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("expected 1 result, got %d (total %d)", len(results), total)
	}
	if results[0].Title != "Raft Refloated" {
		t.Fatalf("retracted publication surfaced: %q", results[0].Title)
	}
}

func TestSearchRanksTitleAboveAbstractAndFullText(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)

	seedSearchable(t, db, author.UserID, "10.5555/title", "Byzantine Fault Tolerance", "A survey.", nil, "")
	seedSearchable(t, db, author.UserID, "10.5555/abs", "A Survey of Replication", "We cover byzantine protocols.", nil, "")
	seedSearchable(t, db, author.UserID, "10.5555/full", "Log Replication Notes", "Notes.", nil, "appendix on byzantine generals")

	svc := NewSearchService(db)
	results, total, err := svc.Search("byzantine", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 matches, got %d", total)
	}
	if results[0].Title != "Byzantine Fault Tolerance" {
		t.Fatalf("title match must rank first, got %q", results[0].Title)
	}
	if results[2].Title != "Log Replication Notes" {
		t.Fatalf("full-text-only match must rank last, got %q", results[2].Title)
	}
	if results[0].Rank <= results[1].Rank || results[1].Rank <= results[2].Rank {
		t.Fatalf("ranks must strictly decrease: %v %v %v", results[0].Rank, results[1].Rank, results[2].Rank)
	}
}

func TestSearchHeadlineHighlightsMatch(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)

	seedSearchable(t, db, author.UserID, "10.5555/h", "Gossip Protocols",
		"Epidemic dissemination spreads updates through random peer exchange.", nil, "")

	svc := NewSearchService(db)
	results, _, err := svc.Search("epidemic", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !strings.Contains(results[0].Headline, "<mark>") {
		t.Fatalf("headline must highlight the matched term: %q", results[0].Headline)
	}
}

func TestSearchHeadlineSurvivesCaseFoldingLengthChanges(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)

	// U+023A lowercases to U+2C65 and grows from 2 to 3 bytes, U+0130
	// shrinks; byte offsets found in the lowered text do not line up with
	// the original.
	growing := strings.Repeat("Ⱥ", 120) + " consensus emerges late"
	shrinking := strings.Repeat("İ", 120) + " consensus emerges late"
	seedSearchable(t, db, author.UserID, "10.5555/grow", "Growing Runes", growing, nil, "")
	seedSearchable(t, db, author.UserID, "10.5555/shrink", "Shrinking Runes", shrinking, nil, "")

	svc := NewSearchService(db)
	results, total, err := svc.Search("consensus", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected both publications to match, got %d", total)
	}
	for _, r := range results {
		if !strings.Contains(r.Headline, "<mark>consensus</mark>") {
			t.Errorf("%s: headline must mark the matched term: %q", r.Title, r.Headline)
		}
		if !utf8.ValidString(r.Headline) {
			t.Errorf("%s: headline is not valid UTF-8: %q", r.Title, r.Headline)
		}
	}
}

func TestSearchPagination(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada Lovelace", models.RoleAuthor)

	seedSearchable(t, db, author.UserID, "10.5555/p1", "Caching One", "caching", nil, "")
	seedSearchable(t, db, author.UserID, "10.5555/p2", "Caching Two", "caching", nil, "")
	seedSearchable(t, db, author.UserID, "10.5555/p3", "Caching Three", "caching", nil, "")

	svc := NewSearchService(db)
	page, total, err := svc.Search("caching", 2, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("expected page of 2 from 3, got %d of %d", len(page), total)
	}
	rest, total, err := svc.Search("caching", 2, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 3 || len(rest) != 1 {
		t.Fatalf("expected final page of 1, got %d of %d", len(rest), total)
	}
	beyond, _, err := svc.Search("caching", 2, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(beyond) != 0 {
		t.Fatalf("offset past the end must return empty, got %d", len(beyond))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	db := newTestDB(t)
	svc := NewSearchService(db)

	results, total, err := svc.Search("   ", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 0 || len(results) != 0 {
		t.Fatalf("blank query must return nothing, got %d", len(results))
	}
}
