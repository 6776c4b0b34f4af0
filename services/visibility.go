package services

import (
	"time"

	"journal-submission-api/models"
)

// SubmissionView is what a reviewer is allowed to see of a submission.
// Under double blind the author-identifying fields stay empty.
type SubmissionView struct {
	SubmissionID      uint                    `json:"submission_id"`
	Title             string                  `json:"title"`
	Abstract          string                  `json:"abstract"`
	Keywords          []string                `json:"keywords"`
	Status            models.SubmissionStatus `json:"status"`
	StatusDisplay     string                  `json:"status_display"`
	FilePath          *string                 `json:"file_path,omitempty"`
	FileName          *string                 `json:"file_name,omitempty"`
	CreateAt          time.Time               `json:"create_at"`
	AuthorName        string                  `json:"author_name,omitempty"`
	AuthorAffiliation string                  `json:"author_affiliation,omitempty"`
	CoAuthors         []models.CoAuthor       `json:"co_authors,omitempty"`
}

// ReviewerSubmissionView filters the submission for a reviewer-facing render.
// Pure function of the settings' review type: double blind strips the
// author's name, affiliation, and co-author list; the manuscript itself stays
// visible.
func ReviewerSubmissionView(sub *models.Submission, settings *models.JournalSettings) SubmissionView {
	view := SubmissionView{
		SubmissionID:  sub.SubmissionID,
		Title:         sub.Title,
		Abstract:      sub.Abstract,
		Keywords:      sub.Keywords,
		Status:        sub.Status,
		StatusDisplay: sub.Status.Display(),
		FilePath:      sub.FilePath,
		FileName:      sub.FileName,
		CreateAt:      sub.CreateAt,
	}
	if settings.DoubleBlind() {
		return view
	}
	if sub.Author != nil {
		view.AuthorName = sub.Author.FullName
		view.AuthorAffiliation = sub.Author.Affiliation
	}
	view.CoAuthors = sub.CoAuthors
	return view
}

// ReviewView is a review as shown to the submitting author. Reviewer identity
// is never exposed to authors, in either blindness mode; this asymmetry is
// fixed policy, not configuration.
type ReviewView struct {
	ReviewID    uint       `json:"review_id"`
	Content     *string    `json:"content,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// AuthorReviewViews filters submitted reviews for the author's eyes: content
// only, no reviewer references, pending reviews omitted.
func AuthorReviewViews(reviews []models.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		if r.SubmittedAt == nil {
			continue
		}
		views = append(views, ReviewView{
			ReviewID:    r.ReviewID,
			Content:     r.Content,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return views
}
