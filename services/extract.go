package services

import (
	"bytes"
	"log"
	"os/exec"
)

// pdftotextBin is the poppler binary used for full-text extraction.
// Overridable in tests.
var pdftotextBin = "pdftotext"

// ExtractManuscriptText pulls plain text out of an uploaded manuscript and
// stores it on the submission. Extraction is best-effort: every failure is
// logged and swallowed, and lifecycle progress never waits on it. Intended to
// run in a goroutine after a successful upload.
func ExtractManuscriptText(subs *SubmissionService, submissionID uint, filePath string) {
	cmd := exec.Command(pdftotextBin, filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		log.Printf("full-text extraction failed (submission=%d file=%s): %v", submissionID, filePath, err)
		return
	}

	text := out.String()
	if text == "" {
		return
	}
	if err := subs.SetExtractedText(submissionID, text); err != nil {
		log.Printf("full-text store failed (submission=%d): %v", submissionID, err)
	}
}
