package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"journal-submission-api/models"
	"journal-submission-api/services"
)

// signedURLTTL bounds manuscript links handed to reviewers and authors.
const signedURLTTL = time.Hour

func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// UploadManuscript stores the manuscript file and attaches it to the
// submission. Owner-only; last write wins. Text extraction runs async and
// never blocks the response.
func UploadManuscript(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF manuscripts are accepted"})
		return
	}

	// Opaque storage key; the original name survives only for download
	// headers.
	originalName := filepath.Base(file.Filename)
	storedRel := filepath.Join("manuscripts", uuid.NewString()+".pdf")
	storedAbs := filepath.Join(uploadPath(), storedRel)

	if err := os.MkdirAll(filepath.Dir(storedAbs), os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	if err := c.SaveUploadedFile(file, storedAbs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	svc := submissionService()
	if err := svc.AttachFile(submissionID, userID, storedRel, originalName); err != nil {
		// The blob is orphaned on failure; the next successful upload
		// supersedes it.
		respondError(c, err)
		return
	}

	go services.ExtractManuscriptText(svc, submissionID, storedAbs)

	c.JSON(http.StatusOK, gin.H{"success": true, "file_path": storedRel})
}

// canAccessManuscript: the owning author, any editor, and assigned reviewers
// may fetch the file.
func canAccessManuscript(actor services.Actor, sub *models.Submission) bool {
	if sub.AuthorID == actor.UserID || actor.HasRole(models.RoleEditor) {
		return true
	}
	var count int64
	getDB().Model(&models.Review{}).
		Where("submission_id = ? AND reviewer_id = ?", sub.SubmissionID, actor.UserID).
		Count(&count)
	return count > 0
}

// DownloadManuscript streams the manuscript with its original filename.
func DownloadManuscript(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := currentActor(c)

	sub, err := submissionService().Get(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessManuscript(actor, sub) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	streamManuscript(c, sub)
}

// GetManuscriptSignedURL hands out a time-limited link usable without an
// Authorization header (PDF viewers cannot set one).
func GetManuscriptSignedURL(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := currentActor(c)

	sub, err := submissionService().Get(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessManuscript(actor, sub) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	if sub.FilePath == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No manuscript uploaded"})
		return
	}

	expiresAt := time.Now().Add(signedURLTTL)
	token, err := signFileToken(sub.SubmissionID, expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"url":        fmt.Sprintf("/api/v1/files/manuscript?token=%s", token),
		"expires_at": expiresAt,
	})
}

// DownloadSignedManuscript serves a manuscript from a signed token. Public
// route; the token is the whole authorization.
func DownloadSignedManuscript(c *gin.Context) {
	submissionID, err := verifyFileToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired link"})
		return
	}

	sub, err := submissionService().Get(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	streamManuscript(c, sub)
}

func streamManuscript(c *gin.Context, sub *models.Submission) {
	if sub.FilePath == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No manuscript uploaded"})
		return
	}

	fullPath := filepath.Join(uploadPath(), *sub.FilePath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	downloadName := "manuscript.pdf"
	if sub.FileName != nil && *sub.FileName != "" {
		downloadName = *sub.FileName
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	c.Header("Content-Type", "application/pdf")
	c.File(fullPath)
}

type fileClaims struct {
	SubmissionID uint `json:"submission_id"`
	jwt.RegisteredClaims
}

func signFileToken(submissionID uint, expiresAt time.Time) (string, error) {
	claims := fileClaims{
		SubmissionID: submissionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "manuscript-download",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func verifyFileToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &fileClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid file token: %w", err)
	}
	claims, ok := token.Claims.(*fileClaims)
	if !ok || claims.Subject != "manuscript-download" {
		return 0, fmt.Errorf("invalid file token claims")
	}
	return claims.SubmissionID, nil
}
