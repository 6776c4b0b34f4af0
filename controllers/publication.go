package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type retractRequest struct {
	Notice string `json:"notice" binding:"required"`
}

// PublishSubmission mints an identifier for an accepted submission and
// releases it to the public archive.
func PublishSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor, _ := currentActor(c)
	pub, err := publicationService().Publish(actor, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "publication": pub, "doi": pub.DOI})
}

// RetractPublication flags a publication with a retraction banner. The record
// stays visible.
func RetractPublication(c *gin.Context) {
	publicationID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req retractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := currentActor(c)
	if err := publicationService().Retract(actor, publicationID, req.Notice); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Publication retracted"})
}

// GetArchive lists publications, newest first. Public.
func GetArchive(c *gin.Context) {
	pubs, err := publicationService().Archive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch archive"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "publications": pubs, "total": len(pubs)})
}

// GetPublication returns one archive entry. Public.
func GetPublication(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	pub, err := publicationService().Get(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "publication": pub})
}

// SearchPublications runs the public archive search. Failures degrade to an
// empty result set rather than an error page.
func SearchPublications(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	results, total, err := searchService().Search(query, limit, offset)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "results": []interface{}{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results, "total": total})
}
