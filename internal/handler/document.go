package handler

import (
	"DocVault/internal/dto"
	"DocVault/internal/service"
	"DocVault/utils"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Upload stores a PDF for the authenticated user. The blob is written
// before the catalog row; the reported size comes from storage, not from
// the client.
func Upload(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}
	if fileHeader.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty file"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer f.Close()

	doc, err := service.UploadDocument(c.Request.Context(), userID, fileHeader.Filename, f)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF allowed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, dto.NewDocumentResponse(doc))
}

// List returns the authenticated user's documents with optional search and
// sort query parameters.
func List(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)

	var req dto.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	docs, err := service.ListDocuments(c.Request.Context(), userID, req.Search, req.Sort)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, dto.NewDocumentList(docs))
}

// Download streams a document as an attachment. Not-owned and nonexistent
// ids are both reported as forbidden; only a missing blob behind an owned
// row is a 404.
func Download(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	docID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	doc, rc, size, err := service.DownloadDocument(c.Request.Context(), userID, docID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotVisible):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		case errors.Is(err, service.ErrBlobMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		}
		return
	}
	defer rc.Close()

	filename := utils.SanitizeHeaderFilename(doc.Filename)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Length", fmt.Sprintf("%d", size))

	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Println("download error:", err)
	}
}

// Delete removes a document and its blob. The same forbidden response
// covers both not-owned and nonexistent ids.
func Delete(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	docID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	if err := service.DeleteDocument(c.Request.Context(), userID, docID); err != nil {
		if errors.Is(err, service.ErrDocumentNotVisible) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
