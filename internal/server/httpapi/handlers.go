package httpapi

import (
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const octetStream = "application/octet-stream"

// Handler serves the blob and file routes. Failures are logged by AccessLog.
type Handler struct {
	svc BlobService
	now func() time.Time
}

// Upload stores the raw request body as a new blob. An empty body yields a
// zero-byte blob.
func (h *Handler) Upload(c *gin.Context) {
	if ct := c.ContentType(); ct != "" && ct != octetStream {
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": "expected " + octetStream})
		return
	}

	key, err := h.svc.Ingest(c.Request.Context(), c.Request.Body, ownerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploadResponse{Key: key})
}

// Claim turns a completed upload of the caller into a named file.
func (h *Handler) Claim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.svc.Claim(c.Request.Context(), req.BlobKey, ownerFrom(c), req.FileName, h.now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toFileResponse(file))
}

// Download streams a claimed file as an attachment.
func (h *Handler) Download(c *gin.Context) {
	file, body, size, err := h.svc.Open(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer body.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.Name})
	if disposition == "" {
		disposition = "attachment"
	}
	if c.Request.Method == http.MethodHead {
		c.Header("Content-Type", octetStream)
		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Header("Content-Disposition", disposition)
		c.Status(http.StatusOK)
		return
	}

	c.DataFromReader(http.StatusOK, size, octetStream, body, map[string]string{
		"Content-Disposition": disposition,
	})
}

func (h *Handler) ListFiles(c *gin.Context) {
	files, err := h.svc.ListFiles(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFileResponses(files))
}
