package httpapi

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/sbts/internal/logging"
	"github.com/dmitrijs2005/sbts/internal/server/models"
	"github.com/gin-gonic/gin"
)

// BlobService is the subset of services.BlobService the handlers need.
type BlobService interface {
	Ingest(ctx context.Context, r io.Reader, owner string) (string, error)
	Claim(ctx context.Context, id, owner, name string, ts time.Time) (*models.File, error)
	Open(ctx context.Context, key string) (*models.File, io.ReadCloser, int64, error)
	ListFiles(ctx context.Context) ([]*models.File, error)
}

// NewRouter builds the gin engine. Uploading and claiming require a bearer
// token; downloads and the listing are public.
func NewRouter(svc BlobService, secretKey string, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), AccessLog(logger), Authenticate([]byte(secretKey)))

	h := &Handler{svc: svc, now: time.Now}

	r.POST("/blobs/", RequireOwner(), h.Upload)
	r.GET("/blobs/:key", h.Download)
	r.HEAD("/blobs/:key", h.Download)

	r.GET("/files", h.ListFiles)
	r.POST("/files", RequireOwner(), h.Claim)

	return r
}
