package httpapi

import (
	"time"

	"github.com/dmitrijs2005/sbts/internal/server/models"
	"github.com/samber/lo"
)

type uploadResponse struct {
	Key string `json:"key"`
}

type claimRequest struct {
	BlobKey  string `form:"blobkey" json:"blobkey"`
	FileName string `form:"filename" json:"filename"`
}

type fileResponse struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
	Owner        string    `json:"owner"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		Key:          f.Key,
		Name:         f.Name,
		LastModified: f.LastModified,
		Size:         f.Size,
		Owner:        f.Owner,
	}
}

func toFileResponses(files []*models.File) []fileResponse {
	return lo.Map(files, func(f *models.File, _ int) fileResponse {
		return toFileResponse(f)
	})
}
