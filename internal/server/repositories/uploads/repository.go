package uploads

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sbts/internal/server/models"
)

// Repository persists the provisional upload ledger.
type Repository interface {
	Create(ctx context.Context, u *models.ProvisionalUpload) error
	MarkCompleted(ctx context.Context, id string, size int64) error
	GetCompletedForOwner(ctx context.Context, id, owner string) (*models.ProvisionalUpload, error)
	Delete(ctx context.Context, id string) error
	ListStale(ctx context.Context, olderThan time.Duration) ([]*models.ProvisionalUpload, error)
}
