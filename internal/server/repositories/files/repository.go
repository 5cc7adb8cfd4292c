package files

import (
	"context"

	"github.com/dmitrijs2005/sbts/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) error
	GetByKey(ctx context.Context, key string) (*models.File, error)
	List(ctx context.Context) ([]*models.File, error)
}
