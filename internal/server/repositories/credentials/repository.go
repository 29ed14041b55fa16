package credentials

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, cred *models.Credential) (*models.Credential, error)
	GetByID(ctx context.Context, id string) (*models.Credential, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Credential, error)
	ListAll(ctx context.Context) ([]*models.Credential, error)
	Update(ctx context.Context, cred *models.Credential) error
	Delete(ctx context.Context, id string) error
}
