package users

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateFullName(ctx context.Context, id string, fullName string) error
	UpdatePasswordHashByEmail(ctx context.Context, email string, passwordHash string) error
}
