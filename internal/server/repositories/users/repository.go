package users

import (
	"context"

	"github.com/dmitrijs2005/movievault/internal/server/models"
)

// Repository is the identity collaborator consumed by the account service.
// "Not found" is reported as common.ErrorNotFound, never invented records.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]*models.User, error)
}
