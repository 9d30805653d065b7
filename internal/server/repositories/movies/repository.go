package movies

import (
	"context"

	"github.com/dmitrijs2005/movievault/internal/server/models"
)

// Repository is the catalog-record collaborator consumed by the movie
// service. "Not found" is reported as common.ErrorNotFound.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.Movie, error)
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	GetByCategory(ctx context.Context, categoryID int64) ([]*models.Movie, error)
	// SearchByName matches a substring against name and synopsis.
	SearchByName(ctx context.Context, name string) ([]*models.Movie, error)
	Create(ctx context.Context, movie *models.Movie) error
	Update(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// ExistsByName compares case-insensitively with surrounding whitespace
	// trimmed.
	ExistsByName(ctx context.Context, name string) (bool, error)
}
