package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/dmitrijs2005/movievault/internal/logging"
	"github.com/dmitrijs2005/movievault/internal/server/models"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/repomanager"
)

// CategoryService provides CRUD over movie categories.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *CategoryService {
	return &CategoryService{
		db:          db,
		repomanager: m,
		logger:      logger.With("component", "categories"),
	}
}

func (s *CategoryService) GetAll(ctx context.Context) ([]*models.Category, error) {
	return s.repomanager.Categories(s.db).GetAll(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return s.repomanager.Categories(s.db).GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Categories(s.db)

	exists, err := repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	category := &models.Category{Name: name}
	if err := repo.Create(ctx, category); err != nil {
		s.logger.Error(ctx, "category insert failed", "name", name, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string) error {
	if name == "" {
		return common.ErrorValidation
	}

	repo := s.repomanager.Categories(s.db)

	category, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	category.Name = name

	if err := repo.Update(ctx, category); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	err := s.repomanager.Categories(s.db).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
