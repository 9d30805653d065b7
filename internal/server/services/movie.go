package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/dmitrijs2005/movievault/internal/logging"
	"github.com/dmitrijs2005/movievault/internal/server/assets"
	"github.com/dmitrijs2005/movievault/internal/server/models"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/repomanager"
)

// posterCategory is the asset-store category all movie posters live under.
const posterCategory = "img"

// ImagePayload is an uploaded poster image.
type ImagePayload struct {
	Content   []byte
	Extension string
}

// MovieCreateInput carries the fields of a new catalog entry.
type MovieCreateInput struct {
	Name       string
	Synopsis   string
	Duration   int
	AllPublic  bool
	CategoryID int64
	Image      *ImagePayload
}

// MovieUpdateInput carries the full replacement state of an existing entry.
type MovieUpdateInput struct {
	ID         int64
	Name       string
	Synopsis   string
	Duration   int
	AllPublic  bool
	CategoryID int64
	Image      *ImagePayload
}

// MovieService orchestrates catalog records together with their poster
// assets, keeping the stored image reference consistent with the files on
// storage across create, update and delete.
type MovieService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       assets.Store
	logger      logging.Logger
}

func NewMovieService(db *sql.DB, m repomanager.RepositoryManager, store assets.Store, logger logging.Logger) *MovieService {
	return &MovieService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("component", "movies"),
	}
}

func (s *MovieService) GetAll(ctx context.Context) ([]*models.Movie, error) {
	return s.repomanager.Movies(s.db).GetAll(ctx)
}

func (s *MovieService) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	return s.repomanager.Movies(s.db).GetByID(ctx, id)
}

func (s *MovieService) GetByCategory(ctx context.Context, categoryID int64) ([]*models.Movie, error) {
	return s.repomanager.Movies(s.db).GetByCategory(ctx, categoryID)
}

func (s *MovieService) SearchByName(ctx context.Context, name string) ([]*models.Movie, error) {
	return s.repomanager.Movies(s.db).SearchByName(ctx, name)
}

// Create validates the name is unique, saves the poster (if any) and then
// persists the record. The asset is always saved before the record is
// committed, so a committed record never points at an unsaved file. If
// persistence fails after a successful save the file is orphaned; that is
// accepted and logged, and no compensating delete is attempted.
func (s *MovieService) Create(ctx context.Context, in MovieCreateInput) (*models.Movie, error) {
	if in.Name == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Movies(s.db)

	exists, err := repo.ExistsByName(ctx, in.Name)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	movie := &models.Movie{
		Name:       in.Name,
		Synopsis:   in.Synopsis,
		Duration:   in.Duration,
		AllPublic:  in.AllPublic,
		CategoryID: in.CategoryID,
	}

	if in.Image != nil {
		url, err := s.store.Save(ctx, in.Image.Content, in.Image.Extension, posterCategory)
		if err != nil {
			if errors.Is(err, common.ErrorValidation) {
				return nil, err
			}
			s.logger.Error(ctx, "poster save failed", "movie", in.Name, "error", err.Error())
			return nil, common.ErrorInternal
		}
		movie.ImageURL = &url
	}

	if err := repo.Create(ctx, movie); err != nil {
		if movie.ImageURL != nil {
			s.logger.Error(ctx, "record insert failed after poster save, file orphaned",
				"movie", in.Name, "url", *movie.ImageURL, "error", err.Error())
		} else {
			s.logger.Error(ctx, "record insert failed", "movie", in.Name, "error", err.Error())
		}
		return nil, common.ErrorInternal
	}

	return movie, nil
}

// Update applies field changes to an existing record. When a new poster is
// supplied the old file is deleted best-effort and the new one saved before
// the reference is swapped; a missing old file never blocks the update.
func (s *MovieService) Update(ctx context.Context, id int64, in MovieUpdateInput) error {
	if id != in.ID {
		return common.ErrorIDMismatch
	}

	repo := s.repomanager.Movies(s.db)

	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	existing.Name = in.Name
	existing.Synopsis = in.Synopsis
	existing.Duration = in.Duration
	existing.AllPublic = in.AllPublic
	existing.CategoryID = in.CategoryID

	if in.Image != nil {
		oldURL := ""
		if existing.ImageURL != nil {
			oldURL = *existing.ImageURL
		}

		url, err := s.store.Replace(ctx, in.Image.Content, in.Image.Extension, posterCategory, oldURL)
		if err != nil {
			if errors.Is(err, common.ErrorValidation) {
				return err
			}
			s.logger.Error(ctx, "poster replace failed", "id", id, "error", err.Error())
			return common.ErrorInternal
		}
		existing.ImageURL = &url
	}

	if err := repo.Update(ctx, existing); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "record update failed", "id", id, "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// Delete removes the record and then its poster file. The record removal is
// authoritative: a failed asset cleanup afterwards is logged, not rolled
// back. Returns false when no record matched.
func (s *MovieService) Delete(ctx context.Context, id int64) (bool, error) {
	repo := s.repomanager.Movies(s.db)

	movie, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, common.ErrorInternal
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, common.ErrorInternal
	}

	if movie.ImageURL != nil {
		if err := s.store.Delete(ctx, *movie.ImageURL, posterCategory); err != nil {
			s.logger.Error(ctx, "poster cleanup failed, file orphaned",
				"id", id, "url", *movie.ImageURL, "error", err.Error())
		}
	}

	return true, nil
}

func (s *MovieService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repomanager.Movies(s.db).ExistsByName(ctx, name)
}
