package movies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/dmitrijs2005/movievault/internal/dbx"
	"github.com/dmitrijs2005/movievault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const movieColumns = `id, name, synopsis, duration, image_url, all_public, created_at, category_id`

func scanMovie(row interface{ Scan(dest ...any) error }) (*models.Movie, error) {
	m := &models.Movie{}
	var imageURL sql.NullString
	err := row.Scan(&m.ID, &m.Name, &m.Synopsis, &m.Duration, &imageURL, &m.AllPublic, &m.CreatedAt, &m.CategoryID)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		m.ImageURL = &imageURL.String
	}
	return m, nil
}

func (r *PostgresRepository) queryMovies(ctx context.Context, query string, args ...any) ([]*models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.Movie, error) {
	query :=
		`SELECT ` + movieColumns + ` FROM movies
		 ORDER BY name
		 `
	return r.queryMovies(ctx, query)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	query :=
		`SELECT ` + movieColumns + ` FROM movies
		 WHERE id = $1
		 `

	m, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) GetByCategory(ctx context.Context, categoryID int64) ([]*models.Movie, error) {
	query :=
		`SELECT ` + movieColumns + ` FROM movies
		 WHERE category_id = $1
		 ORDER BY name
		 `
	return r.queryMovies(ctx, query, categoryID)
}

func (r *PostgresRepository) SearchByName(ctx context.Context, name string) ([]*models.Movie, error) {
	query :=
		`SELECT ` + movieColumns + ` FROM movies
		 WHERE name ILIKE '%' || $1 || '%' OR synopsis ILIKE '%' || $1 || '%'
		 ORDER BY name
		 `
	return r.queryMovies(ctx, query, name)
}

func (r *PostgresRepository) Create(ctx context.Context, movie *models.Movie) error {
	query :=
		`INSERT INTO movies (name, synopsis, duration, image_url, all_public, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		movie.Name, movie.Synopsis, movie.Duration, movie.ImageURL, movie.AllPublic, movie.CategoryID).
		Scan(&movie.ID, &movie.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, movie *models.Movie) error {
	query :=
		`UPDATE movies SET name = $2, synopsis = $3, duration = $4, image_url = $5, all_public = $6, category_id = $7
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		movie.ID, movie.Name, movie.Synopsis, movie.Duration, movie.ImageURL, movie.AllPublic, movie.CategoryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM movies
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM movies WHERE lower(btrim(name)) = lower(btrim($1)))
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
