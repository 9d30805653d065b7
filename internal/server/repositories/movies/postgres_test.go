package movies

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/dmitrijs2005/movievault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func movieRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "synopsis", "duration", "image_url", "all_public", "created_at", "category_id"})
}

func TestGetByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := movieRows().AddRow(int64(7), "Alien", "In space", 117, "http://h/img/x.png", true, now, int64(2))
	mock.ExpectQuery(`SELECT .* FROM movies\s+WHERE id = \$1`).WithArgs(int64(7)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 7 || got.Name != "Alien" || got.ImageURL == nil || *got.ImageURL != "http://h/img/x.png" {
		t.Fatalf("unexpected movie: %+v", got)
	}
}

func TestGetByID_NullImage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := movieRows().AddRow(int64(8), "Clerks", "", 92, nil, false, time.Now(), int64(1))
	mock.ExpectQuery(`SELECT .* FROM movies`).WithArgs(int64(8)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 8)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ImageURL != nil {
		t.Fatalf("expected nil image reference, got %v", *got.ImageURL)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM movies`).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestCreate_SetsIDAndCreatedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now)
	mock.ExpectQuery(`INSERT INTO movies`).
		WithArgs("Alien", "In space", 117, nil, true, int64(2)).
		WillReturnRows(rows)

	m := &models.Movie{Name: "Alien", Synopsis: "In space", Duration: 117, AllPublic: true, CategoryID: 2}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if m.ID != 5 || !m.CreatedAt.Equal(now) {
		t.Fatalf("returned id/created_at not applied: %+v", m)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE movies`).WillReturnResult(sqlmock.NewResult(0, 0))

	m := &models.Movie{ID: 404, Name: "x", CategoryID: 1}
	if err := repo.Update(context.Background(), m); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM movies`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestExistsByName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery(`SELECT EXISTS .*lower\(btrim\(name\)\)`).WithArgs("  alien ").WillReturnRows(rows)

	ok, err := repo.ExistsByName(context.Background(), "  alien ")
	if err != nil {
		t.Fatalf("ExistsByName error: %v", err)
	}
	if !ok {
		t.Fatalf("expected exists = true")
	}
}

func TestSearchByName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := movieRows().
		AddRow(int64(1), "Alien", "In space", 117, nil, true, time.Now(), int64(2)).
		AddRow(int64(2), "Aliens", "More space", 137, nil, true, time.Now(), int64(2))
	mock.ExpectQuery(`SELECT .* FROM movies\s+WHERE name ILIKE`).WithArgs("alien").WillReturnRows(rows)

	got, err := repo.SearchByName(context.Background(), "alien")
	if err != nil {
		t.Fatalf("SearchByName error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(got))
	}
}
