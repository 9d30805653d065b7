package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/dmitrijs2005/movievault/internal/server/models"
)

type fakeCategoriesRepo struct {
	categories map[int64]*models.Category
	byName     map[string]bool

	created *models.Category
	updated *models.Category
	deleted []int64
}

func (f *fakeCategoriesRepo) GetAll(ctx context.Context) ([]*models.Category, error) {
	var all []*models.Category
	for _, c := range f.categories {
		all = append(all, c)
	}
	return all, nil
}

func (f *fakeCategoriesRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, c *models.Category) error {
	c.ID = int64(len(f.categories) + 1)
	c.CreatedAt = time.Now()
	f.created = c
	return nil
}

func (f *fakeCategoriesRepo) Update(ctx context.Context, c *models.Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return common.ErrorNotFound
	}
	f.updated = c
	return nil
}

func (f *fakeCategoriesRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return common.ErrorNotFound
	}
	f.deleted = append(f.deleted, id)
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoriesRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.categories[id]
	return ok, nil
}

func (f *fakeCategoriesRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return f.byName[name], nil
}

func newCategoryService(t *testing.T, repo *fakeCategoriesRepo) *CategoryService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })
	return NewCategoryService(db, &fakeRepoManager{c: repo}, discardLogger())
}

func TestCategoryCreate(t *testing.T) {
	repo := &fakeCategoriesRepo{categories: map[int64]*models.Category{}, byName: map[string]bool{}}
	s := newCategoryService(t, repo)

	c, err := s.Create(context.Background(), "Horror")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if c.ID == 0 || c.Name != "Horror" {
		t.Fatalf("unexpected category: %+v", c)
	}
}

func TestCategoryCreate_Duplicate(t *testing.T) {
	repo := &fakeCategoriesRepo{categories: map[int64]*models.Category{}, byName: map[string]bool{"Horror": true}}
	s := newCategoryService(t, repo)

	if _, err := s.Create(context.Background(), "Horror"); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestCategoryCreate_EmptyName(t *testing.T) {
	s := newCategoryService(t, &fakeCategoriesRepo{categories: map[int64]*models.Category{}, byName: map[string]bool{}})

	if _, err := s.Create(context.Background(), ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation, got %v", err)
	}
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	s := newCategoryService(t, &fakeCategoriesRepo{categories: map[int64]*models.Category{}})

	if err := s.Update(context.Background(), 404, "Drama"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestCategoryDelete(t *testing.T) {
	repo := &fakeCategoriesRepo{categories: map[int64]*models.Category{
		3: {ID: 3, Name: "Horror"},
	}}
	s := newCategoryService(t, repo)

	if err := s.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := s.Delete(context.Background(), 3); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound on second delete, got %v", err)
	}
}
