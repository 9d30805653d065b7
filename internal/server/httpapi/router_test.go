package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/dmitrijs2005/movievault/internal/dbx"
	"github.com/dmitrijs2005/movievault/internal/logging"
	"github.com/dmitrijs2005/movievault/internal/server/auth"
	"github.com/dmitrijs2005/movievault/internal/server/config"
	"github.com/dmitrijs2005/movievault/internal/server/models"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/categories"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/movies"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/users"
	"github.com/dmitrijs2005/movievault/internal/server/services"
	"github.com/gin-gonic/gin"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (nopLogger) With(args ...any) logging.Logger                    { return nopLogger{} }

type stubUsersRepo struct {
	byEmail map[string]*models.User
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{byEmail: make(map[string]*models.User)}
}

func (r *stubUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *stubUsersRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubUsersRepo) Create(ctx context.Context, user *models.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *stubUsersRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.byEmail[user.Email]; !ok {
		return common.ErrorNotFound
	}
	r.byEmail[user.Email] = user
	return nil
}

func (r *stubUsersRepo) Delete(ctx context.Context, email string) error {
	if _, ok := r.byEmail[email]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byEmail, email)
	return nil
}

func (r *stubUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	result := make([]*models.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

type stubRepoManager struct {
	users *stubUsersRepo
}

func (m *stubRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *stubRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *stubRepoManager) Movies(db dbx.DBTX) movies.Repository                { return nil }
func (m *stubRepoManager) Categories(db dbx.DBTX) categories.Repository        { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.AssetBackend = config.AssetBackendS3
	return cfg
}

// newTestRouter wires a router around an in-memory users repo. The returned
// sqlmock only needs to serve transaction begin/commit pairs.
func newTestRouter(t *testing.T) (*gin.Engine, *stubUsersRepo, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := newStubUsersRepo()
	cfg := testConfig()
	svc := services.NewUserService(db, &stubRepoManager{users: repo}, cfg, nopLogger{})
	r := Setup(cfg, NewUserHandler(svc), &MovieHandler{}, &CategoryHandler{})
	return r, repo, mock
}

func postJSON(t *testing.T, r http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, _, mock := newTestRouter(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	w := postJSON(t, r, "/api/v1/users/register",
		map[string]string{"email": "user@example.com", "password": "pass123"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/api/v1/users/login",
		map[string]string{"email": "user@example.com", "password": "pass123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := auth.ParseToken(resp.Token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("returned token does not parse: %v", err)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("token email: got %q", claims.Email)
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	r, _, mock := newTestRouter(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	body := map[string]string{"email": "dup@example.com", "password": "pass123"}
	if w := postJSON(t, r, "/api/v1/users/register", body, ""); w.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", w.Code)
	}
	if w := postJSON(t, r, "/api/v1/users/register", body, ""); w.Code != http.StatusConflict {
		t.Errorf("second register: expected 409, got %d", w.Code)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	r, _, mock := newTestRouter(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	postJSON(t, r, "/api/v1/users/register",
		map[string]string{"email": "user@example.com", "password": "pass123"}, "")

	w := postJSON(t, r, "/api/v1/users/login",
		map[string]string{"email": "user@example.com", "password": "wrong"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestAdminRouteForbiddenForUser(t *testing.T) {
	r, _, _ := newTestRouter(t)

	token, err := auth.GenerateToken("user@example.com", models.RoleUser, []byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestDeleteUserAsAdmin(t *testing.T) {
	r, repo, mock := newTestRouter(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	postJSON(t, r, "/api/v1/users/register",
		map[string]string{"email": "victim@example.com", "password": "pass123"}, "")

	token, err := auth.GenerateToken("admin@example.com", models.RoleAdmin, []byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/victim@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if _, ok := repo.byEmail["victim@example.com"]; ok {
		t.Error("user still present after delete")
	}
}
