// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, password changes and
// issuing signed bearer tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/dmitrijs2005/movievault/internal/cryptox"
	"github.com/dmitrijs2005/movievault/internal/dbx"
	"github.com/dmitrijs2005/movievault/internal/logging"
	"github.com/dmitrijs2005/movievault/internal/server/auth"
	"github.com/dmitrijs2005/movievault/internal/server/config"
	"github.com/dmitrijs2005/movievault/internal/server/models"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/repomanager"
)

// UserDTO is the public-safe projection of an identity. It never carries
// the stored hash or salt.
type UserDTO struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// UserService provides authentication-related operations:
// - Register: create identities
// - Login: verify credentials and mint a token
// - ChangePassword: replace the stored hash+salt pair
// - Delete / List: account administration
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	logger                logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		logger:                logger.With("component", "users"),
	}
}

// Register creates a new identity. The role is normalized against the
// allowed set, a duplicate email fails with ErrorAlreadyExists, and the
// password is hashed with a freshly generated salt. The stored hash is
// never a caller-supplied one.
func (s *UserService) Register(ctx context.Context, email, password, role string) (*UserDTO, error) {
	if email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	hash, salt, err := cryptox.Hash(password, nil)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Role:         models.ParseRole(role),
	}

	// Duplicate check and insert share one transaction so a concurrent
	// register for the same email cannot slip between them.
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.Exists(ctx, email)
		if err != nil {
			return common.ErrorInternal
		}
		if exists {
			return common.ErrorAlreadyExists
		}

		return repo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "registration failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &UserDTO{Email: user.Email, Role: user.Role}, nil
}

// Login verifies the credentials and, on success, returns a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !cryptox.Verify(password, user.PasswordHash, user.Salt) {
		return "", common.ErrorUnauthorized
	}

	return s.IssueToken(ctx, email)
}

// IssueToken re-checks that the identity still exists and mints a bearer
// token embedding its email and role. The caller must have verified the
// credentials already.
func (s *UserService) IssueToken(ctx context.Context, email string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.Email, user.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	return token, nil
}

// ChangePassword verifies the old password and replaces the stored hash and
// salt together. No token is reissued.
func (s *UserService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if newPassword == "" {
		return common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	if !cryptox.Verify(oldPassword, user.PasswordHash, user.Salt) {
		return common.ErrorUnauthorized
	}

	hash, salt, err := cryptox.Hash(newPassword, nil)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.Salt = salt

	if err := repo.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "password update failed", "email", email, "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// Delete removes an identity and returns its public projection.
func (s *UserService) Delete(ctx context.Context, email string) (*UserDTO, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if err := repo.Delete(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return &UserDTO{Email: user.Email, Role: user.Role}, nil
}

// List returns the public projections of all identities.
func (s *UserService) List(ctx context.Context) ([]*UserDTO, error) {
	repo := s.repomanager.Users(s.db)

	all, err := repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	result := make([]*UserDTO, 0, len(all))
	for _, u := range all {
		result = append(result, &UserDTO{Email: u.Email, Role: u.Role})
	}

	return result, nil
}
