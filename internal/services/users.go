// Package services contains the ledger's business logic. Every operation
// takes the acting user id explicitly; nothing here knows how that id was
// obtained.
//
// This file implements UserService, which registers accounts and checks
// credentials.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/cryptox"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/models"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h cryptox.Hasher, log logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, hasher: h, log: log}
}

// Register creates an account. A taken username yields
// common.ErrDuplicateUsername; any other storage fault is wrapped in
// common.ErrPersistence.
func (s *UserService) Register(ctx context.Context, username string, password []byte) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateUsername
	case !errors.Is(err, common.ErrNotFound):
		return nil, common.Persistence("lookup user", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	u, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, common.Persistence("create user", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate checks the password and returns the user's id. The caller
// decides whether to persist it as the active identity.
func (s *UserService) Authenticate(ctx context.Context, username string, password []byte) (int64, error) {
	repo := s.repomanager.Users(s.db)

	u, err := repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, common.ErrUnknownUser
		}
		return 0, common.Persistence("lookup user", err)
	}

	if !s.hasher.Verify(u.PasswordHash, password) {
		s.log.Warn(ctx, "failed login", "user_id", u.ID)
		return 0, common.ErrBadCredentials
	}

	s.log.Debug(ctx, "user authenticated", "user_id", u.ID)
	return u.ID, nil
}

// GetUser resolves an id to its account, e.g. for whoami.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownUser
		}
		return nil, common.Persistence("get user", err)
	}
	return u, nil
}
