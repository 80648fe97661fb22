// Package session persists which user is logged in between CLI invocations.
//
// A Store holds at most one user id. Load never fails: a missing, unreadable
// or malformed record simply means nobody is logged in.
package session

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/filex"
	"github.com/saitej-a/Innobyte-services/internal/repositories/metadata"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
)

type Store interface {
	Save(ctx context.Context, userID int64) error
	Load(ctx context.Context) (int64, bool)
	Clear(ctx context.Context) error
}

// FileStore keeps the id as decimal text in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(_ context.Context, userID int64) error {
	if err := filex.WriteFileAtomic(s.path, []byte(strconv.FormatInt(userID, 10)), 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (int64, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, false
	}
	return parseID(data)
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := filex.RemoveIfExists(s.path); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// MetadataStore keeps the id in the database metadata table.
type MetadataStore struct {
	repo metadata.Repository
}

func NewMetadataStore(db dbx.DBTX, rm repomanager.RepositoryManager) *MetadataStore {
	return &MetadataStore{repo: rm.Metadata(db)}
}

func (s *MetadataStore) Save(ctx context.Context, userID int64) error {
	if err := s.repo.Set(ctx, common.SessionMetadataKey, []byte(strconv.FormatInt(userID, 10))); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *MetadataStore) Load(ctx context.Context) (int64, bool) {
	data, err := s.repo.Get(ctx, common.SessionMetadataKey)
	if err != nil || data == nil {
		return 0, false
	}
	return parseID(data)
}

func (s *MetadataStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.SessionMetadataKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func parseID(data []byte) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
