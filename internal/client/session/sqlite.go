package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/buildtrack/internal/client/repositories/storage"
	"github.com/dmitrijs2005/buildtrack/internal/common"
	"github.com/dmitrijs2005/buildtrack/internal/dbx"
)

// SQLiteStore persists tokens in the local storage database under the
// common.AccessTokenStorageKey and common.RefreshTokenStorageKey keys, so a
// session survives process restarts. Pair updates run in one transaction.
type SQLiteStore struct {
	mu   sync.RWMutex
	db   *sql.DB
	repo func(dbx.DBTX) storage.Repository
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db: db,
		repo: func(q dbx.DBTX) storage.Repository {
			return storage.NewSQLiteRepository(q)
		},
	}
}

func (s *SQLiteStore) Tokens(ctx context.Context) (Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// One read so the pair always comes from the same snapshot.
	rows, err := s.repo(s.db).List(ctx)
	if err != nil {
		return Tokens{}, fmt.Errorf("load tokens: %w", err)
	}
	return Tokens{
		AccessToken:  string(rows[common.AccessTokenStorageKey]),
		RefreshToken: string(rows[common.RefreshTokenStorageKey]),
	}, nil
}

func (s *SQLiteStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, common.AccessTokenStorageKey)
}

func (s *SQLiteStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, common.RefreshTokenStorageKey)
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.repo(s.db).Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *SQLiteStore) SetTokens(ctx context.Context, t Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		if t.AccessToken == "" {
			if err := repo.Delete(ctx, common.AccessTokenStorageKey); err != nil {
				return err
			}
		} else if err := repo.Set(ctx, common.AccessTokenStorageKey, []byte(t.AccessToken)); err != nil {
			return err
		}

		if t.RefreshToken != "" {
			if err := repo.Set(ctx, common.RefreshTokenStorageKey, []byte(t.RefreshToken)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ClearTokens(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, common.AccessTokenStorageKey, common.RefreshTokenStorageKey)
	})
}
