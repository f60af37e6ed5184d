package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/dbx"
)

const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
)

// SessionStore persists the auth token and the cached user profile.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Token returns the stored token, or "" when signed out.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	v, err := NewKVRepository(s.db).Get(ctx, KeyAuthToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Load returns the stored session, or nil when either half is missing.
// Both halves are read in one transaction. A corrupt user snapshot is
// treated as signed out.
func (s *SessionStore) Load(ctx context.Context) (*models.Session, error) {
	var token, raw []byte
	err := dbx.WithTx(ctx, s.db, func(tx dbx.DBTX) error {
		repo := NewKVRepository(tx)
		var err error
		if token, err = repo.Get(ctx, KeyAuthToken); err != nil {
			return err
		}
		raw, err = repo.Get(ctx, KeyUserData)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(token) == 0 || len(raw) == 0 {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, nil
	}
	return &models.Session{Token: string(token), User: user}, nil
}

// Save stores the token and user in one transaction.
func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	raw, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode cached user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, func(tx dbx.DBTX) error {
		repo := NewKVRepository(tx)
		if err := repo.Set(ctx, KeyAuthToken, []byte(session.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUserData, raw)
	})
}

// SaveUser refreshes only the cached user.
func (s *SessionStore) SaveUser(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode cached user: %w", err)
	}
	return NewKVRepository(s.db).Set(ctx, KeyUserData, raw)
}

// Clear removes the token and cached user together.
func (s *SessionStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, func(tx dbx.DBTX) error {
		repo := NewKVRepository(tx)
		if err := repo.Delete(ctx, KeyAuthToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyUserData)
	})
}
