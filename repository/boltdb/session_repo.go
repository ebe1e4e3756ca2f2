package boltdb

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
	boltInfra "github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/repository"
)

type sessionRepository struct {
	db *bolt.DB
}

// NewSessionRepository stores sessions in the bbolt file.
func NewSessionRepository(db *bolt.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltInfra.BucketSessions).Get([]byte(token))
		if raw == nil {
			return domain.ErrSessionNotFound
		}
		return json.Unmarshal(raw, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.Token == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(boltInfra.BucketSessions)
		if sessions.Get([]byte(session.Token)) != nil {
			return domain.NewError(domain.ErrCodeConflict, "session token already issued")
		}
		return sessions.Put([]byte(session.Token), payload)
	})
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltInfra.BucketSessions).Delete([]byte(token))
	})
}
