package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

type sessionRepository struct {
	client redislib.UniversalClient
	prefix string
}

// NewSessionRepository creates a Redis-backed session repository. Keys carry
// no TTL; a session lives until it is revoked.
func NewSessionRepository(client redislib.UniversalClient) repository.SessionRepository {
	return &sessionRepository{
		client: client,
		prefix: "session:",
	}
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	result, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
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

	ok, err := r.client.SetNX(ctx, r.key(session.Token), payload, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewError(domain.ErrCodeConflict, "session token already issued")
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

func (r *sessionRepository) key(token string) string {
	return fmt.Sprintf("%s%s", r.prefix, token)
}
