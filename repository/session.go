package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
}
